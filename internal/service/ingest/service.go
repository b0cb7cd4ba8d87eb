package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/queue"
	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/observability/telemetry"
	"github.com/carboniq/server/internal/ports"
	"github.com/carboniq/server/internal/service/analytics"
)

const dateLayout = "2006-01-02"

var (
	ErrNoRecords     = errors.New("ingest: no valid records in input")
	ErrUnknownSource = errors.New("ingest: unknown emission source")
	ErrInvalidAmount = errors.New("ingest: amount must be a finite non-negative number")
)

// Options control row-rejection policy.
type Options struct {
	// Strict fails the whole batch on the first unresolvable source name
	// instead of skipping the row.
	Strict  bool
	Mapping ColumnMapping
}

type Service struct {
	sources  ports.SourceRepository
	repo     ports.EmissionRepository
	identity ports.IdentityProvider
	mq       queue.MessageQueue
	cache    ports.Cache
	opts     Options
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(sources ports.SourceRepository, repo ports.EmissionRepository, identity ports.IdentityProvider, mq queue.MessageQueue, cache ports.Cache, opts Options, log *zap.Logger) ports.IngestService {
	if opts.Mapping == (ColumnMapping{}) {
		opts.Mapping = DefaultColumnMapping()
	}
	return &Service{
		sources:  sources,
		repo:     repo,
		identity: identity,
		mq:       mq,
		cache:    cache,
		opts:     opts,
		validate: validator.New(),
		log:      log,
	}
}

func (s *Service) IngestFile(ctx context.Context, orgID, userID string, content []byte) (*ports.IngestResult, error) {
	rows, skipped, err := ParseDelimited(content, s.opts.Mapping)
	if err != nil {
		return nil, err
	}
	return s.ingestRows(ctx, orgID, userID, rows, skipped, false)
}

func (s *Service) IngestDataset(ctx context.Context, orgID, userID, dataset string) (*ports.IngestResult, error) {
	// Predefined datasets are curated text, so source matching is forgiving
	// about case.
	return s.ingestRows(ctx, orgID, userID, ParseDataset(dataset), nil, true)
}

func (s *Service) IngestManual(ctx context.Context, orgID, userID string, entry ports.ManualEntry) (*domain.EmissionRecord, error) {
	if err := s.validate.Struct(entry); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Amount" {
			return nil, fmt.Errorf("%w: %f", ErrInvalidAmount, entry.Amount)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, entry.SourceName)
	}

	source, err := s.resolve(ctx, entry.SourceName, false)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, entry.SourceName)
	}
	if math.IsNaN(entry.Amount) || math.IsInf(entry.Amount, 0) || entry.Amount < 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidAmount, entry.Amount)
	}

	recorded := entry.RecordedDate
	if recorded.IsZero() {
		recorded = time.Now().UTC()
	}

	record := s.newRecord(orgID, userID, source, entry.Amount, recorded, entry.Notes)
	if err := s.repo.SaveBatch(ctx, []domain.EmissionRecord{record}); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, orgID)
	s.publishIngested(orgID, 1)
	return &record, nil
}

func (s *Service) ingestRows(ctx context.Context, orgID, userID string, rows []ports.RawRow, skipped []string, foldCase bool) (*ports.IngestResult, error) {
	result := &ports.IngestResult{Skipped: skipped}

	for i, row := range rows {
		source, err := s.resolve(ctx, row.SourceName, foldCase)
		if err != nil {
			return nil, err
		}
		if source == nil {
			if s.opts.Strict {
				return nil, fmt.Errorf("%w: row %d: %q", ErrUnknownSource, i+1, row.SourceName)
			}
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: unknown source %q", i+1, row.SourceName))
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(row.Amount), 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: invalid amount %q", i+1, row.Amount))
			continue
		}

		recorded, err := parseDate(row.Date)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: invalid date %q", i+1, row.Date))
			continue
		}

		result.Records = append(result.Records, s.newRecord(orgID, userID, source, amount, recorded, row.Notes))
	}

	telemetry.RowsSkippedTotal.Add(float64(len(result.Skipped)))

	if len(result.Records) == 0 {
		if len(result.Skipped) > 0 {
			return nil, fmt.Errorf("%w (%d rows skipped)", ErrNoRecords, len(result.Skipped))
		}
		return nil, ErrNoRecords
	}

	// Single batch write: the repository wraps this in one transaction, so a
	// failure leaves nothing behind.
	if err := s.repo.SaveBatch(ctx, result.Records); err != nil {
		return nil, fmt.Errorf("ingest: batch write failed: %w", err)
	}

	s.log.Info("Batch ingested",
		zap.String("org_id", orgID),
		zap.Int("records", len(result.Records)),
		zap.Int("skipped", len(result.Skipped)),
	)
	s.invalidateSummary(ctx, orgID)
	s.publishIngested(orgID, len(result.Records))
	return result, nil
}

func (s *Service) resolve(ctx context.Context, name string, foldCase bool) (*domain.EmissionSource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if !foldCase {
		return s.sources.FindByName(ctx, name)
	}

	all, err := s.sources.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, name) {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (s *Service) newRecord(orgID, userID string, source *domain.EmissionSource, amount float64, recorded time.Time, notes string) domain.EmissionRecord {
	now := time.Now().UTC()
	return domain.EmissionRecord{
		ID:             s.identity.NewID(),
		OrganizationID: orgID,
		SourceID:       source.ID,
		UserID:         userID,
		Amount:         amount,
		EmissionKgCo2:  amount * source.EmissionFactor,
		RecordedDate:   recorded,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// invalidateSummary drops the cached dashboard summary so the next read
// reflects the new records instead of waiting out the TTL.
func (s *Service) invalidateSummary(ctx context.Context, orgID string) {
	if err := s.cache.Delete(ctx, analytics.SummaryCacheKey(orgID)); err != nil {
		s.log.Warn("Failed to invalidate summary cache",
			zap.String("org_id", orgID),
			zap.Error(err),
		)
	}
}

func (s *Service) publishIngested(orgID string, count int) {
	telemetry.RecordsIngestedTotal.Add(float64(count))
	if s.mq == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"organization_id": orgID,
		"count":           count,
		"at":              time.Now().UTC(),
	})
	if err := s.mq.Publish(queue.SubjectEmissionsIngested, payload); err != nil {
		s.log.Warn("Failed to publish ingest event", zap.Error(err))
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
