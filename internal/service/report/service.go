package report

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/queue"
	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/observability/telemetry"
	"github.com/carboniq/server/internal/ports"
)

var ErrInvalidRequest = fmt.Errorf("invalid report request")

var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Options controls how the dashboard surface is rasterized for PDF output.
type Options struct {
	SnapshotScale   float64
	SnapshotTimeout time.Duration
}

type Service struct {
	analytics ports.AnalyticsService
	snapshots ports.SnapshotSource
	reports   ports.ReportRepository
	identity  ports.IdentityProvider
	mq        queue.MessageQueue
	validate  *validator.Validate
	opts      Options
	log       *zap.Logger
}

func NewService(
	analytics ports.AnalyticsService,
	snapshots ports.SnapshotSource,
	reports ports.ReportRepository,
	identity ports.IdentityProvider,
	mq queue.MessageQueue,
	opts Options,
	log *zap.Logger,
) ports.ReportService {
	if opts.SnapshotScale <= 0 {
		opts.SnapshotScale = 2
	}
	if opts.SnapshotTimeout <= 0 {
		opts.SnapshotTimeout = 5 * time.Second
	}
	return &Service{
		analytics: analytics,
		snapshots: snapshots,
		reports:   reports,
		identity:  identity,
		mq:        mq,
		validate:  validator.New(),
		opts:      opts,
		log:       log,
	}
}

// Generate validates the request fully before any rendering work starts. A
// bad request never touches the snapshot source.
func (s *Service) Generate(ctx context.Context, orgID, userID string, req domain.ReportRequest) (*domain.ReportFile, error) {
	if err := s.validateRequest(req); err != nil {
		telemetry.ReportsGeneratedTotal.WithLabelValues(string(req.Format), "rejected").Inc()
		return nil, err
	}

	start, end := resolveRange(req, time.Now().UTC())
	summary, err := s.analytics.SummarizeRange(ctx, orgID, start, end)
	if err != nil {
		telemetry.ReportsGeneratedTotal.WithLabelValues(string(req.Format), "error").Inc()
		return nil, fmt.Errorf("failed to summarize range: %w", err)
	}

	var data []byte
	switch req.Format {
	case domain.ReportFormatPDF:
		data, err = s.renderPDF(ctx, req.Name)
	case domain.ReportFormatCSV:
		data, err = renderCSV(summary)
	case domain.ReportFormatExcel:
		data, err = renderExcel(req.Name, start, end, summary)
	default:
		err = fmt.Errorf("%w: unsupported format %q", ErrInvalidRequest, req.Format)
	}
	if err != nil {
		telemetry.ReportsGeneratedTotal.WithLabelValues(string(req.Format), "error").Inc()
		return nil, err
	}

	file := &domain.ReportFile{
		Filename:    buildFilename(req.Name, req.Format, end),
		ContentType: contentType(req.Format),
		Data:        data,
	}

	entry := &domain.Report{
		ID:             s.identity.NewID(),
		OrganizationID: orgID,
		Name:           req.Name,
		Type:           req.Type,
		Format:         req.Format,
		StartDate:      start,
		EndDate:        end,
		TotalTonnes:    summary.TotalTonnes,
		SizeBytes:      int64(len(data)),
		GeneratedBy:    userID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.reports.Save(ctx, entry); err != nil {
		// The rendered file is still good; catalog persistence is best effort.
		s.log.Warn("Failed to save report catalog entry",
			zap.String("org_id", orgID),
			zap.Error(err),
		)
	} else {
		s.publishGenerated(entry)
	}

	telemetry.ReportsGeneratedTotal.WithLabelValues(string(req.Format), "ok").Inc()
	s.log.Info("Report generated",
		zap.String("org_id", orgID),
		zap.String("format", string(req.Format)),
		zap.Int("size_bytes", len(data)),
	)
	return file, nil
}

func (s *Service) List(ctx context.Context, orgID string) ([]domain.Report, error) {
	return s.reports.FindByOrganization(ctx, orgID)
}

func (s *Service) validateRequest(req domain.ReportRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.Type == domain.ReportTypeCustom {
		if req.StartDate.IsZero() || req.EndDate.IsZero() {
			return fmt.Errorf("%w: custom reports need a start and end date", ErrInvalidRequest)
		}
		if req.EndDate.Before(req.StartDate) {
			return fmt.Errorf("%w: end date before start date", ErrInvalidRequest)
		}
	}
	return nil
}

func (s *Service) renderPDF(ctx context.Context, title string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.SnapshotTimeout)
	defer cancel()

	start := time.Now()
	png, err := s.snapshots.Capture(ctx, s.opts.SnapshotScale)
	telemetry.SnapshotLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to capture dashboard snapshot: %w", err)
	}
	return BuildPDF(png, title, time.Now().UTC())
}

func (s *Service) publishGenerated(entry *domain.Report) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.mq.Publish(queue.SubjectReportGenerated, data); err != nil {
		s.log.Warn("Failed to publish report event", zap.Error(err))
	}
}

// resolveRange maps a report type onto an absolute date window. Preset types
// look back from now; custom uses the requested dates verbatim.
func resolveRange(req domain.ReportRequest, now time.Time) (time.Time, time.Time) {
	switch req.Type {
	case domain.ReportTypeMonthly:
		return now.AddDate(0, -1, 0), now
	case domain.ReportTypeQuarterly:
		return now.AddDate(0, -3, 0), now
	case domain.ReportTypeAnnual:
		return now.AddDate(-1, 0, 0), now
	default:
		return req.StartDate, req.EndDate
	}
}

func buildFilename(name string, format domain.ReportFormat, end time.Time) string {
	base := filenameUnsafe.ReplaceAllString(strings.TrimSpace(name), "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "report"
	}
	ext := string(format)
	if format == domain.ReportFormatExcel {
		ext = "xlsx"
	}
	return fmt.Sprintf("%s-%s.%s", base, end.Format("2006-01-02"), ext)
}

func contentType(format domain.ReportFormat) string {
	switch format {
	case domain.ReportFormatPDF:
		return "application/pdf"
	case domain.ReportFormatCSV:
		return "text/csv"
	case domain.ReportFormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
