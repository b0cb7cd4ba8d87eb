package analytics

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/observability/telemetry"
	"github.com/carboniq/server/internal/ports"
)

type Service struct {
	repo     ports.EmissionRepository
	cache    ports.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewService(repo ports.EmissionRepository, cache ports.Cache, cacheTTL time.Duration, log *zap.Logger) ports.AnalyticsService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// SummaryCacheKey names the cached dashboard summary for an organization.
// Writers invalidate it so a fresh ingest shows up before the TTL runs out.
func SummaryCacheKey(orgID string) string {
	return "summary:" + orgID
}

func (s *Service) Summarize(ctx context.Context, orgID string) (*domain.EmissionSummary, error) {
	key := SummaryCacheKey(orgID)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var summary domain.EmissionSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
	}

	start := time.Now()
	records, err := s.repo.FindJoined(ctx, orgID)
	if err != nil {
		return nil, err
	}
	summary := Aggregate(records)
	telemetry.AggregationLatency.Observe(time.Since(start).Seconds())

	if data, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
			s.log.Warn("Failed to cache summary", zap.String("org_id", orgID), zap.Error(err))
		}
	}
	return summary, nil
}

func (s *Service) SummarizeRange(ctx context.Context, orgID string, start, end time.Time) (*domain.EmissionSummary, error) {
	records, err := s.repo.FindJoinedInRange(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}
	return Aggregate(records), nil
}

func (s *Service) Forecast(ctx context.Context, orgID string, horizonMonths int) (*domain.Forecast, error) {
	summary, err := s.Summarize(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return Project(summary.Monthly, horizonMonths)
}
