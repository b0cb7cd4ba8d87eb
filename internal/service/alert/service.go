package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/queue"
	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/observability/telemetry"
	"github.com/carboniq/server/internal/ports"
)

const defaultSpikeThresholdPercent = 20.0

type Service struct {
	repo      ports.AlertRepository
	analytics ports.AnalyticsService
	identity  ports.IdentityProvider
	mq        queue.MessageQueue
	notifier  Notifier
	threshold float64
	log       *zap.Logger
}

func NewService(
	repo ports.AlertRepository,
	analytics ports.AnalyticsService,
	identity ports.IdentityProvider,
	mq queue.MessageQueue,
	notifier Notifier,
	thresholdPercent float64,
	log *zap.Logger,
) ports.AlertService {
	if thresholdPercent <= 0 {
		thresholdPercent = defaultSpikeThresholdPercent
	}
	return &Service{
		repo:      repo,
		analytics: analytics,
		identity:  identity,
		mq:        mq,
		notifier:  notifier,
		threshold: thresholdPercent,
		log:       log,
	}
}

func (s *Service) List(ctx context.Context, orgID string, unreadOnly bool) ([]domain.Alert, error) {
	return s.repo.FindByOrganization(ctx, orgID, unreadOnly)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) Dismiss(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DetectSpike compares the last two monthly buckets. No alert is raised when
// fewer than two months exist, when the delta is below the threshold, or when
// an identical spike alert is already open.
func (s *Service) DetectSpike(ctx context.Context, orgID string) (*domain.Alert, error) {
	summary, err := s.analytics.Summarize(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize emissions: %w", err)
	}
	if !summary.Delta.Defined || summary.Delta.Percent < s.threshold {
		return nil, nil
	}

	monthKey := ""
	if len(summary.Monthly) > 0 {
		monthKey = summary.Monthly[len(summary.Monthly)-1].MonthKey
	}
	title := fmt.Sprintf("Emissions spike in %s", monthKey)

	open, err := s.repo.FindByOrganization(ctx, orgID, true)
	if err != nil {
		return nil, err
	}
	for _, existing := range open {
		if existing.Type == domain.AlertTypeSpike && existing.Title == title {
			return nil, nil
		}
	}

	severity := domain.SeverityMedium
	if summary.Delta.Percent >= 2*s.threshold {
		severity = domain.SeverityHigh
	}

	alert := &domain.Alert{
		ID:             s.identity.NewID(),
		OrganizationID: orgID,
		Type:           domain.AlertTypeSpike,
		Severity:       severity,
		Title:          title,
		Message: fmt.Sprintf("Emissions rose %.1f%% month-over-month to %.2f tonnes CO2e.",
			summary.Delta.Percent, summary.ThisMonthTonnes),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to save alert: %w", err)
	}
	telemetry.AlertsRaisedTotal.WithLabelValues(string(alert.Type), string(alert.Severity)).Inc()

	s.publishRaised(alert)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, alert); err != nil {
			s.log.Warn("Failed to deliver alert notification", zap.Error(err))
		}
	}

	s.log.Info("Spike alert raised",
		zap.String("org_id", orgID),
		zap.String("severity", string(severity)),
		zap.Float64("delta_percent", summary.Delta.Percent),
	)
	return alert, nil
}

func (s *Service) publishRaised(alert *domain.Alert) {
	data, err := json.Marshal(alert)
	if err != nil {
		return
	}
	if err := s.mq.Publish(queue.SubjectAlertRaised, data); err != nil {
		s.log.Warn("Failed to publish alert event", zap.Error(err))
	}
}
