package alert

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/queue"
	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type recordingNotifier struct {
	notified []*domain.Alert
	err      error
}

func (n *recordingNotifier) Notify(ctx context.Context, alert *domain.Alert) error {
	n.notified = append(n.notified, alert)
	return n.err
}

func summaryWithDelta(percent float64, defined bool) *domain.EmissionSummary {
	return &domain.EmissionSummary{
		ThisMonthTonnes: 12.1,
		Monthly: []domain.MonthlyBucket{
			{MonthKey: "2024-01", TotalTonnes: 10},
			{MonthKey: "2024-02", TotalTonnes: 12.1},
		},
		Delta: domain.MonthDelta{Percent: percent, Defined: defined},
	}
}

func TestDetectSpike_AboveThreshold_RaisesAlert(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockAnalytics := &mocks.MockAnalyticsService{
		SummarizeFunc: func(ctx context.Context, orgID string) (*domain.EmissionSummary, error) {
			return summaryWithDelta(25, true), nil
		},
	}
	var saved *domain.Alert
	mockRepo := &mocks.MockAlertRepository{
		SaveFunc: func(ctx context.Context, alert *domain.Alert) error {
			saved = alert
			return nil
		},
	}
	mockQueue := mocks.NewMockMessageQueue()
	notifier := &recordingNotifier{}

	service := NewService(mockRepo, mockAnalytics, &mocks.MockIdentityProvider{}, mockQueue, notifier, 20, newTestLogger())

	// Act
	alert, err := service.DetectSpike(ctx, "org-1")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if alert == nil {
		t.Fatal("expected an alert")
	}
	if alert.Type != domain.AlertTypeSpike {
		t.Errorf("expected spike type, got %s", alert.Type)
	}
	if alert.Severity != domain.SeverityMedium {
		t.Errorf("expected medium severity at 25%%, got %s", alert.Severity)
	}
	if alert.Title != "Emissions spike in 2024-02" {
		t.Errorf("unexpected title %q", alert.Title)
	}
	if saved == nil {
		t.Error("expected alert to be persisted")
	}
	if len(mockQueue.GetPublishedMessages(queue.SubjectAlertRaised)) != 1 {
		t.Error("expected alert event on the queue")
	}
	if len(notifier.notified) != 1 {
		t.Error("expected notification delivery")
	}
}

func TestDetectSpike_DoubleThreshold_HighSeverity(t *testing.T) {
	mockAnalytics := &mocks.MockAnalyticsService{
		SummarizeFunc: func(ctx context.Context, orgID string) (*domain.EmissionSummary, error) {
			return summaryWithDelta(45, true), nil
		},
	}
	service := NewService(&mocks.MockAlertRepository{}, mockAnalytics, &mocks.MockIdentityProvider{}, mocks.NewMockMessageQueue(), nil, 20, newTestLogger())

	alert, err := service.DetectSpike(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if alert == nil || alert.Severity != domain.SeverityHigh {
		t.Fatalf("expected high severity alert, got %+v", alert)
	}
}

func TestDetectSpike_BelowThreshold_NoAlert(t *testing.T) {
	mockAnalytics := &mocks.MockAnalyticsService{
		SummarizeFunc: func(ctx context.Context, orgID string) (*domain.EmissionSummary, error) {
			return summaryWithDelta(10, true), nil
		},
	}
	mockRepo := &mocks.MockAlertRepository{
		SaveFunc: func(ctx context.Context, alert *domain.Alert) error {
			t.Error("no alert should be saved below threshold")
			return nil
		},
	}
	service := NewService(mockRepo, mockAnalytics, &mocks.MockIdentityProvider{}, mocks.NewMockMessageQueue(), nil, 20, newTestLogger())

	alert, err := service.DetectSpike(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if alert != nil {
		t.Errorf("expected no alert, got %+v", alert)
	}
}

func TestDetectSpike_UndefinedDelta_NoAlert(t *testing.T) {
	mockAnalytics := &mocks.MockAnalyticsService{
		SummarizeFunc: func(ctx context.Context, orgID string) (*domain.EmissionSummary, error) {
			return summaryWithDelta(0, false), nil
		},
	}
	service := NewService(&mocks.MockAlertRepository{}, mockAnalytics, &mocks.MockIdentityProvider{}, mocks.NewMockMessageQueue(), nil, 20, newTestLogger())

	alert, err := service.DetectSpike(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if alert != nil {
		t.Errorf("expected no alert for a single month of data, got %+v", alert)
	}
}

func TestDetectSpike_DuplicateOpenAlert_Skipped(t *testing.T) {
	mockAnalytics := &mocks.MockAnalyticsService{
		SummarizeFunc: func(ctx context.Context, orgID string) (*domain.EmissionSummary, error) {
			return summaryWithDelta(30, true), nil
		},
	}
	mockRepo := &mocks.MockAlertRepository{
		FindByOrganizationFunc: func(ctx context.Context, orgID string, unreadOnly bool) ([]domain.Alert, error) {
			return []domain.Alert{
				{Type: domain.AlertTypeSpike, Title: "Emissions spike in 2024-02"},
			}, nil
		},
		SaveFunc: func(ctx context.Context, alert *domain.Alert) error {
			t.Error("duplicate alert should not be saved")
			return nil
		},
	}
	service := NewService(mockRepo, mockAnalytics, &mocks.MockIdentityProvider{}, mocks.NewMockMessageQueue(), nil, 20, newTestLogger())

	alert, err := service.DetectSpike(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if alert != nil {
		t.Errorf("expected duplicate to be skipped, got %+v", alert)
	}
}
