package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

// MockAnalyticsService is a mock implementation of AnalyticsService
type MockAnalyticsService struct {
	SummarizeFunc      func(ctx context.Context, orgID string) (*domain.EmissionSummary, error)
	SummarizeRangeFunc func(ctx context.Context, orgID string, start, end time.Time) (*domain.EmissionSummary, error)
	ForecastFunc       func(ctx context.Context, orgID string, horizonMonths int) (*domain.Forecast, error)
}

func (m *MockAnalyticsService) Summarize(ctx context.Context, orgID string) (*domain.EmissionSummary, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, orgID)
	}
	return &domain.EmissionSummary{}, nil
}

func (m *MockAnalyticsService) SummarizeRange(ctx context.Context, orgID string, start, end time.Time) (*domain.EmissionSummary, error) {
	if m.SummarizeRangeFunc != nil {
		return m.SummarizeRangeFunc(ctx, orgID, start, end)
	}
	return &domain.EmissionSummary{}, nil
}

func (m *MockAnalyticsService) Forecast(ctx context.Context, orgID string, horizonMonths int) (*domain.Forecast, error) {
	if m.ForecastFunc != nil {
		return m.ForecastFunc(ctx, orgID, horizonMonths)
	}
	return &domain.Forecast{}, nil
}

// MockRecommendationService is a mock implementation of RecommendationService
type MockRecommendationService struct {
	RecommendFunc func(ctx context.Context, alerts []ports.AlertSummary) string
}

func (m *MockRecommendationService) Recommend(ctx context.Context, alerts []ports.AlertSummary) string {
	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, alerts)
	}
	return ""
}

// MockIdentityProvider is a mock implementation of IdentityProvider.
// Without NewIDFunc it hands out a deterministic sequence.
type MockIdentityProvider struct {
	NewIDFunc func() string
	counter   int
}

func (m *MockIdentityProvider) NewID() string {
	if m.NewIDFunc != nil {
		return m.NewIDFunc()
	}
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockSnapshotSource is a mock implementation of SnapshotSource
type MockSnapshotSource struct {
	CaptureFunc func(ctx context.Context, scale float64) ([]byte, error)
	Calls       int
}

func (m *MockSnapshotSource) Capture(ctx context.Context, scale float64) ([]byte, error) {
	m.Calls++
	if m.CaptureFunc != nil {
		return m.CaptureFunc(ctx, scale)
	}
	return []byte{}, nil
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	CreatePaymentIntentFunc func(ctx context.Context, amount float64, currency string, customerID string) (string, error)
	ConfirmPaymentFunc      func(ctx context.Context, paymentID string) error
}

func (m *MockPaymentGateway) CreatePaymentIntent(ctx context.Context, amount float64, currency string, customerID string) (string, error) {
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, amount, currency, customerID)
	}
	return "pi_mock", nil
}

func (m *MockPaymentGateway) ConfirmPayment(ctx context.Context, paymentID string) error {
	if m.ConfirmPaymentFunc != nil {
		return m.ConfirmPaymentFunc(ctx, paymentID)
	}
	return nil
}
