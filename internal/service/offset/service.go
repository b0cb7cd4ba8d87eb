package offset

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

// Service wraps the pure calculator with the donation checkout path.
type Service struct {
	payments ports.PaymentGateway
	currency string
	log      *zap.Logger
}

func NewService(payments ports.PaymentGateway, currency string, log *zap.Logger) *Service {
	if currency == "" {
		currency = "inr"
	}
	return &Service{
		payments: payments,
		currency: currency,
		log:      log,
	}
}

func (s *Service) Estimate(t domain.Tonnes) (domain.OffsetEstimate, error) {
	return Estimate(t)
}

// CreateDonation opens a payment intent sized by the donation figure for the
// given quantity and returns the intent ID for client-side confirmation.
func (s *Service) CreateDonation(ctx context.Context, userID string, t domain.Tonnes) (string, domain.OffsetEstimate, error) {
	est, err := Estimate(t)
	if err != nil {
		return "", domain.OffsetEstimate{}, err
	}
	if est.DonationAmount <= 0 {
		return "", domain.OffsetEstimate{}, fmt.Errorf("offset: nothing to donate for %.2f tCO2e", float64(t))
	}

	intentID, err := s.payments.CreatePaymentIntent(ctx, est.DonationAmount, s.currency, userID)
	if err != nil {
		return "", domain.OffsetEstimate{}, fmt.Errorf("offset: create donation intent: %w", err)
	}

	s.log.Info("Donation intent created",
		zap.String("intent_id", intentID),
		zap.Float64("amount", est.DonationAmount),
		zap.Float64("tonnes_co2", float64(t)),
	)
	return intentID, est, nil
}
