package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

type AlertRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAlertRepository(db *gorm.DB, log *zap.Logger) ports.AlertRepository {
	return &AlertRepository{
		db:  db,
		log: log,
	}
}

func (r *AlertRepository) Save(ctx context.Context, alert *domain.Alert) error {
	result := r.db.WithContext(ctx).Save(alert)
	if result.Error != nil {
		r.log.Error("Failed to save alert", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *AlertRepository) FindByOrganization(ctx context.Context, orgID string, unreadOnly bool) ([]domain.Alert, error) {
	var alerts []domain.Alert
	query := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Order("created_at DESC").Find(&alerts)
	if result.Error != nil {
		return nil, result.Error
	}
	return alerts, nil
}

func (r *AlertRepository) MarkRead(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("id = ?", id).
		Update("read", true)
	return result.Error
}

func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Alert{}, "id = ?", id)
	return result.Error
}
