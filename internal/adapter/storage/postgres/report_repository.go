package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

type ReportRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReportRepository(db *gorm.DB, log *zap.Logger) ports.ReportRepository {
	return &ReportRepository{
		db:  db,
		log: log,
	}
}

func (r *ReportRepository) Save(ctx context.Context, report *domain.Report) error {
	result := r.db.WithContext(ctx).Save(report)
	if result.Error != nil {
		r.log.Error("Failed to save report", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *ReportRepository) FindByOrganization(ctx context.Context, orgID string) ([]domain.Report, error) {
	var reports []domain.Report
	result := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&reports)
	if result.Error != nil {
		return nil, result.Error
	}
	return reports, nil
}
