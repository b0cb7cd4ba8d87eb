package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

type SourceRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSourceRepository(db *gorm.DB, log *zap.Logger) ports.SourceRepository {
	return &SourceRepository{
		db:  db,
		log: log,
	}
}

func (r *SourceRepository) Seed(ctx context.Context, sources []domain.EmissionSource) error {
	if len(sources) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "unit", "emission_factor"}),
	}).Create(&sources)
	if result.Error != nil {
		r.log.Error("Failed to seed emission sources", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *SourceRepository) FindAll(ctx context.Context) ([]domain.EmissionSource, error) {
	var sources []domain.EmissionSource
	result := r.db.WithContext(ctx).Order("name ASC").Find(&sources)
	if result.Error != nil {
		return nil, result.Error
	}
	return sources, nil
}

func (r *SourceRepository) FindByName(ctx context.Context, name string) (*domain.EmissionSource, error) {
	var source domain.EmissionSource
	result := r.db.WithContext(ctx).First(&source, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &source, nil
}
