package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

const joinedSelect = `emission_records.id, emission_records.emission_kg_co2, ` +
	`emission_records.recorded_date, emission_sources.name AS source_name, ` +
	`emission_sources.category AS category`

type EmissionRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewEmissionRepository(db *gorm.DB, log *zap.Logger) ports.EmissionRepository {
	return &EmissionRepository{
		db:  db,
		log: log,
	}
}

// SaveBatch persists all records in a single transaction so a failed row
// never leaves a partial batch behind.
func (r *EmissionRepository) SaveBatch(ctx context.Context, records []domain.EmissionRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&records, 500).Error
	})
	if err != nil {
		r.log.Error("Failed to save emission batch",
			zap.Int("count", len(records)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *EmissionRepository) FindByID(ctx context.Context, id string) (*domain.EmissionRecord, error) {
	var record domain.EmissionRecord
	result := r.db.WithContext(ctx).Preload("Source").First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record, nil
}

func (r *EmissionRepository) FindJoined(ctx context.Context, orgID string) ([]domain.JoinedRecord, error) {
	var rows []domain.JoinedRecord
	result := r.db.WithContext(ctx).
		Table("emission_records").
		Select(joinedSelect).
		Joins("JOIN emission_sources ON emission_sources.id = emission_records.source_id").
		Where("emission_records.organization_id = ?", orgID).
		Order("emission_records.recorded_date ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (r *EmissionRepository) FindJoinedInRange(ctx context.Context, orgID string, start, end time.Time) ([]domain.JoinedRecord, error) {
	var rows []domain.JoinedRecord
	result := r.db.WithContext(ctx).
		Table("emission_records").
		Select(joinedSelect).
		Joins("JOIN emission_sources ON emission_sources.id = emission_records.source_id").
		Where("emission_records.organization_id = ?", orgID).
		Where("emission_records.recorded_date BETWEEN ? AND ?", start, end).
		Order("emission_records.recorded_date ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (r *EmissionRepository) CountByOrganization(ctx context.Context, orgID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&domain.EmissionRecord{}).
		Where("organization_id = ?", orgID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
