package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

type OrganizationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrganizationRepository(db *gorm.DB, log *zap.Logger) ports.OrganizationRepository {
	return &OrganizationRepository{
		db:  db,
		log: log,
	}
}

func (r *OrganizationRepository) Save(ctx context.Context, org *domain.Organization) error {
	result := r.db.WithContext(ctx).Save(org)
	if result.Error != nil {
		r.log.Error("Failed to save organization", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*domain.Organization, error) {
	var org domain.Organization
	result := r.db.WithContext(ctx).First(&org, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &org, nil
}

func (r *OrganizationRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.Organization, error) {
	var org domain.Organization
	result := r.db.WithContext(ctx).First(&org, "owner_id = ?", ownerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &org, nil
}

func (r *OrganizationRepository) FindAll(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *OrganizationRepository) AddMember(ctx context.Context, member *domain.OrganizationMember) error {
	result := r.db.WithContext(ctx).Create(member)
	if result.Error != nil {
		r.log.Error("Failed to add organization member", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *OrganizationRepository) FindMembers(ctx context.Context, orgID string) ([]domain.OrganizationMember, error) {
	var members []domain.OrganizationMember
	result := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return members, nil
}
