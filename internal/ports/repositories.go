package ports

import (
	"context"
	"time"

	"github.com/carboniq/server/internal/domain"
)

type SourceRepository interface {
	Seed(ctx context.Context, sources []domain.EmissionSource) error
	FindAll(ctx context.Context) ([]domain.EmissionSource, error)
	FindByName(ctx context.Context, name string) (*domain.EmissionSource, error)
}

type EmissionRepository interface {
	// SaveBatch writes all records inside one transaction: all-or-nothing.
	SaveBatch(ctx context.Context, records []domain.EmissionRecord) error
	FindByID(ctx context.Context, id string) (*domain.EmissionRecord, error)
	// FindJoined returns org records flattened with source name/category,
	// ordered by recorded date ascending.
	FindJoined(ctx context.Context, orgID string) ([]domain.JoinedRecord, error)
	FindJoinedInRange(ctx context.Context, orgID string, start, end time.Time) ([]domain.JoinedRecord, error)
	CountByOrganization(ctx context.Context, orgID string) (int64, error)
}

type OrganizationRepository interface {
	Save(ctx context.Context, org *domain.Organization) error
	FindByID(ctx context.Context, id string) (*domain.Organization, error)
	FindByOwner(ctx context.Context, ownerID string) (*domain.Organization, error)
	FindAll(ctx context.Context) ([]domain.Organization, error)
	AddMember(ctx context.Context, member *domain.OrganizationMember) error
	FindMembers(ctx context.Context, orgID string) ([]domain.OrganizationMember, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AlertRepository interface {
	Save(ctx context.Context, alert *domain.Alert) error
	FindByOrganization(ctx context.Context, orgID string, unreadOnly bool) ([]domain.Alert, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ReportRepository interface {
	Save(ctx context.Context, report *domain.Report) error
	FindByOrganization(ctx context.Context, orgID string) ([]domain.Report, error)
}
