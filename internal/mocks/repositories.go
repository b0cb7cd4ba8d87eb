package mocks

import (
	"context"
	"time"

	"github.com/carboniq/server/internal/domain"
)

// MockSourceRepository is a mock implementation of SourceRepository
type MockSourceRepository struct {
	SeedFunc       func(ctx context.Context, sources []domain.EmissionSource) error
	FindAllFunc    func(ctx context.Context) ([]domain.EmissionSource, error)
	FindByNameFunc func(ctx context.Context, name string) (*domain.EmissionSource, error)
}

func (m *MockSourceRepository) Seed(ctx context.Context, sources []domain.EmissionSource) error {
	if m.SeedFunc != nil {
		return m.SeedFunc(ctx, sources)
	}
	return nil
}

func (m *MockSourceRepository) FindAll(ctx context.Context) ([]domain.EmissionSource, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.EmissionSource{}, nil
}

func (m *MockSourceRepository) FindByName(ctx context.Context, name string) (*domain.EmissionSource, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, nil
}

// MockEmissionRepository is a mock implementation of EmissionRepository
type MockEmissionRepository struct {
	SaveBatchFunc           func(ctx context.Context, records []domain.EmissionRecord) error
	FindByIDFunc            func(ctx context.Context, id string) (*domain.EmissionRecord, error)
	FindJoinedFunc          func(ctx context.Context, orgID string) ([]domain.JoinedRecord, error)
	FindJoinedInRangeFunc   func(ctx context.Context, orgID string, start, end time.Time) ([]domain.JoinedRecord, error)
	CountByOrganizationFunc func(ctx context.Context, orgID string) (int64, error)
}

func (m *MockEmissionRepository) SaveBatch(ctx context.Context, records []domain.EmissionRecord) error {
	if m.SaveBatchFunc != nil {
		return m.SaveBatchFunc(ctx, records)
	}
	return nil
}

func (m *MockEmissionRepository) FindByID(ctx context.Context, id string) (*domain.EmissionRecord, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockEmissionRepository) FindJoined(ctx context.Context, orgID string) ([]domain.JoinedRecord, error) {
	if m.FindJoinedFunc != nil {
		return m.FindJoinedFunc(ctx, orgID)
	}
	return []domain.JoinedRecord{}, nil
}

func (m *MockEmissionRepository) FindJoinedInRange(ctx context.Context, orgID string, start, end time.Time) ([]domain.JoinedRecord, error) {
	if m.FindJoinedInRangeFunc != nil {
		return m.FindJoinedInRangeFunc(ctx, orgID, start, end)
	}
	return []domain.JoinedRecord{}, nil
}

func (m *MockEmissionRepository) CountByOrganization(ctx context.Context, orgID string) (int64, error) {
	if m.CountByOrganizationFunc != nil {
		return m.CountByOrganizationFunc(ctx, orgID)
	}
	return 0, nil
}

// MockOrganizationRepository is a mock implementation of OrganizationRepository
type MockOrganizationRepository struct {
	SaveFunc        func(ctx context.Context, org *domain.Organization) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.Organization, error)
	FindByOwnerFunc func(ctx context.Context, ownerID string) (*domain.Organization, error)
	FindAllFunc     func(ctx context.Context) ([]domain.Organization, error)
	AddMemberFunc   func(ctx context.Context, member *domain.OrganizationMember) error
	FindMembersFunc func(ctx context.Context, orgID string) ([]domain.OrganizationMember, error)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *domain.Organization) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, org)
	}
	return nil
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id string) (*domain.Organization, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrganizationRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.Organization, error) {
	if m.FindByOwnerFunc != nil {
		return m.FindByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context) ([]domain.Organization, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockOrganizationRepository) AddMember(ctx context.Context, member *domain.OrganizationMember) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, member)
	}
	return nil
}

func (m *MockOrganizationRepository) FindMembers(ctx context.Context, orgID string) ([]domain.OrganizationMember, error) {
	if m.FindMembersFunc != nil {
		return m.FindMembersFunc(ctx, orgID)
	}
	return []domain.OrganizationMember{}, nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

// MockAlertRepository is a mock implementation of AlertRepository
type MockAlertRepository struct {
	SaveFunc               func(ctx context.Context, alert *domain.Alert) error
	FindByOrganizationFunc func(ctx context.Context, orgID string, unreadOnly bool) ([]domain.Alert, error)
	MarkReadFunc           func(ctx context.Context, id string) error
	DeleteFunc             func(ctx context.Context, id string) error
}

func (m *MockAlertRepository) Save(ctx context.Context, alert *domain.Alert) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, alert)
	}
	return nil
}

func (m *MockAlertRepository) FindByOrganization(ctx context.Context, orgID string, unreadOnly bool) ([]domain.Alert, error) {
	if m.FindByOrganizationFunc != nil {
		return m.FindByOrganizationFunc(ctx, orgID, unreadOnly)
	}
	return []domain.Alert{}, nil
}

func (m *MockAlertRepository) MarkRead(ctx context.Context, id string) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id)
	}
	return nil
}

func (m *MockAlertRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	SaveFunc               func(ctx context.Context, report *domain.Report) error
	FindByOrganizationFunc func(ctx context.Context, orgID string) ([]domain.Report, error)
}

func (m *MockReportRepository) Save(ctx context.Context, report *domain.Report) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, report)
	}
	return nil
}

func (m *MockReportRepository) FindByOrganization(ctx context.Context, orgID string) ([]domain.Report, error) {
	if m.FindByOrganizationFunc != nil {
		return m.FindByOrganizationFunc(ctx, orgID)
	}
	return []domain.Report{}, nil
}
