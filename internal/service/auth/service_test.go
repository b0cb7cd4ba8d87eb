package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type userStore struct {
	mocks.MockUserRepository
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newUserStore() *userStore {
	s := &userStore{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
	s.SaveFunc = func(ctx context.Context, user *domain.User) error {
		copied := *user
		s.byEmail[user.Email] = &copied
		s.byID[user.ID] = &copied
		return nil
	}
	s.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		return s.byEmail[email], nil
	}
	s.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		return s.byID[id], nil
	}
	return s
}

func TestRegister_CreatesUserAndOrganization(t *testing.T) {
	// Arrange
	ctx := context.Background()
	users := newUserStore()
	var savedOrg *domain.Organization
	var savedMember *domain.OrganizationMember
	orgs := &mocks.MockOrganizationRepository{
		SaveFunc: func(ctx context.Context, org *domain.Organization) error {
			savedOrg = org
			return nil
		},
		AddMemberFunc: func(ctx context.Context, member *domain.OrganizationMember) error {
			savedMember = member
			return nil
		},
	}

	service := NewService(users, orgs, &mocks.MockIdentityProvider{}, "test-secret", newTestLogger())

	user := &domain.User{
		Email:    "Jordan@Example.com",
		Name:     "Jordan",
		Password: "hunter22",
	}

	// Act
	err := service.Register(ctx, user)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Email != "jordan@example.com" {
		t.Errorf("expected lowercased email, got %s", user.Email)
	}
	if user.Password == "hunter22" {
		t.Error("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter22")); err != nil {
		t.Error("stored hash does not match original password")
	}
	if savedOrg == nil {
		t.Fatal("expected organization to be created")
	}
	if savedOrg.OwnerID != user.ID {
		t.Error("expected user to own the new organization")
	}
	if user.OrganizationID != savedOrg.ID {
		t.Error("expected user to be linked to the new organization")
	}
	if savedMember == nil || savedMember.Role != domain.MemberRoleOwner {
		t.Errorf("expected owner membership, got %+v", savedMember)
	}
	if !strings.Contains(savedOrg.Name, "Jordan") {
		t.Errorf("unexpected organization name %q", savedOrg.Name)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := newUserStore()
	orgs := &mocks.MockOrganizationRepository{}
	service := NewService(users, orgs, &mocks.MockIdentityProvider{}, "test-secret", newTestLogger())

	first := &domain.User{Email: "dup@example.com", Password: "pw-one-1"}
	if err := service.Register(ctx, first); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	second := &domain.User{Email: "dup@example.com", Password: "pw-two-2"}
	err := service.Register(ctx, second)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_And_ValidateToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	users := newUserStore()
	orgs := &mocks.MockOrganizationRepository{}
	service := NewService(users, orgs, &mocks.MockIdentityProvider{}, "test-secret", newTestLogger())

	user := &domain.User{Email: "pat@example.com", Name: "Pat", Password: "s3cret-pw"}
	if err := service.Register(ctx, user); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	// Act
	access, refresh, err := service.Login(ctx, "pat@example.com", "s3cret-pw")

	// Assert
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected both tokens")
	}

	validated, err := service.ValidateToken(ctx, access)
	if err != nil {
		t.Fatalf("expected access token to validate, got %v", err)
	}
	if validated.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, validated.ID)
	}

	// A refresh token must not pass as an access token.
	if _, err := service.ValidateToken(ctx, refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected refresh token rejection, got %v", err)
	}

	newAccess, err := service.RefreshToken(ctx, refresh)
	if err != nil {
		t.Fatalf("expected refresh to succeed, got %v", err)
	}
	if _, err := service.ValidateToken(ctx, newAccess); err != nil {
		t.Errorf("expected refreshed access token to validate, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	users := newUserStore()
	service := NewService(users, &mocks.MockOrganizationRepository{}, &mocks.MockIdentityProvider{}, "test-secret", newTestLogger())

	user := &domain.User{Email: "sam@example.com", Password: "right-pw"}
	if err := service.Register(ctx, user); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, _, err := service.Login(ctx, "sam@example.com", "wrong-pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	ctx := context.Background()
	service := NewService(newUserStore(), &mocks.MockOrganizationRepository{}, &mocks.MockIdentityProvider{}, "test-secret", newTestLogger())

	_, _, err := service.Login(ctx, "ghost@example.com", "whatever1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
