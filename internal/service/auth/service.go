package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/ports"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service struct {
	users     ports.UserRepository
	orgs      ports.OrganizationRepository
	identity  ports.IdentityProvider
	jwtSecret []byte
	log       *zap.Logger
}

func NewService(users ports.UserRepository, orgs ports.OrganizationRepository, identity ports.IdentityProvider, jwtSecret string, log *zap.Logger) ports.AuthService {
	return &Service{
		users:     users,
		orgs:      orgs,
		identity:  identity,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	access, err := s.signToken(user, "access", accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.signToken(user, "refresh", refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Register creates the user together with a personal organization that owns
// all of their emission data.
func (s *Service) Register(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	existing, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.ID = s.identity.NewID()
	user.Password = string(hashed)
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Status = "Active"
	if user.Role == "" {
		user.Role = domain.UserRoleUser
	}

	org := &domain.Organization{
		ID:        s.identity.NewID(),
		Name:      orgNameFor(user),
		OwnerID:   user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orgs.Save(ctx, org); err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	user.OrganizationID = org.ID

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	member := &domain.OrganizationMember{
		ID:             s.identity.NewID(),
		OrganizationID: org.ID,
		UserID:         user.ID,
		Role:           domain.MemberRoleOwner,
		CreatedAt:      now,
	}
	if err := s.orgs.AddMember(ctx, member); err != nil {
		s.log.Warn("Failed to record owner membership",
			zap.String("org_id", org.ID),
			zap.Error(err),
		)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("org_id", org.ID),
	)
	return nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, "refresh")
	if err != nil {
		return "", err
	}

	userID, _ := claims["sub"].(string)
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidToken
	}

	return s.signToken(user, "access", accessTokenTTL)
}

func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.parseToken(tokenStr, "access")
	if err != nil {
		return nil, err
	}

	userID, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *Service) signToken(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"org":  user.OrganizationID,
		"role": user.Role,
		"type": tokenType,
		"exp":  time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

func (s *Service) parseToken(tokenStr, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func orgNameFor(user *domain.User) string {
	name := strings.TrimSpace(user.Name)
	if name == "" {
		name = user.Email
	}
	return name + "'s workspace"
}
