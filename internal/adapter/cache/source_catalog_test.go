package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/carboniq/server/internal/domain"
	"github.com/carboniq/server/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestCachedSourceRepository_ReadThrough(t *testing.T) {
	// Arrange
	calls := 0
	inner := &mocks.MockSourceRepository{
		FindAllFunc: func(ctx context.Context) ([]domain.EmissionSource, error) {
			calls++
			return domain.DefaultSources(), nil
		},
	}
	repo := NewCachedSourceRepository(inner, mocks.NewMockCache(), time.Minute, newTestLogger())

	// Act
	first, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	if calls != 1 {
		t.Errorf("expected one repository read, got %d", calls)
	}
	if len(first) != len(second) || len(first) != len(domain.DefaultSources()) {
		t.Errorf("catalog changed across reads: %d vs %d", len(first), len(second))
	}
}

func TestCachedSourceRepository_FindByName(t *testing.T) {
	// Arrange
	inner := &mocks.MockSourceRepository{
		FindAllFunc: func(ctx context.Context) ([]domain.EmissionSource, error) {
			return domain.DefaultSources(), nil
		},
	}
	repo := NewCachedSourceRepository(inner, mocks.NewMockCache(), time.Minute, newTestLogger())

	// Act
	src, err := repo.FindByName(context.Background(), "Electricity")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if src == nil || src.EmissionFactor != 0.85 {
		t.Errorf("unexpected source: %+v", src)
	}

	missing, err := repo.FindByName(context.Background(), "Hot Air Balloon")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown name, got %+v", missing)
	}
}

func TestCachedSourceRepository_SeedInvalidates(t *testing.T) {
	// Arrange
	inner := &mocks.MockSourceRepository{
		FindAllFunc: func(ctx context.Context) ([]domain.EmissionSource, error) {
			return domain.DefaultSources(), nil
		},
	}
	c := mocks.NewMockCache()
	repo := NewCachedSourceRepository(inner, c, time.Minute, newTestLogger())

	if _, err := repo.FindAll(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	if err := repo.Seed(context.Background(), domain.DefaultSources()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	if _, err := c.Get(context.Background(), "sources:catalog"); err == nil {
		t.Error("expected catalog cache entry to be invalidated after seed")
	}
}
