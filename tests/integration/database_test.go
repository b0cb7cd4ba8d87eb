package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carboniq/server/internal/adapter/storage/postgres"
	"github.com/carboniq/server/internal/domain"
)

// TestDatabase_SourceCatalog verifies the seeded catalog and that reseeding
// is idempotent.
func TestDatabase_SourceCatalog(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Gorm == nil {
		t.Skip("Database not available")
	}

	ctx := context.Background()
	repo := postgres.NewSourceRepository(env.Gorm, env.Logger)

	sources, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("Failed to list sources: %v", err)
	}
	if len(sources) != len(domain.DefaultSources()) {
		t.Fatalf("Expected %d seeded sources, got %d", len(domain.DefaultSources()), len(sources))
	}

	// Reseed and confirm no duplicates appear
	if err := repo.Seed(ctx, domain.DefaultSources()); err != nil {
		t.Fatalf("Failed to reseed: %v", err)
	}
	sources, err = repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("Failed to list sources after reseed: %v", err)
	}
	if len(sources) != len(domain.DefaultSources()) {
		t.Errorf("Reseed duplicated catalog rows: %d", len(sources))
	}

	t.Run("FindByName", func(t *testing.T) {
		src, err := repo.FindByName(ctx, "Electricity")
		if err != nil {
			t.Fatalf("Failed to find source: %v", err)
		}
		if src == nil || src.EmissionFactor != 0.85 {
			t.Errorf("Unexpected electricity source: %+v", src)
		}
	})

	t.Run("FindByNameMissing", func(t *testing.T) {
		src, err := repo.FindByName(ctx, "Hot Air Balloon")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if src != nil {
			t.Errorf("Expected nil for unknown source, got %+v", src)
		}
	})
}

// TestDatabase_EmissionRecords covers the batch write and the joined
// read model the aggregation engine consumes.
func TestDatabase_EmissionRecords(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Gorm == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	ctx := context.Background()
	repo := postgres.NewEmissionRepository(env.Gorm, env.Logger)

	orgID := uuid.New().String()
	otherOrg := uuid.New().String()
	electricity := "68fa162a-fe52-4b77-b7c0-e6ca3b4fcad8"
	diesel := "d8655941-5de1-4fd7-ad4c-8535f16293af"

	records := []domain.EmissionRecord{
		{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			SourceID:       diesel,
			UserID:         "user-1",
			Amount:         10,
			EmissionKgCo2:  26.8,
			RecordedDate:   time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			SourceID:       electricity,
			UserID:         "user-1",
			Amount:         100,
			EmissionKgCo2:  85,
			RecordedDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:             uuid.New().String(),
			OrganizationID: otherOrg,
			SourceID:       electricity,
			UserID:         "user-2",
			Amount:         50,
			EmissionKgCo2:  42.5,
			RecordedDate:   time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
		},
	}

	if err := repo.SaveBatch(ctx, records); err != nil {
		t.Fatalf("Failed to save batch: %v", err)
	}

	t.Run("FindJoinedScopesAndOrders", func(t *testing.T) {
		joined, err := repo.FindJoined(ctx, orgID)
		if err != nil {
			t.Fatalf("Failed to read joined records: %v", err)
		}
		if len(joined) != 2 {
			t.Fatalf("Expected 2 records for org, got %d", len(joined))
		}
		// Ascending by recorded date
		if !joined[0].RecordedDate.Before(joined[1].RecordedDate) {
			t.Error("Records not ordered by recorded date")
		}
		if joined[0].SourceName != "Electricity" || joined[0].Category != domain.CategoryEnergy {
			t.Errorf("Source fields not joined: %+v", joined[0])
		}
	})

	t.Run("FindJoinedInRange", func(t *testing.T) {
		start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
		joined, err := repo.FindJoinedInRange(ctx, orgID, start, end)
		if err != nil {
			t.Fatalf("Failed to read ranged records: %v", err)
		}
		if len(joined) != 1 || joined[0].SourceName != "Diesel" {
			t.Errorf("Expected only the February diesel record, got %+v", joined)
		}
	})

	t.Run("CountByOrganization", func(t *testing.T) {
		count, err := repo.CountByOrganization(ctx, orgID)
		if err != nil {
			t.Fatalf("Failed to count: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected 2, got %d", count)
		}
	})
}

// TestDatabase_Alerts covers the unread filter and read transitions.
func TestDatabase_Alerts(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Gorm == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	ctx := context.Background()
	repo := postgres.NewAlertRepository(env.Gorm, env.Logger)

	orgID := uuid.New().String()
	alert := &domain.Alert{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Type:           domain.AlertTypeSpike,
		Severity:       domain.SeverityMedium,
		Title:          "Emissions spike in 2024-02",
		Message:        "Monthly emissions rose 25% over January",
	}
	if err := repo.Save(ctx, alert); err != nil {
		t.Fatalf("Failed to save alert: %v", err)
	}

	unread, err := repo.FindByOrganization(ctx, orgID, true)
	if err != nil {
		t.Fatalf("Failed to list unread alerts: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("Expected 1 unread alert, got %d", len(unread))
	}

	if err := repo.MarkRead(ctx, alert.ID); err != nil {
		t.Fatalf("Failed to mark alert read: %v", err)
	}

	unread, err = repo.FindByOrganization(ctx, orgID, true)
	if err != nil {
		t.Fatalf("Failed to list unread alerts: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("Expected no unread alerts after mark read, got %d", len(unread))
	}

	all, err := repo.FindByOrganization(ctx, orgID, false)
	if err != nil {
		t.Fatalf("Failed to list all alerts: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Read alert should still be listed, got %d", len(all))
	}
}

// TestDatabase_Users covers the email lookup used by login.
func TestDatabase_Users(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Gorm == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	ctx := context.Background()
	repo := postgres.NewUserRepository(env.Gorm, env.Logger)

	user := &domain.User{
		ID:       uuid.New().String(),
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "hashed",
		Role:     domain.UserRoleUser,
	}
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("Failed to find user: %v", err)
	}
	if found == nil || found.ID != user.ID {
		t.Errorf("Unexpected user: %+v", found)
	}

	missing, err := repo.FindByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown email, got %+v", missing)
	}
}
