package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/carboniq/server/internal/adapter/storage/postgres"
)

// TestEnv holds shared test environment resources.
type TestEnv struct {
	Gorm              *gorm.DB
	DB                *sql.DB
	Redis             *redis.Client
	PostgresContainer testcontainers.Container
	RedisContainer    testcontainers.Container
	Logger            *zap.Logger
	ctx               context.Context
}

var testEnv *TestEnv

// SetupTestEnvironment starts (or reuses) backing services. CI provides
// DATABASE_URL; local runs spin up throwaway containers.
func SetupTestEnvironment(t *testing.T) *TestEnv {
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	if os.Getenv("DATABASE_URL") != "" {
		return setupExternalServices(t, ctx)
	}
	return setupContainers(t, ctx)
}

func setupExternalServices(t *testing.T, ctx context.Context) *TestEnv {
	logger, _ := zap.NewDevelopment()

	env := &TestEnv{Logger: logger, ctx: ctx}
	connectDatabase(t, env, os.Getenv("DATABASE_URL"))

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}
	env.Redis = redis.NewClient(opt)
	if err := env.Redis.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	testEnv = env
	return testEnv
}

func setupContainers(t *testing.T, ctx context.Context) *TestEnv {
	logger, _ := zap.NewDevelopment()
	env := &TestEnv{Logger: logger, ctx: ctx}

	postgresContainer, err := pgmodule.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		pgmodule.WithDatabase("carboniq_test"),
		pgmodule.WithUsername("carboniq"),
		pgmodule.WithPassword("carboniq_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	env.PostgresContainer = postgresContainer

	pgHost, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get postgres host: %v", err)
	}
	pgPort, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get postgres port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://carboniq:carboniq_test@%s:%s/carboniq_test?sslmode=disable", pgHost, pgPort.Port())
	connectDatabase(t, env, dsn)

	redisContainer, err := redismodule.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	env.RedisContainer = redisContainer

	redisHost, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get redis host: %v", err)
	}
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get redis port: %v", err)
	}

	env.Redis = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
	})
	if err := env.Redis.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}

	testEnv = env
	return testEnv
}

// connectDatabase opens the gorm pool, waits for readiness and applies
// migrations plus the source catalog seed.
func connectDatabase(t *testing.T, env *TestEnv, dsn string) {
	gormDB, err := postgres.NewConnection(dsn, env.Logger)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}

	for i := 0; i < 30; i++ {
		if err := sqlDB.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}

	if err := postgres.RunMigrations(gormDB, env.Logger); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	env.Gorm = gormDB
	env.DB = sqlDB
}

// TeardownTestEnvironment cleans up the test environment.
func TeardownTestEnvironment(t *testing.T) {
	if testEnv == nil {
		return
	}

	ctx := context.Background()

	if testEnv.DB != nil {
		testEnv.DB.Close()
	}
	if testEnv.Redis != nil {
		testEnv.Redis.Close()
	}
	if testEnv.PostgresContainer != nil {
		if err := testEnv.PostgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	}
	if testEnv.RedisContainer != nil {
		if err := testEnv.RedisContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	}

	testEnv = nil
}

// CleanDatabase truncates mutable tables. The seeded source catalog stays.
func CleanDatabase(t *testing.T, db *sql.DB) {
	tables := []string{
		"emission_records",
		"alerts",
		"reports",
		"organization_members",
		"organizations",
		"users",
	}

	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Logf("Failed to truncate %s: %v", table, err)
		}
	}
}

// FlushRedis clears all Redis keys.
func FlushRedis(t *testing.T, client *redis.Client) {
	ctx := context.Background()
	if err := client.FlushAll(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
}
