package ports

import (
	"context"
	"time"

	"github.com/carboniq/server/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // token, refresh, err
	Register(ctx context.Context, user *domain.User) error
	RefreshToken(ctx context.Context, token string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// RawRow is one parsed input row before source resolution.
type RawRow struct {
	Date       string
	SourceName string
	Unit       string
	Amount     string
	Notes      string
}

// IngestResult reports what a batch produced and what was skipped.
type IngestResult struct {
	Records []domain.EmissionRecord `json:"records"`
	Skipped []string                `json:"skipped,omitempty"` // human-readable row rejections
}

type IngestService interface {
	// IngestFile parses delimited text with a header row.
	IngestFile(ctx context.Context, orgID, userID string, content []byte) (*IngestResult, error)
	// IngestDataset parses a predefined headerless text block; source names
	// match case-insensitively.
	IngestDataset(ctx context.Context, orgID, userID, dataset string) (*IngestResult, error)
	// IngestManual creates a single record from a form entry.
	IngestManual(ctx context.Context, orgID, userID string, entry ManualEntry) (*domain.EmissionRecord, error)
}

type ManualEntry struct {
	SourceName   string    `json:"source_name" validate:"required"`
	Amount       float64   `json:"amount" validate:"gte=0"`
	RecordedDate time.Time `json:"recorded_date"`
	Notes        string    `json:"notes"`
}

type AnalyticsService interface {
	Summarize(ctx context.Context, orgID string) (*domain.EmissionSummary, error)
	SummarizeRange(ctx context.Context, orgID string, start, end time.Time) (*domain.EmissionSummary, error)
	Forecast(ctx context.Context, orgID string, horizonMonths int) (*domain.Forecast, error)
}

type ReportService interface {
	Generate(ctx context.Context, orgID, userID string, req domain.ReportRequest) (*domain.ReportFile, error)
	List(ctx context.Context, orgID string) ([]domain.Report, error)
}

// AlertSummary is the shape sent to the recommendation model.
type AlertSummary struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

type RecommendationService interface {
	// Recommend never fails: model errors yield a static fallback text.
	Recommend(ctx context.Context, alerts []AlertSummary) string
}

type AlertService interface {
	List(ctx context.Context, orgID string, unreadOnly bool) ([]domain.Alert, error)
	MarkRead(ctx context.Context, id string) error
	Dismiss(ctx context.Context, id string) error
	// DetectSpike compares the last two monthly buckets and raises an alert
	// when the month-over-month increase crosses the configured threshold.
	DetectSpike(ctx context.Context, orgID string) (*domain.Alert, error)
}

type GeoService interface {
	// RegionEmissions returns per-region metrics with invalid entries
	// (missing coordinates, non-finite values) filtered out.
	RegionEmissions(ctx context.Context) ([]domain.RegionEmission, error)
}

// Cache is the shared cache abstraction (Redis in production, in-memory
// fallback in development).
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

// IdentityProvider assigns record identifiers server-side. Ingestion never
// trusts client-generated IDs.
type IdentityProvider interface {
	NewID() string
}

// SnapshotSource produces a rasterized bitmap of the dashboard surface.
// Implementations must wait for a stable rendered state but give up after
// the context deadline; Capture returns encoded PNG bytes.
type SnapshotSource interface {
	Capture(ctx context.Context, scale float64) ([]byte, error)
}
