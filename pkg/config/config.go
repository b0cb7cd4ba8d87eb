package config

import "time"

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	HTTP          HTTPConfig          `mapstructure:"http"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Queue         QueueConfig         `mapstructure:"queue"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Gemini        GeminiConfig        `mapstructure:"gemini"`
	Geo           GeoConfig           `mapstructure:"geo"`
	Ingest        IngestConfig        `mapstructure:"ingest"`
	Report        ReportConfig        `mapstructure:"report"`
	Alerts        AlertsConfig        `mapstructure:"alerts"`
	Payment       PaymentConfig       `mapstructure:"payment"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	Vault         VaultConfig         `mapstructure:"vault"`
	OpenTelemetry OpenTelemetryConfig `mapstructure:"opentelemetry"`
	Prometheus    PrometheusConfig    `mapstructure:"prometheus"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	RateLimiting  RateLimitingConfig  `mapstructure:"rate_limiting"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Cache         CacheConfig         `mapstructure:"cache"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	BodyLimitMB    int           `mapstructure:"body_limit_mb"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// QueueConfig selects the broker. Driver is "nats" or "rabbitmq".
type QueueConfig struct {
	Driver        string        `mapstructure:"driver"`
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type GeoConfig struct {
	DatasetURL string        `mapstructure:"dataset_url"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// IngestConfig tunes batch ingestion. Strict mode fails a whole batch on the
// first bad row instead of skipping it.
type IngestConfig struct {
	Strict       bool   `mapstructure:"strict"`
	DateColumn   string `mapstructure:"date_column"`
	SourceColumn string `mapstructure:"source_column"`
	UnitColumn   string `mapstructure:"unit_column"`
	AmountColumn string `mapstructure:"amount_column"`
	NotesColumn  string `mapstructure:"notes_column"`
}

type ReportConfig struct {
	DashboardURL    string        `mapstructure:"dashboard_url"`
	BrowserURL      string        `mapstructure:"browser_url"`
	SnapshotScale   float64       `mapstructure:"snapshot_scale"`
	SnapshotTimeout time.Duration `mapstructure:"snapshot_timeout"`
}

type AlertsConfig struct {
	SpikeThresholdPercent float64       `mapstructure:"spike_threshold_percent"`
	CheckInterval         time.Duration `mapstructure:"check_interval"`
	Recipients            []string      `mapstructure:"recipients"`
}

type PaymentConfig struct {
	Stripe StripeConfig `mapstructure:"stripe"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	Currency  string `mapstructure:"currency"`
}

type NotificationConfig struct {
	Email EmailConfig `mapstructure:"email"`
}

type EmailConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type VaultConfig struct {
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
}

type OpenTelemetryConfig struct {
	Enabled bool         `mapstructure:"enabled"`
	Jaeger  JaegerConfig `mapstructure:"jaeger"`
}

type JaegerConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	Credentials    bool     `mapstructure:"credentials"`
}

type CacheConfig struct {
	SummaryTTL time.Duration `mapstructure:"summary_ttl"`
}
