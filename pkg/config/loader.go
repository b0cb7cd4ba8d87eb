package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("queue.url", "QUEUE_URL", "APP_QUEUE_URL")
	viper.BindEnv("queue.driver", "QUEUE_DRIVER", "APP_QUEUE_DRIVER")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY", "APP_GEMINI_API_KEY")
	viper.BindEnv("geo.dataset_url", "GEO_DATASET_URL")
	viper.BindEnv("payment.stripe.secret_key", "STRIPE_SECRET_KEY")
	viper.BindEnv("notification.email.api_key", "SENDGRID_API_KEY")
	viper.BindEnv("vault.address", "VAULT_ADDR")
	viper.BindEnv("vault.token", "VAULT_TOKEN")
	viper.BindEnv("report.dashboard_url", "REPORT_DASHBOARD_URL")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults carry a deploy.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "carboniq-server")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("http.port", 8080)
	viper.SetDefault("http.read_timeout", "15s")
	viper.SetDefault("http.write_timeout", "30s")
	viper.SetDefault("http.idle_timeout", "60s")
	viper.SetDefault("http.body_limit_mb", 16)

	viper.SetDefault("database.auto_migrate", true)

	viper.SetDefault("queue.driver", "nats")
	viper.SetDefault("queue.url", "nats://localhost:4222")
	viper.SetDefault("queue.reconnect_wait", "2s")

	viper.SetDefault("gemini.model", "gemini-2.0-flash")

	viper.SetDefault("geo.cache_ttl", "6h")

	viper.SetDefault("ingest.strict", false)
	viper.SetDefault("ingest.date_column", "date")
	viper.SetDefault("ingest.source_column", "source")
	viper.SetDefault("ingest.unit_column", "unit")
	viper.SetDefault("ingest.amount_column", "amount")
	viper.SetDefault("ingest.notes_column", "note")

	viper.SetDefault("report.dashboard_url", "http://localhost:3000/dashboard")
	viper.SetDefault("report.snapshot_scale", 2.0)
	viper.SetDefault("report.snapshot_timeout", "5s")

	viper.SetDefault("alerts.spike_threshold_percent", 20.0)
	viper.SetDefault("alerts.check_interval", "1h")

	viper.SetDefault("payment.stripe.currency", "inr")

	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.max_requests", 120)
	viper.SetDefault("rate_limiting.window", "1m")

	viper.SetDefault("cache.summary_ttl", "60s")
}
