package app

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/adcopy-backend/internal/clients/redis"
	"github.com/yungbote/adcopy-backend/internal/db"
	httpH "github.com/yungbote/adcopy-backend/internal/http/handlers"
	"github.com/yungbote/adcopy-backend/internal/observability"
	"github.com/yungbote/adcopy-backend/internal/platform/envutil"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
	"github.com/yungbote/adcopy-backend/internal/services"
)

type Config struct {
	Port             string
	PlatformSpecPath string
	MetricsEnabled   bool
	CORSOrigins      []string

	Postgres  db.PostgresConfig
	Redis     redis.Options
	OTel      observability.OtelConfig
	Limits    httpH.Limits
	Selection services.SelectionPolicy
}

// LoadEnvFile loads an optional .env file. A missing file is not an error.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

func LoadConfig(log *logger.Logger) Config {
	policy := services.DefaultSelectionPolicy()
	lookbackDays := envutil.Int("SUCCESS_LOOKBACK_DAYS", 30, log)
	if lookbackDays < 0 {
		lookbackDays = 0
	}
	policy.Lookback = time.Duration(lookbackDays) * 24 * time.Hour
	policy.MinScore = envutil.Float("SELECTION_MIN_SCORE", policy.MinScore, log)

	limits := httpH.Limits{
		Default: envutil.Int("DEFAULT_EXAMPLE_LIMIT", 5, log),
		Max:     envutil.Int("MAX_EXAMPLE_LIMIT", 20, log),
	}
	if limits.Max <= 0 {
		limits.Max = 20
	}
	if limits.Default <= 0 || limits.Default > limits.Max {
		limits.Default = limits.Max
		if limits.Default > 5 {
			limits.Default = 5
		}
	}

	return Config{
		Port:             envutil.String("PORT", "8080", log),
		PlatformSpecPath: envutil.String("PLATFORM_SPEC_PATH", "", log),
		MetricsEnabled:   envutil.Bool("METRICS_ENABLED", true, log),
		CORSOrigins:      splitList(envutil.String("CORS_ORIGINS", "", log)),
		Postgres: db.PostgresConfig{
			DSN:             envutil.String("POSTGRES_DSN", "", log),
			Host:            envutil.String("POSTGRES_HOST", "localhost", log),
			Port:            envutil.Int("POSTGRES_PORT", 5432, log),
			User:            envutil.String("POSTGRES_USER", "postgres", log),
			Password:        envutil.String("POSTGRES_PASSWORD", "", log),
			Name:            envutil.String("POSTGRES_NAME", "adcopy", log),
			SSLMode:         envutil.String("POSTGRES_SSLMODE", "disable", log),
			MaxOpenConns:    envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20, log),
			MaxIdleConns:    envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5, log),
			ConnMaxLifetime: envutil.Seconds("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 30*time.Minute, log),
		},
		Redis: redis.Options{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			DB:       envutil.Int("REDIS_DB", 0, log),
			TTL:      envutil.Seconds("FEEDBACK_IDEMPOTENCY_TTL_SECONDS", redis.DefaultTTL, log),
		},
		OTel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "adcopy-backend", log),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1, log),
		},
		Limits:    limits,
		Selection: policy,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
