package app

import (
	"time"

	"github.com/yungbote/cartcheck/internal/clients/redis"
	"github.com/yungbote/cartcheck/internal/data/db"
	"github.com/yungbote/cartcheck/internal/observability"
	"github.com/yungbote/cartcheck/internal/platform/envutil"
	"github.com/yungbote/cartcheck/internal/platform/logger"
)

type Config struct {
	LogMode          string
	DB               db.Config
	Redis            redis.Config
	PriceCacheTTL    time.Duration
	PriceChannel     string
	RuleProfilePath  string
	ChildOrder       string
	SweepConcurrency int
	SweepPageSize    int
	MetricsEnabled   bool
	MetricsAddr      string
	MetricsScrape    time.Duration
	Otel             observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		LogMode: envutil.String("LOG_MODE", "development", log),
		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", "postgres", log),
			Host:       envutil.String("POSTGRES_HOST", "localhost", log),
			Port:       envutil.String("POSTGRES_PORT", "5432", log),
			User:       envutil.String("POSTGRES_USER", "postgres", log),
			Password:   envutil.String("POSTGRES_PASSWORD", "", log),
			Name:       envutil.String("POSTGRES_NAME", "cartcheck", log),
			SQLitePath: envutil.String("SQLITE_PATH", "", log),
		},
		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			DB:       envutil.Int("REDIS_DB", 0),
		},
		PriceCacheTTL:    envutil.Seconds("PRICE_CACHE_TTL_SECONDS", 5*time.Minute),
		PriceChannel:     envutil.String("REDIS_PRICE_CHANNEL", redis.DefaultPriceChannel, log),
		RuleProfilePath:  envutil.String("RULE_PROFILE_PATH", "", log),
		ChildOrder:       envutil.String("CHILD_ORDER", "ordering", log),
		SweepConcurrency: envutil.Int("SWEEP_CONCURRENCY", 8),
		SweepPageSize:    envutil.Int("SWEEP_PAGE_SIZE", 200),
		MetricsEnabled:   envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:      envutil.String("METRICS_ADDR", ":9090", log),
		MetricsScrape:    envutil.Seconds("METRICS_SCRAPE_SECONDS", 10*time.Second),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "cartcheck", log),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_TRACES_SAMPLER_RATIO", 1),
		},
	}
}
