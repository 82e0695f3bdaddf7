// Package bootstrap wires the runtime shared by the server and the admin CLI.
package bootstrap

import (
	"context"
	"fmt"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/kv"
	"folio/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Migrate forces a schema migration even in production, where
	// database.Connect skips it.
	Migrate bool
	// SkipRedis leaves the Redis client nil, for one-shot commands.
	SkipRedis bool
}

// InitRuntime connects to the database and Redis. The Redis client is nil
// when REDIS_URL is unset or unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.Migrate && cfg.IsProduction() {
		if err := database.Migrate(db); err != nil {
			return nil, nil, err
		}
	}

	if opts.SkipRedis {
		return db, nil, nil
	}
	return db, kv.Connect(cfg.RedisURL), nil
}

// InitTracing starts the tracer provider described by cfg and returns its
// shutdown function.
func InitTracing(cfg *config.Config) (func(context.Context) error, error) {
	return observability.InitTracing(observability.TracingConfig{
		ServiceName:    "folio",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
}
