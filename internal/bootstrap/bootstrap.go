package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/compliance-view/internal/config"
	domain "github.com/bryanwahyu/compliance-view/internal/domain/compliance"
	"github.com/bryanwahyu/compliance-view/internal/infra/cache"
	"github.com/bryanwahyu/compliance-view/internal/infra/graphql"
)

// NewStore opens the configured response store. The returned close func
// releases its connection, if any.
func NewStore(ctx context.Context, cfg *config.Config) (domain.Store, func() error, error) {
	switch cfg.Cache.Driver {
	case "redis":
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			rc.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Cache.Redis.Addr, err)
		}
		return cache.NewRedisStore(rc, cfg.Cache.Redis.KeyPrefix), rc.Close, nil
	default:
		return cache.NewMemoryStore(), func() error { return nil }, nil
	}
}

// NewClient builds the GraphQL client for the configured endpoint.
func NewClient(cfg *config.Config, store domain.Store, log zerolog.Logger, rec graphql.Recorder) *graphql.Client {
	opts := []graphql.Option{
		graphql.WithHTTPClient(&http.Client{Timeout: cfg.Compliance.Timeout}),
		graphql.WithLogger(log),
	}
	if rec != nil {
		opts = append(opts, graphql.WithRecorder(rec))
	}
	endpoint := graphql.Endpoint(cfg.Compliance.BaseURL, cfg.Compliance.APIRoot)
	return graphql.NewClient(endpoint, store, opts...)
}
