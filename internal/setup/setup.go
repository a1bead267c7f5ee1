package setup

import (
	"context"
	"log/slog"

	"github.com/gibber-dev/gibber/internal/config"
	"github.com/gibber-dev/gibber/internal/handler"
	"github.com/gibber-dev/gibber/internal/jwt"
	"github.com/gibber-dev/gibber/internal/service"
	"github.com/gibber-dev/gibber/internal/storage/pg"
	"github.com/gibber-dev/gibber/internal/storage/redis"
	"github.com/gibber-dev/gibber/internal/storage/s3"
)

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Storage *pg.Storage
	Media   *s3.Store
	Cache   *redis.FeedCache
	Handler *handler.Handler
	Jwt     jwt.JwtService
	Config  *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	media, err := s3.New(cfg)
	if err != nil {
		return nil, err
	}

	// The feed cache is optional: no redis address means no cache.
	var cache *redis.FeedCache
	var feedCache service.FeedCache
	if cfg.Private.Redis.Addr != "" {
		cache, err = redis.NewFeedCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
		feedCache = cache
	} else {
		slog.Info("redis address not set, feed cache disabled")
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	limits := service.Limits{
		MaxFilesPerPost:  cfg.Public.MaxFilesPerPost,
		MaxContentLength: cfg.Public.MaxContentLength,
		FeedPageSize:     cfg.Public.FeedPageSize,
		SearchPageSize:   cfg.Public.SearchPageSize,
	}
	post := service.NewPost(storage, storage, media, feedCache, limits)
	interaction := service.NewInteraction(storage, storage)

	h := handler.New(post, interaction, storage)

	return &Dependencies{
		Storage: storage,
		Media:   media,
		Cache:   cache,
		Handler: h,
		Jwt:     jwtService,
		Config:  cfg,
	}, nil
}

// Cleanup releases held connections.
func (d *Dependencies) Cleanup() {
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			slog.Warn("closing feed cache", "err", err)
		}
	}
	if err := d.Storage.Cleanup(); err != nil {
		slog.Warn("closing storage", "err", err)
	}
}
