// Package app wires configuration into the generation pipeline.
// Both binaries build their dependencies here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osustats/osustats/internal/cache"
	"github.com/osustats/osustats/internal/config"
	"github.com/osustats/osustats/internal/metrics"
	"github.com/osustats/osustats/internal/osu"
	"github.com/osustats/osustats/internal/render"
	"github.com/osustats/osustats/internal/service"
)

// App holds the wired pipeline and the resources it owns.
type App struct {
	Generator *service.Generator
	Composer  *render.Composer
	Breaker   *osu.Breaker

	// Cache is nil when REDIS_URL is empty.
	Cache *cache.Cache
}

// Build creates the pipeline from cfg. recorder may be nil.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (*App, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	a := &App{}

	var store cache.StatusStore = cache.NewMemoryStore()
	if cfg.RedisURL != "" {
		c, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to Redis at %s: %s", RedactURL(cfg.RedisURL), SanitizeError(err, cfg.RedisURL))
		}
		logger.Info("connected to Redis", slog.String("redis_url", RedactURL(cfg.RedisURL)))
		a.Cache = c
		store = c
	}

	if cfg.BreakerEnabled {
		a.Breaker = osu.NewBreaker(osu.BreakerSettings{
			MaxFailures: cfg.BreakerMaxFailures,
			Timeout:     cfg.BreakerTimeout,
		}, logger)
	}

	httpClient := osu.NewHTTPClient(cfg.HTTPTimeout)
	tokens := osu.NewTokenFetcher(cfg.TokenURL, osu.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}, httpClient, a.Breaker, recorder)
	client := osu.NewClient(cfg.APIBaseURL, httpClient, a.Breaker, recorder)

	a.Composer = render.NewComposer(render.Options{
		BackgroundPath: cfg.BackgroundPath,
		FontPath:       cfg.FontPath,
		FontSize:       cfg.FontSize,
		OutputPath:     cfg.OutputPath,
	}, logger)

	a.Generator = service.NewGenerator(tokens, client, a.Composer, store, recorder, logger, service.GeneratorConfig{
		UserID:       cfg.UserID,
		Mode:         cfg.Mode,
		RankingPage:  cfg.RankingPage,
		RankingLimit: cfg.RankingLimit,
		Headline:     cfg.Headline,
	})

	return a, nil
}

// Close releases the Redis client, if any.
func (a *App) Close(ctx context.Context) error {
	if a.Cache == nil {
		return nil
	}
	return a.Cache.Close()
}
