// Package service runs the stats image pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/osustats/osustats/internal/cache"
	"github.com/osustats/osustats/internal/logging"
	"github.com/osustats/osustats/internal/metrics"
	"github.com/osustats/osustats/internal/model"
)

// Service errors. Each wraps the underlying cause.
var (
	ErrTokenUnavailable     = errors.New("access token unavailable")
	ErrUserUnavailable      = errors.New("user stats unavailable")
	ErrRankingUnavailable   = errors.New("leaderboard unavailable")
	ErrInsufficientRankings = errors.New("leaderboard page has too few entries")
	ErrRenderFailed         = errors.New("image rendering failed")
)

// Pipeline stage names, recorded on failed runs.
const (
	StageToken    = "token"
	StageUser     = "user"
	StageRankings = "rankings"
	StageRender   = "render"
)

// TokenSource supplies a bearer token for API reads.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StatsFetcher reads player and leaderboard data.
type StatsFetcher interface {
	User(ctx context.Context, token string, userID int, mode string) (*model.UserStats, error)
	Rankings(ctx context.Context, token, mode string, page, limit int) ([]model.LeaderboardEntry, error)
}

// Composer draws a card and writes it to the output file.
type Composer interface {
	Compose(card model.Card) error
	OutputPath() string
}

// GeneratorConfig selects the player and leaderboard page.
type GeneratorConfig struct {
	UserID       int
	Mode         string
	RankingPage  int
	RankingLimit int
	Headline     string
}

// Result describes a successful run.
type Result struct {
	RunID      string
	Card       model.Card
	OutputPath string
	Duration   time.Duration
}

// Generator fetches stats and renders the card.
type Generator struct {
	tokens   TokenSource
	stats    StatsFetcher
	composer Composer
	store    cache.StatusStore
	metrics  metrics.Recorder
	logger   *slog.Logger
	cfg      GeneratorConfig
	now      func() time.Time
}

// NewGenerator creates a Generator. store and recorder may be nil.
func NewGenerator(
	tokens TokenSource,
	stats StatsFetcher,
	composer Composer,
	store cache.StatusStore,
	recorder metrics.Recorder,
	logger *slog.Logger,
	cfg GeneratorConfig,
) *Generator {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		tokens:   tokens,
		stats:    stats,
		composer: composer,
		store:    store,
		metrics:  recorder,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Status returns the recorded runs.
func (g *Generator) Status(ctx context.Context) (model.Status, error) {
	return g.store.Status(ctx)
}

// Generate runs the pipeline once. A failed run logs exactly one error line
// and returns an error wrapping one of the service sentinels.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	run := model.Run{
		ID:        ulid.Make().String(),
		StartedAt: g.now().UTC(),
	}
	attrs := []any{
		slog.String("run_id", run.ID),
		slog.Int("user_id", g.cfg.UserID),
		slog.String("mode", g.cfg.Mode),
	}
	if requestID := logging.RequestID(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	logger := g.logger.With(attrs...)
	logger.Debug("generation started")

	card, stage, err := g.produce(ctx, logger)

	run.FinishedAt = g.now().UTC()
	duration := run.FinishedAt.Sub(run.StartedAt)
	g.metrics.ObserveGenerationDuration(duration)

	if err != nil {
		run.Outcome = model.RunFailed
		run.Stage = stage
		run.Error = err.Error()
		g.metrics.IncGeneration(metrics.OutcomeFailed)
		g.saveRun(ctx, logger, run)
		return nil, err
	}

	run.Outcome = model.RunSucceeded
	run.Summary = card.Summary()
	g.metrics.IncGeneration(metrics.OutcomeSuccess)
	g.saveRun(ctx, logger, run)

	logger.Info("stats image updated",
		slog.String("path", g.composer.OutputPath()),
		slog.Int("rank_difference", card.Metrics.RankDifference),
		slog.Float64("pp_gap", card.Metrics.PPGap),
		slog.Duration("duration", duration),
	)

	return &Result{
		RunID:      run.ID,
		Card:       card,
		OutputPath: g.composer.OutputPath(),
		Duration:   duration,
	}, nil
}

func (g *Generator) produce(ctx context.Context, logger *slog.Logger) (model.Card, string, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		logger.Error("failed to obtain access token", slog.String("error", err.Error()))
		return model.Card{}, StageToken, fmt.Errorf("%w: %w", ErrTokenUnavailable, err)
	}

	user, err := g.stats.User(ctx, token, g.cfg.UserID, g.cfg.Mode)
	if err != nil {
		logger.Error("failed to fetch user stats", slog.String("error", err.Error()))
		return model.Card{}, StageUser, fmt.Errorf("%w: %w", ErrUserUnavailable, err)
	}

	entries, err := g.stats.Rankings(ctx, token, g.cfg.Mode, g.cfg.RankingPage, g.cfg.RankingLimit)
	if err != nil {
		logger.Error("failed to fetch leaderboard", slog.String("error", err.Error()))
		return model.Card{}, StageRankings, fmt.Errorf("%w: %w", ErrRankingUnavailable, err)
	}

	milestone, ok := model.Milestone(entries, g.cfg.RankingLimit)
	if !ok {
		logger.Error("leaderboard page too short",
			slog.Int("entries", len(entries)),
			slog.Int("required", g.cfg.RankingLimit),
		)
		return model.Card{}, StageRankings, fmt.Errorf("%w: got %d, need %d",
			ErrInsufficientRankings, len(entries), g.cfg.RankingLimit)
	}

	card := model.NewCard(*user, milestone, g.cfg.Headline)
	if err := g.composer.Compose(card); err != nil {
		logger.Error("failed to render stats image", slog.String("error", err.Error()))
		return model.Card{}, StageRender, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return card, "", nil
}

func (g *Generator) saveRun(ctx context.Context, logger *slog.Logger, run model.Run) {
	// Context may already be cancelled when the client went away.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := g.store.SaveRun(saveCtx, run); err != nil {
		logger.Warn("failed to record run", slog.String("error", err.Error()))
	}
}

// IsUpstreamError reports whether err came from the osu! API side of the pipeline.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrTokenUnavailable) ||
		errors.Is(err, ErrUserUnavailable) ||
		errors.Is(err, ErrRankingUnavailable) ||
		errors.Is(err, ErrInsufficientRankings)
}
