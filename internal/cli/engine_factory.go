package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/katsuyo"
	"github.com/aretw0/katsuyo/pkg/adapters/loam"
	"github.com/aretw0/katsuyo/pkg/adapters/memory"
	"github.com/aretw0/katsuyo/pkg/adapters/redis"
	"github.com/aretw0/katsuyo/pkg/observability"
	"github.com/aretw0/katsuyo/pkg/persistence/middleware"
)

const localCacheTTL = time.Minute

// EngineOptions contains the configuration shared by every command.
type EngineOptions struct {
	GrammarPath string
	LexiconDir  string
	RedisAddr   string
	CacheTTL    time.Duration
	MaxStates   int
	Metrics     *observability.Metrics
}

// Engine bundles the engine with the resources opened for it.
type Engine struct {
	*katsuyo.Engine

	// Repo is set when the lexicon comes from a directory.
	Repo *loam.Lexicon

	cache *redis.Cache
}

// Close releases the cache connection, if any.
func (e *Engine) Close() error {
	if e.cache != nil {
		return e.cache.Close()
	}
	return nil
}

// NewEngine initializes a katsuyo engine with standard CLI conventions.
func NewEngine(ctx context.Context, opts EngineOptions, logger *slog.Logger) (*Engine, error) {
	out := &Engine{}
	engineOpts := []katsuyo.Option{katsuyo.WithLogger(logger)}

	if opts.GrammarPath != "" {
		engineOpts = append(engineOpts, katsuyo.WithGrammarFile(opts.GrammarPath))
	}
	if opts.MaxStates > 0 {
		engineOpts = append(engineOpts, katsuyo.WithMaxStates(opts.MaxStates))
	}
	if opts.Metrics != nil {
		engineOpts = append(engineOpts, katsuyo.WithMetrics(opts.Metrics))
	}

	if opts.LexiconDir != "" {
		lex, err := loam.Open(opts.LexiconDir)
		if err != nil {
			return nil, err
		}
		out.Repo = lex
		engineOpts = append(engineOpts, katsuyo.WithLexicon(lex))
	}

	if opts.RedisAddr != "" {
		cache := redis.New(opts.RedisAddr, "", 0)
		if err := cache.Ping(ctx); err != nil {
			_ = cache.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		logger.Info("Using redis cache", "addr", opts.RedisAddr)
		out.cache = cache
		// Hot forms stay in process memory in front of redis.
		tiered := middleware.Chain(cache, middleware.NewTieredMiddleware(memory.NewCache(), localCacheTTL))
		engineOpts = append(engineOpts, katsuyo.WithCache(tiered, opts.CacheTTL))
	}

	eng, err := katsuyo.New(ctx, engineOpts...)
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	out.Engine = eng
	return out, nil
}
