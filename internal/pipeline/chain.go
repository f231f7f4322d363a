package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/oukeidos/tarjama/internal/cache"
	"github.com/oukeidos/tarjama/internal/config"
	"github.com/oukeidos/tarjama/internal/language"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/provider"
)

// Chain is a provider with its decorators applied, plus whatever needs
// closing after the run.
type Chain struct {
	provider.Translator
	mem     *cache.Memory
	closers []func() error
}

// MemoryStats reports the entry count and accumulated hits of the
// translation memory. ok is false when no memory is configured.
func (c *Chain) MemoryStats(ctx context.Context) (entries, hits int64, ok bool, err error) {
	if c.mem == nil {
		return 0, 0, false, nil
	}
	entries, hits, err = c.mem.Stats(ctx)
	return entries, hits, true, err
}

// Close releases the provider client and the translation memory.
func (c *Chain) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildChain builds memory -> breaker -> rate limit -> provider. Only the
// layers enabled in cfg are applied. When base is nil the provider comes
// from cfg.Provider.
func BuildChain(ctx context.Context, cfg config.Config, apiKey string, base provider.Translator) (*Chain, error) {
	c := &Chain{}
	if base == nil {
		p, closer, err := newProvider(ctx, cfg, apiKey)
		if err != nil {
			return nil, err
		}
		base = p
		if closer != nil {
			c.closers = append(c.closers, closer)
		}
	}

	t := base
	if cfg.RequestsPerSecond > 0 {
		t = provider.WithRateLimit(t, cfg.RequestsPerSecond)
	}
	if cfg.BreakerFailures > 0 {
		t = provider.WithBreaker(t, cfg.BreakerFailures, provider.DefaultBreakerCooldown)
	}
	if cfg.CachePath != "" {
		mem, err := cache.Open(cfg.CachePath)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to open translation memory: %w", err)
		}
		c.mem = mem
		c.closers = append(c.closers, mem.Close)
		t = provider.WithMemory(t, mem, cfg.SourceLang, cfg.TargetLang)
	}
	c.Translator = t
	logger.Debug("Provider chain ready",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"requests_per_second", cfg.RequestsPerSecond,
		"breaker_failures", cfg.BreakerFailures,
		"memory", cfg.CachePath != "",
	)
	return c, nil
}

func newProvider(ctx context.Context, cfg config.Config, apiKey string) (provider.Translator, func() error, error) {
	src, ok := language.Lookup(cfg.SourceLang)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported source language: %s", cfg.SourceLang)
	}
	tgt, ok := language.Lookup(cfg.TargetLang)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported target language: %s", cfg.TargetLang)
	}
	switch cfg.Provider {
	case config.ProviderGoogle:
		return provider.NewGoogle(src.Code, tgt.Code), nil, nil
	case config.ProviderGemini:
		g, err := provider.NewGemini(ctx, apiKey, cfg.Model, src, tgt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return g, g.Close, nil
	case config.ProviderOpenAI:
		return provider.NewOpenAI(apiKey, cfg.Model, "", src, tgt), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
