package provider

import (
	"context"
	"errors"
	"time"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/sony/gobreaker"
)

// DefaultBreakerCooldown is how long the breaker stays open before probing.
const DefaultBreakerCooldown = 30 * time.Second

type breaker struct {
	next Translator
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker opens a circuit after failures consecutive provider errors.
// While open, calls fail fast with a transient error and still count as
// attempts for the caller's retry budget. failures <= 0 returns next unchanged.
func WithBreaker(next Translator, failures int, cooldown time.Duration) Translator {
	if failures <= 0 {
		return next
	}
	if cooldown <= 0 {
		cooldown = DefaultBreakerCooldown
	}
	st := gobreaker.Settings{
		Name:        "provider",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(failures)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &breaker{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *breaker) Translate(ctx context.Context, text string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", apperrors.New(apperrors.KindTransient, "Provider circuit is open; request skipped.", err)
		}
		return "", err
	}
	return out.(string), nil
}
