package provider

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimited struct {
	next    Translator
	limiter *rate.Limiter
}

// WithRateLimit gates next behind a token bucket of rps requests per second.
// All workers share the returned Translator, so the budget is global.
// rps <= 0 returns next unchanged.
func WithRateLimit(next Translator, rps float64) Translator {
	if rps <= 0 {
		return next
	}
	return &rateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

func (r *rateLimited) Translate(ctx context.Context, text string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Translate(ctx, text)
}
