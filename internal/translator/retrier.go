package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/provider"
)

// AttemptState represents where a unit is in its retry loop.
type AttemptState int

const (
	StateStarted AttemptState = iota
	StateRetrying
	StateCompleted
	StateExhausted
	StateCanceled
)

func (s AttemptState) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StateRetrying:
		return "retrying"
	case StateCompleted:
		return "completed"
	case StateExhausted:
		return "exhausted"
	case StateCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AttemptEvent is passed to Retrier.OnAttempt.
type AttemptEvent struct {
	Attempt     int
	MaxAttempts int
	State       AttemptState
	Error       error
}

// Result of one unit translation. On exhaustion Text is the input unchanged;
// Attempts and Err are informational only.
type Result struct {
	Text     string
	Attempts int
	Err      error
}

// Retrier calls the provider for one unit with a fixed number of attempts and
// a fixed delay between failed attempts. It never returns an error.
type Retrier struct {
	Provider   provider.Translator
	MaxRetries int
	RetryDelay time.Duration
	OnAttempt  func(AttemptEvent)

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier returns a Retrier with the given bounds.
func NewRetrier(p provider.Translator, maxRetries int, retryDelay time.Duration) *Retrier {
	return &Retrier{Provider: p, MaxRetries: maxRetries, RetryDelay: retryDelay}
}

// Translate translates text, sleeping pause after a successful call.
func (r *Retrier) Translate(ctx context.Context, text string, pause time.Duration) Result {
	maxAttempts := r.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			r.emit(AttemptEvent{Attempt: attempt, MaxAttempts: maxAttempts, State: StateCanceled, Error: err})
			return Result{Text: text, Attempts: attempt - 1, Err: err}
		}

		state := StateStarted
		if attempt > 1 {
			state = StateRetrying
		}
		r.emit(AttemptEvent{Attempt: attempt, MaxAttempts: maxAttempts, State: state, Error: lastErr})

		out, err := r.Provider.Translate(ctx, text)
		if err == nil && strings.TrimSpace(out) == "" && strings.TrimSpace(text) != "" {
			err = apperrors.Validation(fmt.Errorf("provider returned an empty translation"))
		}
		if err == nil {
			r.emit(AttemptEvent{Attempt: attempt, MaxAttempts: maxAttempts, State: StateCompleted})
			// The result stands even if the pause is cut short by cancellation.
			_ = r.wait(ctx, pause)
			return Result{Text: out, Attempts: attempt}
		}

		lastErr = err
		logger.Debug("Provider attempt failed", "attempt", attempt, "max_attempts", maxAttempts, "error", apperrors.PublicMessage(err))
		if attempt == maxAttempts {
			break
		}
		if err := r.wait(ctx, r.RetryDelay); err != nil {
			r.emit(AttemptEvent{Attempt: attempt, MaxAttempts: maxAttempts, State: StateCanceled, Error: err})
			return Result{Text: text, Attempts: attempt, Err: err}
		}
	}

	r.emit(AttemptEvent{Attempt: maxAttempts, MaxAttempts: maxAttempts, State: StateExhausted, Error: lastErr})
	return Result{Text: text, Attempts: maxAttempts, Err: lastErr}
}

func (r *Retrier) emit(ev AttemptEvent) {
	if r.OnAttempt != nil {
		r.OnAttempt(ev)
	}
}

func (r *Retrier) wait(ctx context.Context, d time.Duration) error {
	if r.sleep != nil {
		return r.sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
