package translator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/provider"
)

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	s.mu.Unlock()
	return ctx.Err()
}

func newTestRetrier(p provider.Translator, maxRetries int) (*Retrier, *sleepRecorder) {
	rec := &sleepRecorder{}
	r := NewRetrier(p, maxRetries, 3*time.Second)
	r.sleep = rec.sleep
	return r, rec
}

func TestRetrier_ConvergesAfterKFailures(t *testing.T) {
	for k := 0; k < 5; k++ {
		steps := make([]provider.Step, 0, k+1)
		for i := 0; i < k; i++ {
			steps = append(steps, provider.Step{Err: apperrors.Transient(errors.New("503"))})
		}
		steps = append(steps, provider.Step{Out: "Hello"})
		m := &provider.Mock{Steps: steps}
		r, rec := newTestRetrier(m, 5)

		res := r.Translate(context.Background(), "مرحبا", 500*time.Millisecond)
		if res.Text != "Hello" || res.Err != nil {
			t.Fatalf("k=%d: Translate() = %+v", k, res)
		}
		if m.Calls() != k+1 || res.Attempts != k+1 {
			t.Fatalf("k=%d: calls = %d, attempts = %d, want %d", k, m.Calls(), res.Attempts, k+1)
		}
		// k retry delays followed by the success pause.
		if len(rec.sleeps) != k+1 || rec.sleeps[k] != 500*time.Millisecond {
			t.Fatalf("k=%d: sleeps = %v", k, rec.sleeps)
		}
	}
}

func TestRetrier_ExhaustionReturnsInput(t *testing.T) {
	boom := errors.New("boom")
	m := &provider.Mock{Fn: func(string) (string, error) { return "", boom }}
	r, rec := newTestRetrier(m, 5)

	res := r.Translate(context.Background(), "نص", time.Second)
	if res.Text != "نص" {
		t.Fatalf("expected input back, got %q", res.Text)
	}
	if !errors.Is(res.Err, boom) || res.Attempts != 5 || m.Calls() != 5 {
		t.Fatalf("unexpected result %+v, calls %d", res, m.Calls())
	}
	// No delay after the last failed attempt.
	if len(rec.sleeps) != 4 {
		t.Fatalf("sleeps = %v, want 4 retry delays", rec.sleeps)
	}
	for _, d := range rec.sleeps {
		if d != 3*time.Second {
			t.Fatalf("retry delay = %v, want fixed 3s", d)
		}
	}
}

func TestRetrier_EmptyOutputCountsAsFailure(t *testing.T) {
	m := &provider.Mock{Steps: []provider.Step{{Out: "  "}, {Out: "Hi"}}}
	r, _ := newTestRetrier(m, 3)

	res := r.Translate(context.Background(), "مرحبا", 0)
	if res.Text != "Hi" || res.Attempts != 2 {
		t.Fatalf("Translate() = %+v", res)
	}
}

func TestRetrier_ProgressEvents(t *testing.T) {
	m := &provider.Mock{Steps: []provider.Step{{Err: errors.New("x")}, {Out: "ok"}}}
	r, _ := newTestRetrier(m, 3)
	var states []AttemptState
	r.OnAttempt = func(ev AttemptEvent) { states = append(states, ev.State) }

	r.Translate(context.Background(), "in", 0)
	want := []AttemptState{StateStarted, StateRetrying, StateCompleted}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
}

func TestRetrier_CanceledContextStopsEarly(t *testing.T) {
	m := &provider.Mock{Fn: func(string) (string, error) { return "", errors.New("down") }}
	r := NewRetrier(m, 5, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	done := make(chan Result, 1)
	go func() { done <- r.Translate(ctx, "نص", 0) }()

	select {
	case res := <-done:
		if res.Text != "نص" || !errors.Is(res.Err, context.Canceled) {
			t.Fatalf("Translate() = %+v", res)
		}
		if m.Calls() != 1 {
			t.Fatalf("calls = %d, want 1", m.Calls())
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("retrier did not stop on cancellation")
	}
}
