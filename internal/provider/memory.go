package provider

import (
	"context"

	"github.com/oukeidos/tarjama/internal/logger"
)

// Store persists successful translations keyed by language pair and text.
type Store interface {
	Lookup(ctx context.Context, source, target, text string) (string, bool, error)
	Save(ctx context.Context, source, target, text, translated string) error
}

type memory struct {
	next   Translator
	store  Store
	source string
	target string
}

// WithMemory answers from store when it can and records new successful
// translations. Outputs equal to the input are never stored, so a failure
// signature cannot be replayed from the store.
func WithMemory(next Translator, store Store, source, target string) Translator {
	if store == nil {
		return next
	}
	return &memory{next: next, store: store, source: source, target: target}
}

func (m *memory) Translate(ctx context.Context, text string) (string, error) {
	out, ok, err := m.store.Lookup(ctx, m.source, m.target, text)
	if err != nil {
		logger.Warn("Translation memory lookup failed", "error", err)
	} else if ok && out != text {
		return out, nil
	}

	out, err = m.next.Translate(ctx, text)
	if err != nil {
		return "", err
	}
	if out != text {
		if err := m.store.Save(ctx, m.source, m.target, text, out); err != nil {
			logger.Warn("Translation memory save failed", "error", err)
		}
	}
	return out, nil
}
