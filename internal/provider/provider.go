// Package provider holds the remote translation backends and the decorators
// stacked in front of them.
package provider

import "context"

// Translator turns one piece of source text into target text. A provider is
// built for a fixed language pair.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Func adapts a plain function to Translator.
type Func func(ctx context.Context, text string) (string, error)

func (f Func) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
