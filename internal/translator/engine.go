package translator

import (
	"context"
	"strings"
	"time"

	"github.com/oukeidos/tarjama/internal/chunker"
	"github.com/oukeidos/tarjama/internal/config"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/provider"
)

// FieldResult is the outcome of translating one field value.
type FieldResult struct {
	Source       string
	Text         string
	Chunks       int
	FailedChunks int
	// Err is the last provider error seen, for logging.
	Err error
}

// Translated reports whether the output differs from the input. This is the
// only success signal; a failed unit keeps its source text.
func (r FieldResult) Translated() bool {
	return r.Text != r.Source
}

// Engine translates whole field values: chunking, per-unit retries and
// reassembly.
type Engine struct {
	Splitter   chunker.Splitter
	Retrier    *Retrier
	BaseDelay  time.Duration
	ChunkDelay time.Duration
}

// NewEngine builds an Engine from cfg on top of p.
func NewEngine(cfg config.Config, p provider.Translator) *Engine {
	return &Engine{
		Splitter: chunker.Splitter{
			MaxSize:    cfg.MaxChunkSize,
			MinRatio:   cfg.MinChunkRatio,
			Delimiters: cfg.Delimiters,
		},
		Retrier:    NewRetrier(p, cfg.MaxRetries, cfg.RetryDelay),
		BaseDelay:  cfg.BaseDelay,
		ChunkDelay: cfg.ChunkDelay,
	}
}

// TranslateField translates value. Blank values are returned untouched and
// never sent to the provider.
func (e *Engine) TranslateField(ctx context.Context, value string) FieldResult {
	res := FieldResult{Source: value, Text: value}
	if strings.TrimSpace(value) == "" {
		return res
	}

	chunks := e.Splitter.Split(value)
	res.Chunks = len(chunks)

	if len(chunks) == 1 {
		r := e.Retrier.Translate(ctx, value, e.BaseDelay)
		res.Text = r.Text
		res.Err = r.Err
		if r.Text == value {
			res.FailedChunks = 1
		}
		return res
	}

	logger.Debug("Translating in chunks", "chunks", len(chunks))
	parts := make([]string, 0, len(chunks))
	sent := 0
	for _, c := range chunks {
		if strings.TrimSpace(c) == "" {
			parts = append(parts, c)
			continue
		}
		sent++
		r := e.Retrier.Translate(ctx, c, e.ChunkDelay)
		if r.Text == c {
			res.FailedChunks++
			if r.Err != nil {
				res.Err = r.Err
			}
		}
		parts = append(parts, r.Text)
	}
	if res.FailedChunks == sent {
		// Nothing came back translated: keep the exact source so the field
		// carries the failure signature instead of a re-spaced copy.
		return res
	}
	// Inter-chunk whitespace is normalised to a single space.
	res.Text = strings.Join(parts, " ")
	return res
}
