package record

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/translator"
)

// Mode selects which fields a pass touches.
type Mode int

const (
	// ModeTranslate fills missing derived fields.
	ModeTranslate Mode = iota
	// ModeRetry re-translates fields whose derived value equals the source.
	ModeRetry
	// ModeFix only writes non-translatable literals.
	ModeFix
)

func (m Mode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRetry:
		return "retry"
	case ModeFix:
		return "fix"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "translate":
		return ModeTranslate, nil
	case "retry":
		return ModeRetry, nil
	case "fix":
		return ModeFix, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Stats counts what a pass did. Changed is true when any field was written.
type Stats struct {
	Items       int
	Translated  int
	Skipped     int
	Failed      int
	Fixed       int
	Retried     int
	Recovered   int
	StillFailed int
	Changed     bool
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Items += o.Items
	s.Translated += o.Translated
	s.Skipped += o.Skipped
	s.Failed += o.Failed
	s.Fixed += o.Fixed
	s.Retried += o.Retried
	s.Recovered += o.Recovered
	s.StillFailed += o.StillFailed
	s.Changed = s.Changed || o.Changed
}

// FieldTranslator translates one field value.
type FieldTranslator interface {
	TranslateField(ctx context.Context, value string) translator.FieldResult
}

// Processor applies a pass to records.
type Processor struct {
	Engine FieldTranslator
	Suffix string
}

// ProcessAll runs Process over every record of a file and sums the stats.
// It stops at the first record boundary after ctx is done.
func (p *Processor) ProcessAll(ctx context.Context, file string, records []*Record, mode Mode) Stats {
	var total Stats
	log := logger.With("file", file, "mode", mode.String())
	for i, rec := range records {
		if ctx.Err() != nil {
			break
		}
		total.Add(p.process(ctx, log.With("record", i), rec, mode))
	}
	return total
}

// Process applies mode to a single record.
func (p *Processor) Process(ctx context.Context, rec *Record, mode Mode) Stats {
	return p.process(ctx, logger.With("mode", mode.String()), rec, mode)
}

func (p *Processor) process(ctx context.Context, log *slog.Logger, rec *Record, mode Mode) Stats {
	st := Stats{Items: 1}
	for _, f := range Candidates(rec, p.Suffix) {
		if ctx.Err() != nil {
			return st
		}
		if f.State == NonTranslatable {
			if mode == ModeRetry {
				continue
			}
			if !f.DerivedIsString || f.Derived != f.Value {
				rec.SetString(f.DerivedKey, f.Value)
				st.Fixed++
				st.Changed = true
			}
			continue
		}

		switch mode {
		case ModeTranslate:
			if f.HasDerived {
				st.Skipped++
				continue
			}
			res := p.Engine.TranslateField(ctx, f.Value)
			if ctx.Err() != nil {
				// A cut-short translation is not a real failure; leave the
				// field untouched for the next run.
				return st
			}
			rec.SetString(f.DerivedKey, res.Text)
			st.Changed = true
			if res.Translated() {
				st.Translated++
				log.Debug("Field translated", "field", f.Key, "chunks", res.Chunks)
			} else {
				st.Failed++
				log.Warn("Field translation failed", "field", f.Key, "chunks", res.Chunks, "error", apperrors.PublicMessage(res.Err))
			}

		case ModeRetry:
			if f.State != Failed {
				continue
			}
			st.Retried++
			res := p.Engine.TranslateField(ctx, f.Value)
			if ctx.Err() != nil {
				return st
			}
			if res.Translated() {
				rec.SetString(f.DerivedKey, res.Text)
				st.Recovered++
				st.Changed = true
				log.Info("Field recovered", "field", f.Key, "chunks", res.Chunks)
			} else {
				st.StillFailed++
				log.Warn("Field still failing", "field", f.Key, "chunks", res.Chunks, "error", apperrors.PublicMessage(res.Err))
			}
		}
	}
	return st
}
