// Package pipeline wires configuration, the provider chain, the translation
// engine and the dataset runner into complete runs.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/dataset"
	"github.com/oukeidos/tarjama/internal/files"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/record"
	"github.com/oukeidos/tarjama/internal/translator"
	"github.com/oukeidos/tarjama/internal/verify"
)

// Result is the outcome of a translate, retry or fix run.
type Result struct {
	dataset.Summary
	// Attempts counts provider attempts, including those served from the
	// translation memory.
	Attempts int64
	// Retries counts attempts that followed a failed attempt.
	Retries  int64
	Duration time.Duration
	// Memory is set when a translation memory was used; MemoryEntries and
	// MemoryHits are its totals after the run.
	Memory        bool
	MemoryEntries int64
	MemoryHits    int64
}

// Err reports a run that should end with a non-zero exit status: a
// cancellation, or a file that could not be loaded or saved. Fields that
// failed to translate do not count.
func (r Result) Err() error {
	if r.Canceled {
		return context.Canceled
	}
	if failed := r.FailedFiles(); len(failed) > 0 {
		return fmt.Errorf("%d file(s) could not be processed, first: %s: %s",
			len(failed), failed[0].Name, apperrors.PublicMessage(failed[0].Err))
	}
	return nil
}

// RunDataset runs mode over every file of the data directory.
func RunDataset(ctx context.Context, opts Options, mode record.Mode) (Result, error) {
	if mode == record.ModeFix {
		// Literals only; nothing reaches a provider.
		opts.Translator = noProvider{}
	}
	if err := opts.prepare(); err != nil {
		return Result{}, err
	}
	cfg := opts.Config

	chain, err := BuildChain(ctx, cfg, opts.APIKey, opts.Translator)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := chain.Close(); err != nil {
			logger.Warn("Failed to close provider chain", "error", err)
		}
	}()

	var attempts, retries atomic.Int64
	engine := translator.NewEngine(cfg, chain)
	engine.Retrier.OnAttempt = func(ev translator.AttemptEvent) {
		switch ev.State {
		case translator.StateStarted:
			attempts.Add(1)
		case translator.StateRetrying:
			attempts.Add(1)
			retries.Add(1)
		case translator.StateExhausted:
			logger.Debug("Attempts exhausted", "attempt", ev.Attempt, "max_attempts", ev.MaxAttempts)
		}
	}

	runner := &dataset.Runner{
		Processor:   &record.Processor{Engine: engine, Suffix: cfg.Suffix},
		Dir:         cfg.DataDir,
		MappingFile: cfg.MappingFile,
		Indent:      cfg.Indent,
		Workers:     cfg.Workers,
		OnFile:      opts.OnFile,
	}

	start := time.Now()
	logger.Info("Starting run",
		"mode", mode.String(),
		"dir", cfg.DataDir,
		"provider", cfg.Provider,
		"source_lang", cfg.SourceLang,
		"target_lang", cfg.TargetLang,
	)
	sum, err := runner.Run(ctx, mode)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read data directory: %w", err)
	}
	res := Result{
		Summary:  sum,
		Attempts: attempts.Load(),
		Retries:  retries.Load(),
		Duration: time.Since(start),
	}
	// Stats are read from a fresh context so a canceled run still reports them.
	if entries, hits, ok, err := chain.MemoryStats(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("Failed to read translation memory stats", "error", err)
	} else if ok {
		res.Memory, res.MemoryEntries, res.MemoryHits = true, entries, hits
	}
	t := res.Totals
	logger.Info("Run finished",
		"mode", mode.String(),
		"files", len(res.Files),
		"failed_files", len(res.FailedFiles()),
		"translated", t.Translated,
		"failed", t.Failed,
		"fixed", t.Fixed,
		"recovered", t.Recovered,
		"still_failed", t.StillFailed,
		"attempts", res.Attempts,
		"retries", res.Retries,
		"memory_entries", res.MemoryEntries,
		"memory_hits", res.MemoryHits,
		"canceled", res.Canceled,
		"duration", res.Duration.Round(time.Millisecond),
	)
	return res, nil
}

// RunVerify inspects the data directory, prints the console summary to
// opts.Out and writes the markdown report. It returns the report path.
func RunVerify(ctx context.Context, opts Options) (verify.Aggregate, string, error) {
	cfg, notes := opts.Config.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	opts.Config = cfg
	if cfg.DataDir == "" {
		return verify.Aggregate{}, "", errors.New("data directory is required")
	}

	agg, err := verify.Reporter{Dir: cfg.DataDir, MappingFile: cfg.MappingFile, Suffix: cfg.Suffix}.Run(ctx)
	if err != nil {
		return agg, "", fmt.Errorf("verification failed: %w", err)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	if err := verify.WriteSummary(out, agg); err != nil {
		return agg, "", fmt.Errorf("failed to print summary: %w", err)
	}

	var buf bytes.Buffer
	if err := verify.WriteMarkdown(&buf, agg); err != nil {
		return agg, "", fmt.Errorf("failed to render report: %w", err)
	}
	path := opts.reportPath()
	if err := files.AtomicWrite(path, buf.Bytes(), files.ModeOf(path, 0644)); err != nil {
		return agg, "", apperrors.IO(fmt.Errorf("failed to write report: %w", err))
	}
	logger.Info("Verification report written",
		"path", path,
		"files", len(agg.Files),
		"fields", agg.Total,
		"failed", agg.Failed,
		"unreadable", len(agg.Errors),
	)
	return agg, path, nil
}

// noProvider stands in for a provider in fix mode, where no field is sent.
type noProvider struct{}

func (noProvider) Translate(_ context.Context, text string) (string, error) {
	return text, apperrors.New(apperrors.KindValidation, "No provider configured", nil)
}
