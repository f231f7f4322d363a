package dataset

import (
	"context"
	"sync"
	"time"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/record"
	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome of one file.
type FileResult struct {
	Name     string
	Stats    record.Stats
	Written  bool
	Err      error
	Duration time.Duration
}

// Summary is the outcome of a run. Files is in sorted name order and holds
// only the files that were started.
type Summary struct {
	Mode     record.Mode
	Files    []FileResult
	Totals   record.Stats
	Canceled bool
}

// FailedFiles returns the files that could not be loaded, processed to the
// end or saved.
func (s Summary) FailedFiles() []FileResult {
	var out []FileResult
	for _, f := range s.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Runner applies a record pass to every file of a directory.
type Runner struct {
	Processor   *record.Processor
	Dir         string
	MappingFile string
	Indent      int
	// Workers > 1 processes that many files at once. A file is never split
	// between workers.
	Workers int
	// OnFile is called after each file. Calls are serialised.
	OnFile func(FileResult)

	mu sync.Mutex
}

// Run processes the directory. The error is only for failures that prevent
// the run from starting; per-file errors are in the Summary.
func (r *Runner) Run(ctx context.Context, mode record.Mode) (Summary, error) {
	names, err := ListFiles(r.Dir, r.MappingFile)
	if err != nil {
		return Summary{}, err
	}
	logger.Info("Dataset run started", "mode", mode.String(), "files", len(names), "workers", r.workers())

	results := make([]FileResult, len(names))
	started := make([]bool, len(names))

	if r.workers() <= 1 {
		for i, name := range names {
			if ctx.Err() != nil {
				break
			}
			started[i] = true
			results[i] = r.runFile(ctx, name, mode)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.workers())
		for i, name := range names {
			if ctx.Err() != nil {
				break
			}
			started[i] = true
			i, name := i, name
			g.Go(func() error {
				results[i] = r.runFile(ctx, name, mode)
				return nil
			})
		}
		_ = g.Wait()
	}

	sum := Summary{Mode: mode, Canceled: ctx.Err() != nil}
	for i := range names {
		if !started[i] {
			continue
		}
		sum.Files = append(sum.Files, results[i])
		if results[i].Err == nil {
			sum.Totals.Add(results[i].Stats)
		}
	}
	return sum, nil
}

func (r *Runner) workers() int {
	if r.Workers < 1 {
		return 1
	}
	return r.Workers
}

func (r *Runner) runFile(ctx context.Context, name string, mode record.Mode) FileResult {
	start := time.Now()
	res := FileResult{Name: name}
	log := logger.With("file", name)
	defer func() {
		res.Duration = time.Since(start)
		r.report(res)
	}()

	path := Path(r.Dir, name)
	recs, err := Load(path)
	if err != nil {
		res.Err = err
		log.Error("Skipping file", "error", apperrors.PublicMessage(err))
		return res
	}

	res.Stats = r.Processor.ProcessAll(ctx, name, recs, mode)
	if err := ctx.Err(); err != nil {
		// Abandoned files are not written; the next run picks them up again.
		res.Err = err
		log.Warn("File abandoned before completion", "records", len(recs))
		return res
	}

	if res.Stats.Changed {
		if err := Save(path, recs, r.Indent); err != nil {
			res.Err = err
			log.Error("Failed to write file", "error", apperrors.PublicMessage(err))
			return res
		}
		res.Written = true
	}
	log.Info("File processed",
		"records", res.Stats.Items,
		"translated", res.Stats.Translated,
		"failed", res.Stats.Failed,
		"skipped", res.Stats.Skipped,
		"fixed", res.Stats.Fixed,
		"recovered", res.Stats.Recovered,
		"written", res.Written,
	)
	return res
}

func (r *Runner) report(res FileResult) {
	if r.OnFile == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.OnFile(res)
}
