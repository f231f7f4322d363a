package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/dataset"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/pipeline"
	"github.com/oukeidos/tarjama/internal/record"
	"github.com/spf13/cobra"
)

func newTranslateCmd(st *rootState) *cobra.Command {
	return newModeCmd(st, record.ModeTranslate,
		"translate",
		"Translate every untranslated string field",
		"Adds a <field><suffix> translation next to every string field that does not have one yet.\n"+
			"Files are rewritten only when something changed.")
}

func newRetryCmd(st *rootState) *cobra.Command {
	return newModeCmd(st, record.ModeRetry,
		"retry",
		"Re-translate fields whose translation equals the source",
		"Looks for fields whose translation is identical to the source text and sends them again.")
}

func newFixCmd(st *rootState) *cobra.Command {
	return newModeCmd(st, record.ModeFix,
		"fix",
		"Copy non-translatable values (true, no, 0-9, ...) into their translation fields",
		"Never contacts a provider.")
}

func newModeCmd(st *rootState, mode record.Mode, use, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, st, mode)
		},
	}
}

func runMode(cmd *cobra.Command, st *rootState, mode record.Mode) error {
	cfg := st.config()
	if _, err := setupLogging(cfg); err != nil {
		return err
	}

	opts := pipeline.Options{
		Config:     cfg,
		Translator: translatorOverride,
		OnFile:     printFileResult(cmd.OutOrStdout(), mode),
	}
	if mode != record.ModeFix && opts.Translator == nil && cfg.NeedsAPIKey() {
		key, source, err := resolveAPIKey(cfg.Provider, st.allowEnv, st.envOnly)
		if err != nil {
			return err
		}
		logger.Info("Using API Key", "service", cfg.Provider, "source", source)
		opts.APIKey = key
	}

	ctx, stop := signalContext()
	defer stop()

	res, err := pipeline.RunDataset(ctx, opts, mode)
	if err != nil {
		return err
	}
	printRunSummary(cmd.OutOrStdout(), mode, res)
	return res.Err()
}

func printFileResult(w io.Writer, mode record.Mode) func(dataset.FileResult) {
	return func(r dataset.FileResult) {
		if r.Err != nil {
			fmt.Fprintf(w, "✗ %s: %s\n", r.Name, apperrors.PublicMessage(r.Err))
			return
		}
		s := r.Stats
		mark := "✓"
		if s.Failed > 0 || s.StillFailed > 0 {
			mark = "⚠"
		}
		switch mode {
		case record.ModeRetry:
			fmt.Fprintf(w, "%s %s: retried %d, recovered %d, still failing %d\n", mark, r.Name, s.Retried, s.Recovered, s.StillFailed)
		case record.ModeFix:
			fmt.Fprintf(w, "%s %s: fixed %d\n", mark, r.Name, s.Fixed)
		default:
			fmt.Fprintf(w, "%s %s: %d items, translated %d, failed %d, skipped %d\n", mark, r.Name, s.Items, s.Translated, s.Failed, s.Skipped)
		}
	}
}

func printRunSummary(w io.Writer, mode record.Mode, res pipeline.Result) {
	t := res.Totals
	fmt.Fprintln(w, "\n--- Run Summary ---")
	fmt.Fprintf(w, "Mode: %s\n", mode)
	fmt.Fprintf(w, "Files: %d (%d failed)\n", len(res.Files), len(res.FailedFiles()))
	fmt.Fprintf(w, "Items: %s\n", humanize.Comma(int64(t.Items)))
	switch mode {
	case record.ModeRetry:
		fmt.Fprintf(w, "Retried: %s, recovered: %s, still failing: %s\n",
			humanize.Comma(int64(t.Retried)), humanize.Comma(int64(t.Recovered)), humanize.Comma(int64(t.StillFailed)))
	case record.ModeTranslate:
		fmt.Fprintf(w, "Translated: %s, failed: %s, skipped: %s\n",
			humanize.Comma(int64(t.Translated)), humanize.Comma(int64(t.Failed)), humanize.Comma(int64(t.Skipped)))
	}
	fmt.Fprintf(w, "Non-translatable fixed: %s\n", humanize.Comma(int64(t.Fixed)))
	if mode != record.ModeFix {
		fmt.Fprintf(w, "Provider attempts: %s (%s retries)\n", humanize.Comma(res.Attempts), humanize.Comma(res.Retries))
	}
	if res.Memory {
		fmt.Fprintf(w, "Translation memory: %s entries, %s hits\n",
			humanize.Comma(res.MemoryEntries), humanize.Comma(res.MemoryHits))
	}
	fmt.Fprintf(w, "Time: %s\n", res.Duration.Round(time.Millisecond))
	if res.Canceled {
		fmt.Fprintln(w, "Run was canceled; unfinished files were left unchanged.")
	}
}
