package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oukeidos/tarjama/internal/numbering"
	"github.com/oukeidos/tarjama/internal/prompt"
	"github.com/spf13/cobra"
)

var confirmer = prompt.DefaultConfirmer()

type numberOptions struct {
	yes bool
}

func newNumberCmd(st *rootState) *cobra.Command {
	opts := numberOptions{}
	cmd := &cobra.Command{
		Use:   "number",
		Short: "Prefix dataset files with sequence numbers (01_, 02_, ...)",
		Long: "Renames every dataset file to NN_<name> in sorted order, after copying the originals\n" +
			"into " + numbering.BackupDir + "/. The old to new names are saved in --mapping-file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNumber(cmd, st, &opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Rename without asking")
	return cmd
}

func runNumber(cmd *cobra.Command, st *rootState, opts *numberOptions) error {
	cfg := st.config()
	if _, err := setupLogging(cfg); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	plan, err := numbering.Plan(cfg.DataDir, cfg.MappingFile)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		fmt.Fprintln(out, "No JSON files found.")
		return nil
	}

	fmt.Fprintf(out, "Planned renames (%d):\n", len(plan))
	for _, r := range plan {
		fmt.Fprintf(out, "  %s\n  → %s\n", r.Old, r.New)
	}
	c := confirmer
	c.Out = out
	ok, err := c.Confirm(fmt.Sprintf("Rename %d files?", len(plan)), opts.yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}
	mappingPath := filepath.Join(cfg.DataDir, cfg.MappingFile)
	if _, err := os.Stat(mappingPath); err == nil {
		ok, err := c.ConfirmOverwrite(mappingPath, opts.yes)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	res, err := numbering.Apply(cfg.DataDir, cfg.MappingFile, plan)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Renamed %d files.\nBackup: %s\nMapping: %s\n", res.Renamed, res.BackupDir, res.MappingPath)
	return nil
}
