package main

import (
	"fmt"

	"github.com/oukeidos/tarjama/internal/pipeline"
	"github.com/spf13/cobra"
)

func newVerifyCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Report translation coverage and write the markdown report",
		Long:  "Reads every dataset file without changing it and writes the report to --report.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := st.config()
			if _, err := setupLogging(cfg); err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			agg, path, err := pipeline.RunVerify(ctx, pipeline.Options{Config: cfg, Out: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport exported to: %s\n", path)
			if len(agg.Errors) > 0 {
				return fmt.Errorf("%d file(s) could not be read", len(agg.Errors))
			}
			return nil
		},
	}
}
