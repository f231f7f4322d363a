package main

import (
	"fmt"

	"github.com/oukeidos/tarjama/internal/version"
	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show a short description and link",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "tarjama: translate string fields of JSON datasets")
			fmt.Fprintln(out, "https://github.com/oukeidos/tarjama")
			fmt.Fprintln(out, version.UserAgent())
		},
	}
}
