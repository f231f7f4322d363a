package main

import (
	"fmt"

	"github.com/oukeidos/tarjama/internal/language"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Supported Languages:")
			for _, l := range language.GetSupportedLanguages() {
				dir := ""
				if l.RTL {
					dir = " (RTL)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-35s [%s]%s\n", l.Name, l.ID, dir)
			}
		},
	}
}
