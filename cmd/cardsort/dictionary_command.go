package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDictionaryCommand(ctx *commandContext) *cobra.Command {
	dictCmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Manage the card-name dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	dictCmd.AddCommand(&cobra.Command{
		Use:   "reload",
		Short: "Reload the dictionary file without restarting the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			reload, err := ctx.client().ReloadDictionary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dictionary reloaded: %d terms\n", reload.Terms)
			return nil
		},
	})
	return dictCmd
}
