package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ctx.client().Status(cmd.Context())
			if err != nil {
				return err
			}
			if *jsonFlag {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Running:          %s\n", renderBool(status.Running, true, colorize))
			fmt.Fprintf(out, "PID:              %d\n", status.PID)
			fmt.Fprintf(out, "Sorter state:     %s\n", status.SorterState)
			fmt.Fprintf(out, "Sorter faulted:   %s\n", renderBool(status.SorterFaulted, false, colorize))
			fmt.Fprintf(out, "Catalog records:  %d\n", status.CatalogCount)
			fmt.Fprintf(out, "Dictionary terms: %d\n", status.DictionaryTerms)
			fmt.Fprintf(out, "Catalog database: %s\n", status.CatalogDBPath)
			if status.CameraEnabled {
				fmt.Fprintf(out, "Camera present:   %s\n", renderBool(status.CameraPresent, true, colorize))
			}
			return nil
		},
	}
}
