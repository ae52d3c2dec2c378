package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newScanCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>",
		Short: "Run a card photo through the recognition and sort pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			scan, err := ctx.client().Scan(cmd.Context(), data)
			if err != nil {
				return err
			}
			if *jsonFlag {
				return writeJSON(cmd, scan)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scan:      %s\n", scan.ScanID)
			fmt.Fprintf(out, "Outcome:   %s\n", scan.Outcome)
			if scan.Matched != "" {
				fmt.Fprintf(out, "Card:      %s (distance %d)\n", scan.Matched, scan.Distance)
			} else if scan.RawText != "" {
				fmt.Fprintf(out, "Raw text:  %s\n", scan.RawText)
			}
			fmt.Fprintf(out, "Direction: %s\n", scan.Direction)
			if scan.Rule != nil {
				fmt.Fprintf(out, "Rule:      %s\n", scan.Rule.Name)
			}
			if scan.Card != nil && scan.Card.Quantity > 1 {
				fmt.Fprintf(out, "Quantity:  %d\n", scan.Card.Quantity)
			}
			if len(scan.Errors) > 0 {
				fmt.Fprintf(out, "Degraded:  %s\n", strings.Join(scan.Errors, "; "))
			}
			fmt.Fprintf(out, "Elapsed:   %dms\n", scan.ElapsedMS)
			return nil
		},
	}
}
