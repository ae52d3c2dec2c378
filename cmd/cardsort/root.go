package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var addrFlag string
	var configFlag string
	var jsonFlag bool

	ctx := newCommandContext(&addrFlag, &configFlag)

	rootCmd := &cobra.Command{
		Use:           "cardsort",
		Short:         "Control CLI for the cardsort daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "", "Daemon API address (host:port)")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit JSON output")

	rootCmd.AddCommand(newStatusCommand(ctx, &jsonFlag))
	rootCmd.AddCommand(newScanCommand(ctx, &jsonFlag))
	rootCmd.AddCommand(newCardsCommand(ctx, &jsonFlag))
	rootCmd.AddCommand(newRulesCommand(ctx, &jsonFlag))
	rootCmd.AddCommand(newCropCommand(ctx, &jsonFlag))
	rootCmd.AddCommand(newDictionaryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
