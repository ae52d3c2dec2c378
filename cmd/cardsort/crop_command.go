package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardsort/internal/api"
)

func newCropCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	cropCmd := &cobra.Command{
		Use:   "crop",
		Short: "Inspect and adjust the name-band crop ratios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cropCmd.AddCommand(newCropShowCommand(ctx, jsonFlag))
	cropCmd.AddCommand(newCropSetCommand(ctx, jsonFlag))
	return cropCmd
}

func newCropShowCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active crop band",
		RunE: func(cmd *cobra.Command, args []string) error {
			crop, err := ctx.client().GetCrop(cmd.Context())
			if err != nil {
				return err
			}
			if *jsonFlag {
				return writeJSON(cmd, crop)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "left=%.3f top=%.3f right=%.3f bottom=%.3f\n",
				crop.Left, crop.Top, crop.Right, crop.Bottom)
			return nil
		},
	}
}

func newCropSetCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	var crop api.Crop

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Install new crop ratios",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.client().SetCrop(cmd.Context(), crop); err != nil {
				return err
			}
			if *jsonFlag {
				return writeJSON(cmd, crop)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "crop band updated")
			return nil
		},
	}

	cmd.Flags().Float64Var(&crop.Left, "left", 0, "Left ratio of image width")
	cmd.Flags().Float64Var(&crop.Top, "top", 0, "Top ratio of image height")
	cmd.Flags().Float64Var(&crop.Right, "right", 0, "Right ratio of image width")
	cmd.Flags().Float64Var(&crop.Bottom, "bottom", 0, "Bottom ratio of image height")
	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("top")
	_ = cmd.MarkFlagRequired("right")
	_ = cmd.MarkFlagRequired("bottom")
	return cmd
}
