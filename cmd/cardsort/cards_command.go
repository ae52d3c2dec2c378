package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"cardsort/internal/api"
)

func newCardsCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "Inspect and manage the card catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cardsCmd.AddCommand(newCardsListCommand(ctx, jsonFlag))
	cardsCmd.AddCommand(newCardsShowCommand(ctx, jsonFlag))
	cardsCmd.AddCommand(newCardsRemoveCommand(ctx))
	cardsCmd.AddCommand(newCardsExportCommand(ctx))
	return cardsCmd
}

func newCardsListCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	var filter cardFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := ctx.client().ListCards(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if *jsonFlag {
				return writeJSON(cmd, cards)
			}
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog is empty")
				return nil
			}

			rows := make([][]string, 0, len(cards))
			for _, card := range cards {
				rows = append(rows, []string{
					strconv.FormatInt(card.ID, 10),
					cardName(card),
					strconv.FormatInt(card.Quantity, 10),
					formatPrice(card.Price),
					card.ColorIdentity,
					formatCMC(card.CMC),
					card.TypeLine,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Qty", "Price", "Colors", "CMC", "Type"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.color, "color", "", "Filter by color identity symbol")
	cmd.Flags().StringVar(&filter.cmc, "cmc", "", "Filter by exact mana value")
	cmd.Flags().StringVar(&filter.maxPrice, "max-price", "", "Filter by maximum price")
	return cmd
}

func newCardsShowCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid card id %q", args[0])
			}
			card, err := ctx.client().GetCard(cmd.Context(), id)
			if err != nil {
				return err
			}
			if *jsonFlag {
				return writeJSON(cmd, card)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %d\n", card.ID)
			fmt.Fprintf(out, "Name:      %s\n", cardName(*card))
			fmt.Fprintf(out, "Quantity:  %d\n", card.Quantity)
			fmt.Fprintf(out, "Price:     %s\n", formatPrice(card.Price))
			fmt.Fprintf(out, "Colors:    %s\n", card.ColorIdentity)
			fmt.Fprintf(out, "CMC:       %s\n", formatCMC(card.CMC))
			fmt.Fprintf(out, "Type:      %s\n", card.TypeLine)
			if card.RawOCRText != "" {
				fmt.Fprintf(out, "Raw OCR:   %s\n", card.RawOCRText)
			}
			if card.ImageURL != "" {
				fmt.Fprintf(out, "Image:     %s\n", card.ImageURL)
			}
			return nil
		},
	}
}

func newCardsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a catalog record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid card id %q", args[0])
			}
			if err := ctx.client().DeleteCard(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "card %d removed\n", id)
			return nil
		},
	}
}

func newCardsExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer file.Close()
				w = file
			}
			if err := ctx.client().ExportCSV(cmd.Context(), w); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "catalog exported to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the CSV to a file instead of stdout")
	return cmd
}

func cardName(card api.Card) string {
	if card.Name != "" {
		return card.Name
	}
	return "(unrecognized)"
}

func formatPrice(price *float64) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *price)
}

func formatCMC(cmc *int64) string {
	if cmc == nil {
		return "-"
	}
	return strconv.FormatInt(*cmc, 10)
}
