package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cardsort/internal/api"
)

func newRulesCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage sorting rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rulesCmd.AddCommand(newRulesListCommand(ctx, jsonFlag))
	rulesCmd.AddCommand(newRulesAddCommand(ctx, jsonFlag))
	rulesCmd.AddCommand(newRulesRemoveCommand(ctx))
	return rulesCmd
}

func newRulesListCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sorting rules in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := ctx.client().ListRules(cmd.Context())
			if err != nil {
				return err
			}
			if *jsonFlag {
				return writeJSON(cmd, rules)
			}
			if len(rules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no rules configured; recognized cards go right, unrecognized left")
				return nil
			}

			rows := make([][]string, 0, len(rules))
			for _, rule := range rules {
				rows = append(rows, []string{
					strconv.FormatInt(rule.ID, 10),
					rule.Name,
					fmt.Sprintf("%s %s %s", rule.Attribute, rule.Operator, rule.Value),
					rule.Direction,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Predicate", "Direction"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newRulesAddCommand(ctx *commandContext, jsonFlag *bool) *cobra.Command {
	var req api.CreateRuleRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a sorting rule",
		Example: `  cardsort rules add --name "pricey right" --attribute price --operator ">=" --value 20 --direction right
  cardsort rules add --name "lands left" --attribute type_line --operator contains --value Land --direction left`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := ctx.client().CreateRule(cmd.Context(), req)
			if err != nil {
				return err
			}
			if *jsonFlag {
				return writeJSON(cmd, rule)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rule %d created: %s %s %s -> %s\n",
				rule.ID, rule.Attribute, rule.Operator, rule.Value, rule.Direction)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Rule name")
	cmd.Flags().StringVar(&req.Attribute, "attribute", "", "Card attribute (cmc, price, color_identity, type_line, name)")
	cmd.Flags().StringVar(&req.Operator, "operator", "", "Comparison operator")
	cmd.Flags().StringVar(&req.Value, "value", "", "Comparison value")
	cmd.Flags().StringVar(&req.Direction, "direction", "", "Sort direction (left or right)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("attribute")
	_ = cmd.MarkFlagRequired("operator")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("direction")
	return cmd
}

func newRulesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a sorting rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule id %q", args[0])
			}
			if err := ctx.client().DeleteRule(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rule %d removed\n", id)
			return nil
		},
	}
}
