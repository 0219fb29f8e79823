package main

import (
	"fmt"

	"github.com/resto-ops/reportbot/internal/cli"
	"github.com/resto-ops/reportbot/internal/rank"
	"github.com/spf13/cobra"
)

func managersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "managers",
		Short: "Rank managers for the current month",
		Long: `Group the month's shifts by manager and rank them by a weighted
composite of average ticket, revenue and basket depth. With
--discount-aware, heavy discounting is penalized as well.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			send, _ := cmd.Flags().GetBool("send")
			discountAware, _ := cmd.Flags().GetBool("discount-aware")

			weights := rank.DefaultWeights()
			if discountAware {
				weights = rank.DiscountAwareWeights()
			}

			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			rep, err := eng.Managers(ctx, weights)
			if err != nil {
				return err
			}
			return deliver(ctx, rep, send)
		},
	}

	cmd.Flags().Bool("send", false, "Deliver to the Telegram chat instead of printing")
	cmd.Flags().Bool("discount-aware", false, "Penalize discount rate in the composite score")
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No reports generated yet."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Report history"))
			for _, run := range runs {
				line := fmt.Sprintf("%s  %-9s %-14s delivered=%t",
					run.CreatedAt.Local().Format("2006-01-02 15:04"),
					run.Kind, run.Period, run.Delivered)
				if run.Warnings > 0 {
					line += cli.WarningStyle.Render(fmt.Sprintf("  ⚠ %d warnings", run.Warnings))
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	return cmd
}
