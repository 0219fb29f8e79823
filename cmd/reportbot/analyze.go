package main

import (
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Daily summary for the latest recorded day",
		Long: `Fetch the operational sheet and summarize the most recent day:
revenue split, average ticket, basket depth, hall payroll, delivery and
discount/food-cost percentages.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			send, _ := cmd.Flags().GetBool("send")

			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			rep, err := eng.Daily(ctx)
			if err != nil {
				return err
			}
			return deliver(ctx, rep, send)
		},
	}

	cmd.Flags().Bool("send", false, "Deliver to the Telegram chat instead of printing")
	return cmd
}

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project the current month from its daily averages",
		Long: `Build the month forecast: projected revenue and every cost line
(salary, food cost, franchise, write-off, overheads, delivery, acquiring,
bank commission, fixed costs, payroll tax), profit and post-tax profit.
Missing management parameters degrade to zero with a warning line.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			send, _ := cmd.Flags().GetBool("send")

			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			rep, err := eng.Forecast(ctx)
			if err != nil {
				return err
			}
			return deliver(ctx, rep, send)
		},
	}

	cmd.Flags().Bool("send", false, "Deliver to the Telegram chat instead of printing")
	return cmd
}

func monthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "month [current|previous]",
		Short: "Month-end actuals rollup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			send, _ := cmd.Flags().GetBool("send")

			name := "current"
			if len(args) == 1 {
				name = args[0]
			}

			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			rep, err := eng.Month(ctx, name)
			if err != nil {
				return err
			}
			return deliver(ctx, rep, send)
		},
	}

	cmd.Flags().Bool("send", false, "Deliver to the Telegram chat instead of printing")
	return cmd
}
