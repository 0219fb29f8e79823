package main

import (
	"log/slog"

	"github.com/resto-ops/reportbot/internal/bot"
	"github.com/resto-ops/reportbot/internal/scheduler"
	"github.com/resto-ops/reportbot/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultCron     = "30 9 * * *"
	defaultTimezone = "Europe/Kaliningrad"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat bot and the daily report schedule",
		Long: `Start long-polling the Telegram chat for commands (/analyze,
/forecast, /month, /managers) and schedule the daily report job.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			tg, err := buildTelegram()
			if err != nil {
				return err
			}

			// The bot is still useful without history.
			var history service.ReportStore
			if store, storeErr := openStore(ctx); storeErr != nil {
				slog.Warn("report history unavailable", "error", storeErr)
			} else {
				defer closeStore(store)
				history = store
			}

			reportBot := bot.New(eng, tg, history, slog.Default())

			cronExpr := viper.GetString("schedule.cron")
			if cronExpr == "" {
				cronExpr = defaultCron
			}
			timezone := viper.GetString("schedule.timezone")
			if timezone == "" {
				timezone = defaultTimezone
			}

			sched, err := scheduler.New(timezone, slog.Default())
			if err != nil {
				return err
			}
			if err := sched.AddJob("daily-report", cronExpr, func() {
				reportBot.RunDaily(ctx)
			}); err != nil {
				return err
			}

			sched.Start()
			defer func() {
				if stopErr := sched.Stop(); stopErr != nil {
					slog.Error("failed to stop scheduler", "error", stopErr)
				}
			}()

			slog.Info("serving", "cron", cronExpr, "timezone", timezone)
			if err := reportBot.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}
