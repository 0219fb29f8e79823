package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resto-ops/reportbot/internal/config"
	"github.com/resto-ops/reportbot/internal/engine"
	"github.com/resto-ops/reportbot/internal/sheets"
	"github.com/resto-ops/reportbot/internal/storage"
	"github.com/resto-ops/reportbot/internal/telegram"
	"github.com/spf13/viper"
)

const defaultDBPath = "~/.local/share/reportbot/reportbot.db"

// buildEngine authenticates the sheets client and wires the report engine.
func buildEngine(ctx context.Context) (*engine.Engine, error) {
	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load sheets config: %w", err)
	}

	client, err := sheets.NewClient(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return engine.New(client, client, slog.Default()), nil
}

// buildTelegram creates the delivery client.
func buildTelegram() (*telegram.Client, error) {
	tgCfg, err := config.LoadTelegramConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load telegram config: %w", err)
	}
	return telegram.NewClient(*tgCfg, slog.Default())
}

// openStore opens the report history database and applies migrations.
func openStore(ctx context.Context) (*storage.SQLiteStore, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		closeStore(store)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func closeStore(store *storage.SQLiteStore) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

// deliver prints the report, or sends it to the chat when send is set, and
// records the run in history either way.
func deliver(ctx context.Context, rep engine.Report, send bool) error {
	delivered := false
	if send {
		tg, err := buildTelegram()
		if err != nil {
			return err
		}
		if err := tg.Send(ctx, rep.Text); err != nil {
			return fmt.Errorf("failed to send report: %w", err)
		}
		delivered = true
	} else {
		fmt.Println(rep.Text)
	}

	store, err := openStore(ctx)
	if err != nil {
		slog.Warn("report history unavailable", "error", err)
		return nil
	}
	defer closeStore(store)

	run := rep.Run()
	run.Delivered = delivered
	if err := store.SaveRun(ctx, run); err != nil {
		slog.Warn("failed to record report run", "error", err)
	}
	return nil
}
