// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/resto-ops/reportbot/internal/sheets"
	"github.com/resto-ops/reportbot/internal/telegram"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration. Precedence:
// 1. Viper configuration (config file or REPORTBOT_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Defaults
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.operational_id"); v != "" {
		config.OperationalSheetID = v
	}
	if v := viper.GetString("sheets.parameter_id"); v != "" {
		config.ParameterSheetID = v
	}
	if v := viper.GetString("sheets.parameter_sheet_name"); v != "" {
		config.ParameterSheetName = v
	}

	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.OperationalSheetID == "" {
		config.OperationalSheetID = os.Getenv("GOOGLE_SHEETS_OPERATIONAL_ID")
	}
	if config.ParameterSheetID == "" {
		config.ParameterSheetID = os.Getenv("GOOGLE_SHEETS_PARAMETER_ID")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadTelegramConfig loads the bot credentials with the same precedence.
func LoadTelegramConfig() (*telegram.Config, error) {
	config := telegram.Config{
		Token:  viper.GetString("telegram.token"),
		ChatID: viper.GetString("telegram.chat_id"),
	}

	if config.Token == "" {
		config.Token = os.Getenv("TELEGRAM_TOKEN")
	}
	if config.ChatID == "" {
		config.ChatID = os.Getenv("CHAT_ID")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
