// Package sheets provides the Google Sheets data source for the operational
// and management parameter tables.
package sheets

import (
	"fmt"
	"time"

	"github.com/resto-ops/reportbot/internal/common"
)

// Config holds the configuration for the Google Sheets source.
type Config struct {
	ServiceAccountPath string
	OperationalSheetID string
	ParameterSheetID   string
	ParameterSheetName string
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ParameterSheetName: "Лист1",
		RetryAttempts:      3,
		RetryDelay:         time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ServiceAccountPath == "" {
		return fmt.Errorf("%w: Google service account path", common.ErrMissingConfig)
	}
	if c.OperationalSheetID == "" {
		return fmt.Errorf("%w: operational spreadsheet id", common.ErrMissingConfig)
	}
	if c.ParameterSheetID == "" {
		return fmt.Errorf("%w: parameter spreadsheet id", common.ErrMissingConfig)
	}
	if c.ParameterSheetName == "" {
		return fmt.Errorf("%w: parameter sheet name", common.ErrMissingConfig)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}
