// Package service defines the interfaces between the computation core and
// its I/O adapters.
package service

import (
	"context"

	"github.com/resto-ops/reportbot/internal/model"
)

// DataSource supplies the raw operational table.
type DataSource interface {
	FetchOperational(ctx context.Context) (model.Table, error)
}

// ParameterSource supplies the raw management parameter table.
type ParameterSource interface {
	FetchParameters(ctx context.Context) (model.Table, error)
}

// Messenger delivers a finished report to the chat channel.
type Messenger interface {
	Send(ctx context.Context, text string) error
}

// ReportStore records generated report runs for later inspection.
type ReportStore interface {
	SaveRun(ctx context.Context, run *model.ReportRun) error
	ListRuns(ctx context.Context, limit int) ([]model.ReportRun, error)
	Migrate(ctx context.Context) error
	Close() error
}
