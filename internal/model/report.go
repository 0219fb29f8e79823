package model

import "time"

// Report kinds stored in the run history.
const (
	ReportDaily    = "daily"
	ReportForecast = "forecast"
	ReportMonth    = "month"
	ReportManagers = "managers"
)

// ReportRun is one generated report, as recorded in the history store.
type ReportRun struct {
	ID        string
	Kind      string
	Period    string // human label, e.g. "July 2026" or a date
	Body      string
	Warnings  int
	Delivered bool
	CreatedAt time.Time
}
