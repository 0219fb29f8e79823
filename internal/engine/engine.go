// Package engine wires the pipeline together: fetch both tables, normalize,
// aggregate for the requested period and render the report text. It is the
// single entry point the CLI, the bot dispatcher and the scheduler share.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/resto-ops/reportbot/internal/common"
	"github.com/resto-ops/reportbot/internal/forecast"
	"github.com/resto-ops/reportbot/internal/model"
	"github.com/resto-ops/reportbot/internal/normalize"
	"github.com/resto-ops/reportbot/internal/params"
	"github.com/resto-ops/reportbot/internal/period"
	"github.com/resto-ops/reportbot/internal/rank"
	"github.com/resto-ops/reportbot/internal/report"
	"github.com/resto-ops/reportbot/internal/service"
)

// Engine builds finished report texts from the configured data sources.
type Engine struct {
	data     service.DataSource
	paramSrc service.ParameterSource
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's notion of now; used in tests and for the
// business timezone.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given sources.
func New(data service.DataSource, paramSrc service.ParameterSource, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		data:     data,
		paramSrc: paramSrc,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report is a finished report plus the metadata persisted to history.
type Report struct {
	Kind     string
	Period   string
	Text     string
	Warnings int
}

// Run returns a model.ReportRun for storage.
func (r Report) Run() *model.ReportRun {
	return &model.ReportRun{
		Kind:     r.Kind,
		Period:   r.Period,
		Body:     r.Text,
		Warnings: r.Warnings,
	}
}

// Daily builds the latest-day summary.
func (e *Engine) Daily(ctx context.Context) (Report, error) {
	ds, err := e.dataset(ctx)
	if err != nil {
		return Report{}, err
	}

	agg, err := period.LatestDay(ds)
	if errors.Is(err, common.ErrNoData) {
		return Report{Kind: model.ReportDaily, Text: report.NoDataLatestDay}, nil
	}
	if err != nil {
		return Report{}, err
	}

	return Report{
		Kind:   model.ReportDaily,
		Period: agg.Date.Format("2006-01-02"),
		Text:   report.Daily(agg),
	}, nil
}

// Forecast builds the current-month projection.
func (e *Engine) Forecast(ctx context.Context) (Report, error) {
	return e.rollup(ctx, "current", model.ModeProjected, model.ReportForecast)
}

// Month builds the completed-month rollup for "current" or "previous".
func (e *Engine) Month(ctx context.Context, name string) (Report, error) {
	return e.rollup(ctx, name, model.ModeActual, model.ReportMonth)
}

func (e *Engine) rollup(ctx context.Context, name string, mode model.ForecastMode, kind string) (Report, error) {
	ds, err := e.dataset(ctx)
	if err != nil {
		return Report{}, err
	}

	agg, err := period.Named(ds, name, e.now())
	if errors.Is(err, common.ErrNoData) {
		return Report{Kind: kind, Text: report.NoDataMonth}, nil
	}
	if err != nil {
		return Report{}, err
	}

	resolver, err := e.resolver(ctx)
	if err != nil {
		return Report{}, err
	}

	res, err := forecast.New(resolver).Build(agg, mode)
	if err != nil {
		return Report{}, common.NewUserError("не удалось построить отчёт", err)
	}

	return Report{
		Kind:     kind,
		Period:   fmt.Sprintf("%s %d", res.Month, res.Year),
		Text:     report.Forecast(res),
		Warnings: len(res.Warnings),
	}, nil
}

// Managers builds the manager ranking for the current month.
func (e *Engine) Managers(ctx context.Context, weights rank.Weights) (Report, error) {
	ds, err := e.dataset(ctx)
	if err != nil {
		return Report{}, err
	}

	now := e.now()
	rows := period.RowsInMonth(ds, now.Year(), now.Month())
	scores := rank.Rank(rows, weights)
	if len(scores) == 0 {
		return Report{Kind: model.ReportManagers, Text: report.NoDataManagers}, nil
	}

	label := fmt.Sprintf("%s %d", now.Month(), now.Year())
	return Report{
		Kind:   model.ReportManagers,
		Period: label,
		Text:   report.Managers(scores, label),
	}, nil
}

func (e *Engine) dataset(ctx context.Context) (model.Dataset, error) {
	table, err := e.data.FetchOperational(ctx)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("operational fetch: %w", err)
	}

	ds := normalize.Records(table)
	e.logger.Debug("normalized dataset", "rows", len(ds.Records), "columns", len(ds.Columns))
	return ds, nil
}

func (e *Engine) resolver(ctx context.Context) (*params.Resolver, error) {
	table, err := e.paramSrc.FetchParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("parameter fetch: %w", err)
	}
	return params.NewResolver(table), nil
}
