package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/resto-ops/reportbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history", "reportbot.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewSQLiteStoreEmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	assert.Error(t, err)
}

func TestSaveRunFillsDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &model.ReportRun{
		Kind:   model.ReportDaily,
		Period: "2026-06-15",
		Body:   "📅 Дата: 2026-06-15",
	}
	require.NoError(t, store.SaveRun(ctx, run))

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, model.ReportDaily, runs[0].Kind)
	assert.Equal(t, "2026-06-15", runs[0].Period)
	assert.Equal(t, run.Body, runs[0].Body)
}

func TestSaveRunNil(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.SaveRun(context.Background(), nil))
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, time.June, 1, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveRun(ctx, &model.ReportRun{
			Kind:      model.ReportForecast,
			Period:    "June 2026",
			Body:      "forecast",
			Warnings:  i,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 2, runs[0].Warnings, "most recent run first")
	assert.Equal(t, 0, runs[2].Warnings)
}

func TestListRunsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, time.June, 1, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveRun(ctx, &model.ReportRun{
			Kind:      model.ReportManagers,
			Period:    "June 2026",
			Body:      "managers",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 5, "non-positive limit falls back to the default")
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.SaveRun(context.Background(), &model.ReportRun{
		Kind: model.ReportDaily, Period: "2026-06-15", Body: "x",
	}))
}
