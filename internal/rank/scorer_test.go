package rank

import (
	"math"
	"testing"
	"time"

	"github.com/resto-ops/reportbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(manager string, revenue, ticket, depthRaw, discount float64) model.Record {
	return model.Record{
		Date:        time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		Manager:     manager,
		Bar:         revenue,
		Kitchen:     0,
		Salary:      math.NaN(),
		HallPay:     math.NaN(),
		AvgTicket:   ticket,
		Depth:       depthRaw,
		FoodCostPct: math.NaN(),
		DiscountPct: discount,
	}
}

func TestRankOrdersByCompositeScore(t *testing.T) {
	records := []model.Record{
		row("Ксения", 50000, 2000, 15, math.NaN()),
		row("Юлия", 100000, 1500, 20, math.NaN()),
		row("Захар", 60000, 1000, 10, math.NaN()),
	}

	scores := Rank(records, DefaultWeights())
	require.Len(t, scores, 3)

	assert.Equal(t, "Юлия", scores[0].Manager)
	assert.Equal(t, "Ксения", scores[1].Manager)
	assert.Equal(t, "Захар", scores[2].Manager)

	assert.InDelta(t, 0.875, scores[0].Score, 1e-9)
	assert.InDelta(t, 0.80, scores[1].Score, 1e-9)
	assert.InDelta(t, 0.53, scores[2].Score, 1e-9)

	// Stored depth is ten times the real value.
	assert.InDelta(t, 2.0, scores[0].Depth, 1e-9)
}

func TestRankAggregatesPerManager(t *testing.T) {
	records := []model.Record{
		row("Анна", 10000, 1000, 12, math.NaN()),
		row("Анна", 20000, 2000, 18, math.NaN()),
	}

	scores := Rank(records, DefaultWeights())
	require.Len(t, scores, 1)

	assert.InDelta(t, 30000, scores[0].Revenue, 1e-9)
	assert.InDelta(t, 1500, scores[0].AvgTicket, 1e-9)
	assert.InDelta(t, 1.5, scores[0].Depth, 1e-9)
	assert.InDelta(t, 1.0, scores[0].Score, 1e-9, "a lone manager holds every maximum")
}

func TestRankSkipsOutOfRangeDiscounts(t *testing.T) {
	records := []model.Record{
		row("Анна", 10000, 1000, 12, 150), // data-entry noise, dropped
		row("Анна", 20000, 2000, 18, 5),
		row("Борис", 15000, 1200, 14, -3), // dropped too
	}

	scores := Rank(records, DefaultWeights())
	require.Len(t, scores, 1)
	assert.Equal(t, "Анна", scores[0].Manager)
	assert.InDelta(t, 20000, scores[0].Revenue, 1e-9)
	assert.InDelta(t, 5, scores[0].DiscountPct, 1e-9)
}

func TestRankDiscountPenalty(t *testing.T) {
	records := []model.Record{
		row("Анна", 10000, 1000, 10, 10),
		row("Борис", 10000, 1000, 10, 0),
	}

	scores := Rank(records, DiscountAwareWeights())
	require.Len(t, scores, 2)

	// Identical sales metrics; the heavier discounter loses the penalty.
	assert.Equal(t, "Борис", scores[0].Manager)
	assert.InDelta(t, 1.0, scores[0].Score, 1e-9)
	assert.InDelta(t, 0.9, scores[1].Score, 1e-9)
}

func TestRankZeroMaximaScoreZero(t *testing.T) {
	records := []model.Record{
		row("Анна", 0, math.NaN(), math.NaN(), math.NaN()),
		row("Борис", 0, math.NaN(), math.NaN(), math.NaN()),
	}

	scores := Rank(records, DefaultWeights())
	require.Len(t, scores, 2)
	for _, s := range scores {
		assert.InDelta(t, 0, s.Score, 1e-9)
		assert.False(t, math.IsNaN(s.Score))
	}
}

func TestRankStableTieOrder(t *testing.T) {
	records := []model.Record{
		row("Борис", 10000, 1000, 10, math.NaN()),
		row("Анна", 10000, 1000, 10, math.NaN()),
	}

	scores := Rank(records, DefaultWeights())
	require.Len(t, scores, 2)
	assert.Equal(t, "Борис", scores[0].Manager, "ties keep first-seen order")
	assert.Equal(t, "Анна", scores[1].Manager)
}

func TestRankSkipsRowsWithoutManager(t *testing.T) {
	records := []model.Record{
		row("", 10000, 1000, 10, math.NaN()),
	}
	assert.Nil(t, Rank(records, DefaultWeights()))
	assert.Nil(t, Rank(nil, DefaultWeights()))
}
