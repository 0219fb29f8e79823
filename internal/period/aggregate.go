// Package period slices the normalized dataset by calendar period and
// produces the sums and means the report builders consume.
package period

import (
	"fmt"
	"math"
	"time"

	"github.com/resto-ops/reportbot/internal/common"
	"github.com/resto-ops/reportbot/internal/model"
)

// Aggregate holds per-period sums and means of the operational fields.
// Means are missing-aware: NaN cells do not participate. An Aggregate is
// only produced for a non-empty row set; empty periods surface as
// common.ErrNoData.
type Aggregate struct {
	Date  time.Time  // the selected day for latest-day mode
	Year  int        // populated for month modes
	Month time.Month // populated for month modes
	Rows  int

	Bar          float64 // sum
	Kitchen      float64 // sum
	Revenue      float64 // bar + kitchen, sum
	RevenueMean  float64 // mean of per-row bar + kitchen
	SalarySum    float64
	SalaryMean   float64
	HallPaySum   float64
	TicketMean   float64
	DepthMean    float64 // raw scale, divide by 10 for display
	FoodCostMean float64 // parts of 100, NaN when no row has a value
	DiscountMean float64 // parts of 100, NaN when no row has a value

	DeliveryColumn string
	DeliveryFound  bool
	DeliverySum    float64
	DeliveryMean   float64

	Managers []string // distinct non-empty names, first-seen order
}

// LatestDay aggregates the rows matching the maximum date in the dataset.
func LatestDay(ds model.Dataset) (Aggregate, error) {
	if len(ds.Records) == 0 {
		return Aggregate{}, fmt.Errorf("latest day: %w", common.ErrNoData)
	}

	var last time.Time
	for _, rec := range ds.Records {
		if rec.Date.After(last) {
			last = rec.Date
		}
	}

	var rows []model.Record
	for _, rec := range ds.Records {
		if rec.Date.Equal(last) {
			rows = append(rows, rec)
		}
	}

	agg := build(ds, rows)
	agg.Date = last
	return agg, nil
}

// Month aggregates the rows falling in the given calendar month.
func Month(ds model.Dataset, year int, month time.Month) (Aggregate, error) {
	rows := RowsInMonth(ds, year, month)
	if len(rows) == 0 {
		return Aggregate{}, fmt.Errorf("%s %d: %w", month, year, common.ErrNoData)
	}

	agg := build(ds, rows)
	agg.Year = year
	agg.Month = month
	return agg, nil
}

// Named resolves "current" or "previous" relative to now and aggregates
// that month. The previous month is found by stepping back one day from the
// first of the current month, so year boundaries behave.
func Named(ds model.Dataset, name string, now time.Time) (Aggregate, error) {
	switch name {
	case "current", "":
		return Month(ds, now.Year(), now.Month())
	case "previous":
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		prev := firstOfMonth.AddDate(0, 0, -1)
		return Month(ds, prev.Year(), prev.Month())
	default:
		return Aggregate{}, fmt.Errorf("unknown period %q (want current or previous)", name)
	}
}

// RowsInMonth returns the records falling in the given calendar month, in
// input order. Used by callers that need row-level grouping, like the
// manager ranking.
func RowsInMonth(ds model.Dataset, year int, month time.Month) []model.Record {
	var rows []model.Record
	for _, rec := range ds.Records {
		if rec.Date.Year() == year && rec.Date.Month() == month {
			rows = append(rows, rec)
		}
	}
	return rows
}

func build(ds model.Dataset, rows []model.Record) Aggregate {
	agg := Aggregate{Rows: len(rows)}

	var (
		revenueMean  meanAcc
		salaryMean   meanAcc
		ticketMean   meanAcc
		depthMean    meanAcc
		foodcostMean meanAcc
		discountMean meanAcc
		deliveryMean meanAcc
	)

	deliveryCol, deliveryFound := ds.DeliveryColumn()
	agg.DeliveryColumn = deliveryCol
	agg.DeliveryFound = deliveryFound

	seen := make(map[string]bool)
	for _, rec := range rows {
		agg.Bar += nanSum(rec.Bar)
		agg.Kitchen += nanSum(rec.Kitchen)
		agg.SalarySum += nanSum(rec.Salary)
		agg.HallPaySum += nanSum(rec.HallPay)

		revenueMean.add(rec.Revenue())
		salaryMean.add(rec.Salary)
		ticketMean.add(rec.AvgTicket)
		depthMean.add(rec.Depth)
		foodcostMean.add(rec.FoodCostPct)
		discountMean.add(rec.DiscountPct)

		if deliveryFound {
			v := rec.Extra[deliveryCol]
			agg.DeliverySum += nanSum(v)
			deliveryMean.add(v)
		}

		if rec.Manager != "" && !seen[rec.Manager] {
			seen[rec.Manager] = true
			agg.Managers = append(agg.Managers, rec.Manager)
		}
	}

	agg.Revenue = agg.Bar + agg.Kitchen
	agg.RevenueMean = revenueMean.value()
	agg.SalaryMean = salaryMean.value()
	agg.TicketMean = ticketMean.value()
	agg.DepthMean = depthMean.value()
	agg.FoodCostMean = foodcostMean.value()
	agg.DiscountMean = discountMean.value()
	agg.DeliveryMean = deliveryMean.value()

	return agg
}

// meanAcc accumulates a missing-aware mean: NaN inputs are skipped, and a
// mean over zero observations is NaN rather than zero.
type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.n++
}

func (m *meanAcc) value() float64 {
	if m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}

func nanSum(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
