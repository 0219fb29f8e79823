package model

import "time"

// ForecastMode selects how a period's aggregates are rolled up.
type ForecastMode int

const (
	// ModeProjected scales daily averages by the number of days in the
	// target month; used mid-month.
	ModeProjected ForecastMode = iota
	// ModeActual uses the period sums directly; used for completed months.
	ModeActual
)

func (m ForecastMode) String() string {
	if m == ModeActual {
		return "actual"
	}
	return "projected"
}

// CostLine is one computed expense line of a forecast.
type CostLine struct {
	Key        string  // stable identifier, e.g. "franchise"
	Label      string  // display label for the report
	Amount     float64 // money amount in rubles
	Share      float64 // percent of revenue, 0 when revenue is 0
	Percent    float64 // resolved input percent, as displayed
	HasPercent bool    // false when the percent parameter was missing
}

// ForecastResult carries every computed amount of a month rollup, in report
// line order. It is built fresh per request and never mutated afterwards.
type ForecastResult struct {
	Mode       ForecastMode
	Month      time.Month
	Year       int
	Days       int
	Revenue    float64
	Salary     float64 // accrued + fixed management salary
	LaborShare float64 // salary as percent of revenue
	Lines      []CostLine
	TotalCost  float64
	Profit     float64
	Tax        float64 // simplified tax on profit
	TaxPct     float64
	HasTaxPct  bool
	NetProfit  float64
	Bonus      float64
	HasBonus   bool
	Warnings   []string
}

// BonusBand is one row of the management sheet's bonus grid.
type BonusBand struct {
	Min   float64
	Max   float64
	Bonus float64
}
