// Package forecast rolls a period's aggregates up into a month financial
// statement: projected or actual revenue, every cost line, profit and
// post-tax profit.
//
// The engine is pure: it reads one Aggregate and one parameter snapshot and
// produces a fresh ForecastResult. Missing parameters degrade each line to a
// zero contribution with a warning; the only hard failure is a schema
// mismatch (no delivery column in the operational sheet).
package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/resto-ops/reportbot/internal/common"
	"github.com/resto-ops/reportbot/internal/model"
	"github.com/resto-ops/reportbot/internal/period"
)

// Resolver is the subset of the parameter resolver the engine needs.
type Resolver interface {
	Percent(name string) (float64, bool)
	Value(name, column string) (float64, bool)
	BonusGrid(role string) []model.BonusBand
}

const missingSalaryWarning = "❗ Не удалось получить фикс. зарплату из управляющей таблицы."
const missingTaxWarning = "❗ Не удалось получить процент УСН."

// managerBonusRole selects the bonus-grid rows of the management sheet.
const managerBonusRole = "управляющ"

// Engine computes forecasts against a fixed cost-line table.
type Engine struct {
	resolver Resolver
	lines    []LineSpec
}

// New creates an engine with the default cost-line table.
func New(resolver Resolver) *Engine {
	return &Engine{resolver: resolver, lines: Lines()}
}

// NewWithLines creates an engine with a custom cost-line table.
func NewWithLines(resolver Resolver, lines []LineSpec) *Engine {
	return &Engine{resolver: resolver, lines: lines}
}

// Build computes the rollup for the aggregate's month. ModeProjected scales
// the period's daily averages by the month's day count; ModeActual totals
// the period as-is. Fixed money amounts are added once in either mode.
func (e *Engine) Build(agg period.Aggregate, mode model.ForecastMode) (*model.ForecastResult, error) {
	if !agg.DeliveryFound {
		return nil, fmt.Errorf("delivery column: %w", common.ErrMissingColumn)
	}

	days := daysInMonth(agg.Year, agg.Month)
	res := &model.ForecastResult{
		Mode:  mode,
		Year:  agg.Year,
		Month: agg.Month,
		Days:  days,
	}

	var revenue, salaryAccrued, delivery float64
	if mode == model.ModeProjected {
		revenue = zeroNaN(agg.RevenueMean) * float64(days)
		salaryAccrued = zeroNaN(agg.SalaryMean) * float64(days)
		delivery = zeroNaN(agg.DeliveryMean) * float64(days)
	} else {
		revenue = agg.Revenue
		salaryAccrued = agg.SalarySum
		delivery = agg.DeliverySum
	}
	res.Revenue = revenue

	fixedSalary, ok := e.resolver.Value(ParamManagementSalary, model.ParamColAmount)
	if !ok {
		res.Warnings = append(res.Warnings, missingSalaryWarning)
	}
	res.Salary = salaryAccrued + fixedSalary
	res.LaborShare = shareOf(res.Salary, revenue)

	totalCost := res.Salary
	for _, spec := range e.lines {
		line, resolved := e.buildLine(spec, agg, revenue, delivery, res.Salary)
		if !resolved && spec.Warning != "" {
			res.Warnings = append(res.Warnings, spec.Warning)
		}
		line.Share = shareOf(line.Amount, revenue)
		totalCost += line.Amount
		res.Lines = append(res.Lines, line)
	}

	res.TotalCost = totalCost
	res.Profit = revenue - totalCost

	if taxPct, taxOK := e.resolver.Percent(ParamSimplifiedTax); taxOK {
		res.TaxPct = taxPct
		res.HasTaxPct = true
		res.Tax = res.Profit * (taxPct / 100)
	} else {
		res.Warnings = append(res.Warnings, missingTaxWarning)
	}
	res.NetProfit = res.Profit - res.Tax

	if bands := e.resolver.BonusGrid(managerBonusRole); len(bands) > 0 {
		if bonus, found := bonusFor(bands, res.NetProfit); found {
			res.Bonus = bonus
			res.HasBonus = true
		}
	}

	return res, nil
}

// buildLine computes one cost line. The second return reports whether the
// line's input resolved; an unresolved line contributes exactly zero.
func (e *Engine) buildLine(spec LineSpec, agg period.Aggregate, revenue, delivery, salary float64) (model.CostLine, bool) {
	line := model.CostLine{Key: spec.Key, Label: spec.Label}

	switch spec.Source {
	case SourceFixedAmount:
		amount, ok := e.resolver.Value(spec.Param, spec.AmountColumn)
		if !ok {
			return line, false
		}
		line.Amount = amount
		return line, true

	case SourceFoodCost:
		pct := agg.FoodCostMean
		if math.IsNaN(pct) {
			// No food-cost cells in the period; data gap, not a
			// configuration problem.
			return line, true
		}
		line.Amount = revenue * (pct / spec.Divisor)
		line.Percent = pct / spec.DisplayScale
		line.HasPercent = true
		return line, true

	default: // SourcePercentParam
		pct, ok := e.resolver.Percent(spec.Param)
		if !ok && spec.AltParam != "" {
			pct, ok = e.resolver.Percent(spec.AltParam)
		}
		if !ok {
			return line, false
		}
		pct = applyCorrection(pct, spec.Correction)

		base := revenue
		switch spec.Base {
		case BaseDelivery:
			base = delivery
		case BaseSalary:
			base = salary
		}
		line.Amount = base * (pct / spec.Divisor)
		line.Percent = pct / spec.DisplayScale
		line.HasPercent = true
		return line, true
	}
}

// applyCorrection repairs percents stored at the wrong implicit scale.
// A value above 100 cannot be a real percentage of revenue here.
func applyCorrection(pct float64, c Correction) float64 {
	if pct <= 100 {
		return pct
	}
	switch c {
	case CorrectionHalve:
		return pct / 2
	case CorrectionThousandth:
		return pct / 10 / 100
	default:
		return pct
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// shareOf returns part as a percent of whole, zero when whole is zero.
func shareOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func bonusFor(bands []model.BonusBand, profit float64) (float64, bool) {
	for _, b := range bands {
		if profit >= b.Min && profit <= b.Max {
			return b.Bonus, true
		}
	}
	return 0, false
}
