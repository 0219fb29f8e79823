package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/resto-ops/reportbot/internal/common"
	"github.com/resto-ops/reportbot/internal/model"
	"github.com/resto-ops/reportbot/internal/params"
	"github.com/resto-ops/reportbot/internal/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deliveryCol = "Выручка доставка"

// juneDataset builds one row per day of June 2026 (30 days) with the given
// per-day figures. NaN means the cell is missing.
func juneDataset(bar, kitchen, salary, foodcost, delivery float64) model.Dataset {
	ds := model.Dataset{
		Columns: []string{model.ColDate, model.ColBar, model.ColKitchen, deliveryCol},
	}
	for d := 1; d <= 30; d++ {
		ds.Records = append(ds.Records, model.Record{
			Date:        time.Date(2026, time.June, d, 0, 0, 0, 0, time.UTC),
			Bar:         bar,
			Kitchen:     kitchen,
			Salary:      salary,
			HallPay:     math.NaN(),
			AvgTicket:   math.NaN(),
			Depth:       math.NaN(),
			FoodCostPct: foodcost,
			DiscountPct: math.NaN(),
			Extra:       map[string]float64{deliveryCol: delivery},
		})
	}
	return ds
}

func juneAggregate(t *testing.T, ds model.Dataset) period.Aggregate {
	t.Helper()
	agg, err := period.Month(ds, 2026, time.June)
	require.NoError(t, err)
	return agg
}

func resolverWith(rows ...map[string]string) *params.Resolver {
	return params.NewResolver(model.Table{
		Columns: []string{"Статья", model.ParamColPercent, model.ParamColAmount},
		Rows:    rows,
	})
}

func emptyResolver() *params.Resolver {
	return params.NewResolver(model.Table{})
}

func TestBuildNoParametersResolvable(t *testing.T) {
	// 500 bar + 500 kitchen per day over a 30-day month, nothing in the
	// management sheet: projected revenue only, every cost line zero.
	agg := juneAggregate(t, juneDataset(500, 500, math.NaN(), math.NaN(), math.NaN()))

	res, err := New(emptyResolver()).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	assert.Equal(t, 30, res.Days)
	assert.InDelta(t, 30000, res.Revenue, 1e-9)
	assert.InDelta(t, 0, res.Salary, 1e-9)
	assert.InDelta(t, 0, res.TotalCost, 1e-9)
	assert.InDelta(t, 30000, res.Profit, 1e-9)
	assert.InDelta(t, 30000, res.NetProfit, 1e-9)
	assert.Len(t, res.Warnings, 10, "one warning per unresolvable parameter")

	for _, line := range res.Lines {
		assert.InDelta(t, 0, line.Amount, 1e-9, "line %s must contribute zero", line.Key)
		assert.InDelta(t, 0, line.Share, 1e-9)
	}
}

func TestBuildLineOrder(t *testing.T) {
	agg := juneAggregate(t, juneDataset(500, 500, math.NaN(), math.NaN(), math.NaN()))

	res, err := New(emptyResolver()).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	var keys []string
	for _, line := range res.Lines {
		keys = append(keys, line.Key)
	}
	assert.Equal(t, []string{
		"foodcost", "franchise", "writeoff", "overhead", "delivery",
		"acquiring", "bank", "fixed", "payroll_tax",
	}, keys)
}

func TestBuildFranchiseShare(t *testing.T) {
	agg := juneAggregate(t, juneDataset(500, 500, math.NaN(), math.NaN(), math.NaN()))
	resolver := resolverWith(
		map[string]string{"Статья": "Франшиза", model.ParamColPercent: "5"},
	)

	res, err := New(resolver).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	franchise := lineByKey(t, res, "franchise")
	assert.InDelta(t, 1500, franchise.Amount, 1e-9)
	assert.InDelta(t, 5.0, franchise.Share, 1e-9)
	assert.True(t, franchise.HasPercent)
	assert.Len(t, res.Warnings, 9)
}

func TestBuildDeliveryPercentCorrection(t *testing.T) {
	// 200 delivery revenue per day. A stored percent of 150 cannot be a
	// real fraction of revenue and is halved before use.
	agg := juneAggregate(t, juneDataset(500, 500, math.NaN(), math.NaN(), 200))
	resolver := resolverWith(
		map[string]string{"Статья": "Процент доставка", model.ParamColPercent: "150"},
	)

	res, err := New(resolver).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	delivery := lineByKey(t, res, "delivery")
	assert.InDelta(t, 75, delivery.Percent, 1e-9)
	assert.InDelta(t, 6000*0.75, delivery.Amount, 1e-9)
}

func TestBuildAcquiringCorrection(t *testing.T) {
	agg := juneAggregate(t, juneDataset(500, 500, math.NaN(), math.NaN(), math.NaN()))
	resolver := resolverWith(
		map[string]string{"Статья": "Эквайринг", model.ParamColPercent: "250"},
	)

	res, err := New(resolver).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	acquiring := lineByKey(t, res, "acquiring")
	// 250 -> 0.25 after the /10 then /100 repair, applied at /1000.
	assert.InDelta(t, 30000*(0.25/1000), acquiring.Amount, 1e-9)
}

func TestBuildFoodCostFromAggregate(t *testing.T) {
	agg := juneAggregate(t, juneDataset(500, 500, math.NaN(), 235, math.NaN()))

	res, err := New(emptyResolver()).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	foodcost := lineByKey(t, res, "foodcost")
	assert.InDelta(t, 30000*235/1000, foodcost.Amount, 1e-9)
	assert.InDelta(t, 23.5, foodcost.Percent, 1e-9)
	assert.Len(t, res.Warnings, 10, "food cost comes from the dataset, not a parameter")
}

func TestBuildOverheadFallbackName(t *testing.T) {
	agg := juneAggregate(t, juneDataset(500, 500, math.NaN(), math.NaN(), math.NaN()))
	resolver := resolverWith(
		map[string]string{"Статья": "Хозы", model.ParamColPercent: "2"},
	)

	res, err := New(resolver).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	overhead := lineByKey(t, res, "overhead")
	assert.InDelta(t, 600, overhead.Amount, 1e-9)
	assert.Len(t, res.Warnings, 9)
}

func TestBuildActualModeUsesSums(t *testing.T) {
	agg := juneAggregate(t, juneDataset(500, 500, 1000, math.NaN(), math.NaN()))
	resolver := resolverWith(
		map[string]string{"Статья": "ЗП упр", model.ParamColAmount: "150000"},
		map[string]string{"Статья": "Постоянные", model.ParamColAmount: "10000"},
		map[string]string{"Статья": "Налоги ЗП", model.ParamColPercent: "30"},
	)

	res, err := New(resolver).Build(agg, model.ModeActual)
	require.NoError(t, err)

	assert.InDelta(t, 30000, res.Revenue, 1e-9)
	assert.InDelta(t, 30*1000+150000, res.Salary, 1e-9)

	payroll := lineByKey(t, res, "payroll_tax")
	assert.InDelta(t, res.Salary*0.30, payroll.Amount, 1e-9)

	fixed := lineByKey(t, res, "fixed")
	assert.InDelta(t, 10000, fixed.Amount, 1e-9)

	assert.InDelta(t, res.Salary+payroll.Amount+fixed.Amount, res.TotalCost, 1e-9)
	assert.InDelta(t, res.Revenue-res.TotalCost, res.Profit, 1e-9)
}

func TestBuildSimplifiedTax(t *testing.T) {
	agg := juneAggregate(t, juneDataset(500, 500, math.NaN(), math.NaN(), math.NaN()))
	resolver := resolverWith(
		map[string]string{"Статья": "УСН", model.ParamColPercent: "6"},
	)

	res, err := New(resolver).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	require.True(t, res.HasTaxPct)
	assert.InDelta(t, 6, res.TaxPct, 1e-9)
	assert.InDelta(t, 30000*0.06, res.Tax, 1e-9)
	assert.InDelta(t, res.Profit-res.Tax, res.NetProfit, 1e-9)
}

func TestBuildZeroRevenueSharesAreZero(t *testing.T) {
	agg := juneAggregate(t, juneDataset(0, 0, math.NaN(), math.NaN(), math.NaN()))
	resolver := resolverWith(
		map[string]string{"Статья": "Франшиза", model.ParamColPercent: "5"},
	)

	res, err := New(resolver).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	assert.InDelta(t, 0, res.Revenue, 1e-9)
	assert.InDelta(t, 0, res.LaborShare, 1e-9)
	for _, line := range res.Lines {
		assert.False(t, math.IsNaN(line.Share), "line %s share must not be NaN", line.Key)
		assert.False(t, math.IsInf(line.Share, 0), "line %s share must be finite", line.Key)
		assert.InDelta(t, 0, line.Share, 1e-9)
	}
}

func TestBuildMissingDeliveryColumn(t *testing.T) {
	ds := juneDataset(500, 500, math.NaN(), math.NaN(), math.NaN())
	ds.Columns = []string{model.ColDate, model.ColBar, model.ColKitchen}
	agg := juneAggregate(t, ds)

	_, err := New(emptyResolver()).Build(agg, model.ModeProjected)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingColumn)
}

func TestBuildIsIdempotent(t *testing.T) {
	agg := juneAggregate(t, juneDataset(480, 520, 1500, 230, 180))
	resolver := resolverWith(
		map[string]string{"Статья": "Франшиза", model.ParamColPercent: "5"},
		map[string]string{"Статья": "УСН", model.ParamColPercent: "6"},
		map[string]string{"Статья": "ЗП упр", model.ParamColAmount: "150000"},
	)
	engine := New(resolver)

	first, err := engine.Build(agg, model.ModeProjected)
	require.NoError(t, err)
	second, err := engine.Build(agg, model.ModeProjected)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildManagerBonus(t *testing.T) {
	agg := juneAggregate(t, juneDataset(500, 500, math.NaN(), math.NaN(), math.NaN()))
	resolver := params.NewResolver(model.Table{
		Columns: []string{"Статья", model.ParamColPercent, model.ParamColAmount,
			model.ParamColMin, model.ParamColMax, model.ParamColBonus},
		Rows: []map[string]string{
			{"Статья": "Бонус управляющий", model.ParamColMin: "0",
				model.ParamColMax: "100000", model.ParamColBonus: "15000"},
		},
	})

	res, err := New(resolver).Build(agg, model.ModeProjected)
	require.NoError(t, err)

	// Net profit 30000 falls inside the 0..100000 band.
	require.True(t, res.HasBonus)
	assert.InDelta(t, 15000, res.Bonus, 1e-9)
}

func lineByKey(t *testing.T, res *model.ForecastResult, key string) model.CostLine {
	t.Helper()
	for _, line := range res.Lines {
		if line.Key == key {
			return line
		}
	}
	t.Fatalf("line %s not found", key)
	return model.CostLine{}
}
