package forecast

import "github.com/resto-ops/reportbot/internal/model"

// Parameter row names in the management sheet. Free text, matched
// case/whitespace-insensitively by the resolver.
const (
	ParamManagementSalary = "ЗП упр"
	ParamFranchise        = "Франшиза"
	ParamWriteoff         = "Процент списания"
	ParamOverhead         = "Процент хозы"
	ParamOverheadAlt      = "Хозы"
	ParamDelivery         = "Процент доставка"
	ParamAcquiring        = "Эквайринг"
	ParamBank             = "Комиссия Банка"
	ParamFixedCosts       = "Постоянные"
	ParamPayrollTax       = "Налоги ЗП"
	ParamSimplifiedTax    = "УСН"
)

// Source says where a cost line's input number comes from.
type Source int

const (
	// SourcePercentParam reads the "Процент" column of a parameter row.
	SourcePercentParam Source = iota
	// SourceFoodCost uses the period's mean food-cost percent.
	SourceFoodCost
	// SourceFixedAmount reads a flat money amount from a parameter row.
	SourceFixedAmount
)

// Base says which money figure a percent line applies to.
type Base int

const (
	BaseRevenue Base = iota
	BaseDelivery
	BaseSalary
)

// Correction is a unit-repair heuristic applied when a resolved percent
// reads above 100: the management sheet stores some percentages in
// inconsistent implicit scales, and the repair differs per line.
type Correction int

const (
	CorrectionNone Correction = iota
	// CorrectionHalve divides the resolved percent by 2.
	CorrectionHalve
	// CorrectionThousandth divides the resolved percent by 10 and then
	// by 100.
	CorrectionThousandth
)

// LineSpec configures one cost line: where its input comes from, what it
// applies to, and every unit-scaling quirk it carries. All scaling lives
// here, never inline in the engine.
type LineSpec struct {
	Key          string
	Label        string
	Source       Source
	Param        string
	AltParam     string // fallback row name, tried when Param is absent
	AmountColumn string // column for SourceFixedAmount
	Base         Base
	Divisor      float64 // percent divisor in the amount formula
	Correction   Correction
	DisplayScale float64 // divisor applied to the percent for display
	Warning      string  // report warning when the parameter is missing
}

// Lines returns the cost-line table in report order. The ÷100 vs ÷1000
// divisors and the >100 corrections reflect the implicit scales of the real
// management sheet; validate against the sheet before changing them.
func Lines() []LineSpec {
	return []LineSpec{
		{
			Key:          "foodcost",
			Label:        "🍔 Фудкост",
			Source:       SourceFoodCost,
			Base:         BaseRevenue,
			Divisor:      1000,
			DisplayScale: 10,
		},
		{
			Key:          "franchise",
			Label:        "💼 Франшиза",
			Source:       SourcePercentParam,
			Param:        ParamFranchise,
			Base:         BaseRevenue,
			Divisor:      100,
			DisplayScale: 1,
			Warning:      "❗ Не удалось получить процент по франшизе.",
		},
		{
			Key:          "writeoff",
			Label:        "📉 Списание",
			Source:       SourcePercentParam,
			Param:        ParamWriteoff,
			Base:         BaseRevenue,
			Divisor:      1000,
			DisplayScale: 10,
			Warning:      "❗ Не удалось получить процент списания.",
		},
		{
			Key:          "overhead",
			Label:        "🧹 Хозы",
			Source:       SourcePercentParam,
			Param:        ParamOverhead,
			AltParam:     ParamOverheadAlt,
			Base:         BaseRevenue,
			Divisor:      100,
			DisplayScale: 1,
			Warning:      "❗ Не удалось получить процент хозрасходов.",
		},
		{
			Key:          "delivery",
			Label:        "🚚 Доставка",
			Source:       SourcePercentParam,
			Param:        ParamDelivery,
			Base:         BaseDelivery,
			Divisor:      100,
			Correction:   CorrectionHalve,
			DisplayScale: 1,
			Warning:      "❗ Не удалось получить процент по доставке.",
		},
		{
			Key:          "acquiring",
			Label:        "🏦 Эквайринг",
			Source:       SourcePercentParam,
			Param:        ParamAcquiring,
			Base:         BaseRevenue,
			Divisor:      1000,
			Correction:   CorrectionThousandth,
			DisplayScale: 10,
			Warning:      "❗ Не удалось получить процент эквайринга.",
		},
		{
			Key:          "bank",
			Label:        "💳 Комиссия банка",
			Source:       SourcePercentParam,
			Param:        ParamBank,
			Base:         BaseRevenue,
			Divisor:      1000,
			Correction:   CorrectionThousandth,
			DisplayScale: 10,
			Warning:      "❗ Не удалось получить процент комиссии банка.",
		},
		{
			Key:          "fixed",
			Label:        "🧱 Постоянные",
			Source:       SourceFixedAmount,
			Param:        ParamFixedCosts,
			AmountColumn: model.ParamColAmount,
			Warning:      "❗ Не удалось получить значение постоянных расходов.",
		},
		{
			Key:          "payroll_tax",
			Label:        "🧾 Налоги на ЗП",
			Source:       SourcePercentParam,
			Param:        ParamPayrollTax,
			Base:         BaseSalary,
			Divisor:      100,
			DisplayScale: 1,
			Warning:      "❗ Не удалось получить процент по налогам ЗП.",
		},
	}
}
