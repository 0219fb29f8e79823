// Package report renders the structured computation results as chat-ready
// text. Templates mirror the messages the business is used to; every number
// comes straight from the core's contracts.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/resto-ops/reportbot/internal/model"
	"github.com/resto-ops/reportbot/internal/period"
)

// Canned no-data replies.
const (
	NoDataMonth     = "⚠️ Нет данных за текущий месяц."
	NoDataManagers  = "⚠️ Нет строк с указанными менеджерами за период."
	NoDataLatestDay = "📅 Дата: не определена\n\n⚠️ Нет доступных данных"
)

// Ruble formats a money amount with space-grouped thousands and a trailing
// ruble sign. NaN renders as an em dash.
func Ruble(val float64, decimals int) string {
	if math.IsNaN(val) {
		return "—"
	}

	neg := val < 0
	if neg {
		val = -val
	}

	s := fmt.Sprintf("%.*f", decimals, val)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(digit)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	b.WriteString("₽")
	return b.String()
}

// Daily renders the latest-day summary.
func Daily(agg period.Aggregate) string {
	manager := "—"
	if len(agg.Managers) > 0 {
		manager = agg.Managers[0]
	}

	hallShare := share(agg.HallPaySum, agg.Revenue)
	deliveryShare := share(agg.DeliverySum, agg.Revenue)

	// Sheet stores food cost at 10x scale.
	foodcost := agg.FoodCostMean / 10
	discount := agg.DiscountMean

	checkEmoji := "🙂"
	if agg.TicketMean < 1300 {
		checkEmoji = "🙁"
	}
	foodcostEmoji := "🙂"
	if foodcost > 23 {
		foodcostEmoji = "🙁"
	}

	return fmt.Sprintf(
		"📅 Дата: %s\n\n"+
			"👤 %s\n"+
			"📊 Выручка: %s (Бар: %s + Кухня: %s)\n"+
			"🧾 Ср.чек: %s %s\n"+
			"📏 Глубина: %.1f\n"+
			"🪑 ЗП зал: %s\n"+
			"📦 Доставка: %s (%.1f%%)\n"+
			"📊 Доля ЗП зала: %.1f%%\n"+
			"🍔 Фудкост: %s%% %s\n"+
			"💸 Скидка: %s%%",
		agg.Date.Format("2006-01-02"),
		manager,
		Ruble(agg.Revenue, 0), Ruble(agg.Bar, 0), Ruble(agg.Kitchen, 0),
		Ruble(agg.TicketMean, 0), checkEmoji,
		agg.DepthMean/10,
		Ruble(agg.HallPaySum, 0),
		Ruble(agg.DeliverySum, 0), deliveryShare,
		hallShare,
		pct(foodcost), foodcostEmoji,
		pct(discount),
	)
}

// Forecast renders a month rollup, projected or actual.
func Forecast(res *model.ForecastResult) string {
	var b strings.Builder

	title := "Прогноз на"
	profitLabel := "Прогнозная прибыль"
	if res.Mode == model.ModeActual {
		title = "Итоги"
		profitLabel = "Прибыль"
	}
	fmt.Fprintf(&b, "📅 %s %s %d:\n", title, res.Month, res.Year)
	fmt.Fprintf(&b, "📊 Выручка: %s\n", Ruble(res.Revenue, 0))
	fmt.Fprintf(&b, "🪑 ЗП: %s (LC: %.1f%%)\n", Ruble(res.Salary, 0), res.LaborShare)

	for _, line := range res.Lines {
		fmt.Fprintf(&b, "%s: %s (%s)\n", line.Label, Ruble(line.Amount, 0), lineDetail(line))
	}

	fmt.Fprintf(&b, "💰 %s: %s\n", profitLabel, Ruble(res.Profit, 0))
	fmt.Fprintf(&b, "🏛 УСН: %s (%s%%)\n", Ruble(res.Tax, 0), optPct(res.TaxPct, res.HasTaxPct))
	fmt.Fprintf(&b, "💵 Прибыль после УСН: %s\n", Ruble(res.NetProfit, 0))
	if res.HasBonus {
		fmt.Fprintf(&b, "🎁 Бонус управляющего: %s\n", Ruble(res.Bonus, 0))
	}

	for _, w := range res.Warnings {
		b.WriteString(w)
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

// lineDetail picks the parenthesized figure each cost line traditionally
// shows: revenue share for sheet-percent lines, the resolved percent for the
// rest, nothing for flat amounts.
func lineDetail(line model.CostLine) string {
	switch line.Key {
	case "fixed":
		return "фикс."
	case "delivery", "payroll_tax":
		return optPct(line.Percent, line.HasPercent) + "%"
	case "acquiring", "bank", "foodcost":
		if !line.HasPercent {
			return "-%"
		}
		return fmt.Sprintf("%.1f%%", line.Percent)
	default:
		return fmt.Sprintf("%.1f%%", line.Share)
	}
}

// Managers renders the ranking, best first, with the winner called out.
func Managers(scores []model.ManagerScore, month string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Период: %s\n\n", month)

	for _, s := range scores {
		fmt.Fprintf(&b,
			"👤 %s\n"+
				"📊 Выручка: %s\n"+
				"🧾 Ср. чек: %s\n"+
				"📏 Глубина: %.1f\n"+
				"💸 Скидка: %s%%\n\n",
			s.Manager,
			Ruble(s.Revenue, 0),
			Ruble(s.AvgTicket, 0),
			s.Depth,
			pct(s.DiscountPct),
		)
	}

	fmt.Fprintf(&b, "🏆 Победитель: %s", scores[0].Manager)
	return b.String()
}

func share(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// pct prints a percent value with one decimal, or a dash when missing.
func pct(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.1f", v)
}

func optPct(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%g", v)
}
