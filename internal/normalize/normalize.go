// Package normalize converts raw spreadsheet cells into typed records.
//
// The operational sheet is hand-maintained: numbers arrive with comma
// decimal separators, currency signs, thin spaces and stray text; percent
// columns may or may not carry a trailing "%". Normalization is lossy by
// design: an unparsable numeric cell becomes NaN (excluded from sums and
// means downstream), an unparsable date drops the whole row.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/resto-ops/reportbot/internal/model"
)

// dateLayouts are tried in order. Day precedes month throughout, matching
// how the sheet is filled in.
var dateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"02.01.06",
}

// Number parses a locale-formatted numeric cell. Comma decimal separators
// become periods, every character that is not a digit or a period is
// stripped, and the remainder is parsed. Returns NaN when nothing parses.
func Number(raw string) float64 {
	s := strings.ReplaceAll(raw, ",", ".")
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Percent parses a percent-bearing cell: the "%" sign is stripped, comma
// becomes period, whitespace is trimmed. The result is kept in parts of 100
// ("23,5%" parses to 23.5). Returns NaN when nothing parses.
func Percent(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "%", ""), ",", "."))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Date parses a date cell with day-before-month precedence.
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Records converts a raw table into a normalized dataset. The input table is
// never modified; every cell is copied before cleansing so repeated report
// types can read the same snapshot. Rows whose date fails to parse are
// discarded, since the date is the partition key for every aggregation.
func Records(t model.Table) model.Dataset {
	ds := model.Dataset{
		Columns: append([]string(nil), t.Columns...),
		Records: make([]model.Record, 0, len(t.Rows)),
	}

	for _, row := range t.Rows {
		date, ok := Date(row[model.ColDate])
		if !ok {
			continue
		}

		rec := model.Record{
			Date:        date,
			Manager:     strings.TrimSpace(row[model.ColManager]),
			Bar:         Number(row[model.ColBar]),
			Kitchen:     Number(row[model.ColKitchen]),
			Salary:      Number(row[model.ColSalary]),
			HallPay:     Number(row[model.ColHallPay]),
			AvgTicket:   Number(row[model.ColAvgTicket]),
			Depth:       Number(row[model.ColDepth]),
			FoodCostPct: Percent(row[model.ColFoodCost]),
			DiscountPct: Percent(row[model.ColDiscount]),
			Extra:       make(map[string]float64),
		}

		for _, col := range t.Columns {
			switch col {
			case model.ColDate, model.ColManager, model.ColBar, model.ColKitchen,
				model.ColSalary, model.ColHallPay, model.ColAvgTicket,
				model.ColDepth, model.ColFoodCost, model.ColDiscount:
				continue
			}
			rec.Extra[col] = Number(row[col])
		}

		ds.Records = append(ds.Records, rec)
	}

	return ds
}
