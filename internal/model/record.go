// Package model defines the domain types shared across the application.
package model

import (
	"math"
	"strings"
	"time"
)

// Column headers of the operational sheet. The sheet is maintained by the
// business in Russian; headers are fixed strings except the delivery revenue
// column, which drifts between revisions and is located by substring.
const (
	ColDate      = "Дата"
	ColBar       = "Выручка бар"
	ColKitchen   = "Выручка кухня"
	ColSalary    = "Начислено"
	ColHallPay   = "Зал начислено"
	ColAvgTicket = "Ср. чек общий"
	ColDepth     = "Ср. поз чек общий"
	ColFoodCost  = "Фудкост общий, %"
	ColDiscount  = "Скидка общий, %"
	ColManager   = "Менеджер"

	// DeliverySubstring matches any spelling of the delivery revenue column.
	DeliverySubstring = "достав"
)

// Columns of the management parameter sheet.
const (
	ParamColPercent = "Процент"
	ParamColAmount  = "Сумма"
	ParamColMin     = "Минимум"
	ParamColMax     = "Максимум"
	ParamColBonus   = "Бонус"
)

// Table is a raw tabular snapshot as fetched from a spreadsheet: ordered
// column names and one string cell per column per row. Missing cells are
// empty strings.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Record is one normalized operational row (a business day/shift). Numeric
// fields hold NaN when the source cell was absent or unparsable; Date always
// parses (rows with bad dates are dropped during normalization).
type Record struct {
	Date        time.Time
	Manager     string
	Bar         float64
	Kitchen     float64
	Salary      float64
	HallPay     float64
	AvgTicket   float64
	Depth       float64 // raw sheet value, stored at 10x scale
	FoodCostPct float64 // parts of 100
	DiscountPct float64 // parts of 100
	Extra       map[string]float64
}

// Revenue returns bar + kitchen revenue for the row, treating missing
// components as zero.
func (r Record) Revenue() float64 {
	return zeroIfNaN(r.Bar) + zeroIfNaN(r.Kitchen)
}

// Dataset is the normalized operational table. Columns preserves the source
// header order so columns beyond the fixed set can still be located.
type Dataset struct {
	Columns []string
	Records []Record
}

// DeliveryColumn locates the delivery revenue column by case-insensitive
// substring match. The second return is false when no column matches.
func (d Dataset) DeliveryColumn() (string, bool) {
	for _, col := range d.Columns {
		if strings.Contains(strings.ToLower(col), DeliverySubstring) {
			return col, true
		}
	}
	return "", false
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
