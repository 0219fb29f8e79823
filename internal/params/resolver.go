// Package params resolves named configuration rows from the management
// parameter sheet.
//
// Absence is a normal outcome, not an error: every lookup returns an
// explicit ok flag and callers substitute a zero contribution plus a warning
// line in the report. Lookups are read-only and case/whitespace-insensitive
// on the row name.
package params

import (
	"math"
	"strings"

	"github.com/resto-ops/reportbot/internal/model"
	"github.com/resto-ops/reportbot/internal/normalize"
)

// Resolver answers lookups against one snapshot of the parameter table.
type Resolver struct {
	table model.Table
}

// NewResolver wraps a fetched parameter table.
func NewResolver(table model.Table) *Resolver {
	return &Resolver{table: table}
}

// nameColumn returns the first column of the table, which holds the
// free-text parameter names.
func (r *Resolver) nameColumn() (string, bool) {
	if len(r.table.Columns) == 0 {
		return "", false
	}
	return r.table.Columns[0], true
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// findRow returns the first row whose normalized name matches name exactly.
func (r *Resolver) findRow(name string) (map[string]string, bool) {
	nameCol, ok := r.nameColumn()
	if !ok {
		return nil, false
	}
	want := normalizeKey(name)
	for _, row := range r.table.Rows {
		if normalizeKey(row[nameCol]) == want {
			return row, true
		}
	}
	return nil, false
}

// Percent resolves the "Процент" column of the named row. The value is
// returned in parts of 100 as stored; callers apply any per-line rescaling.
// The second return is false when the row is absent, the column is absent,
// or the cell does not parse.
func (r *Resolver) Percent(name string) (float64, bool) {
	row, ok := r.findRow(name)
	if !ok {
		return 0, false
	}
	raw, ok := row[model.ParamColPercent]
	if !ok {
		return 0, false
	}
	v := normalize.Percent(raw)
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Value resolves an arbitrary named column of the named row as a plain
// number, used for fixed money amounts such as the management salary.
func (r *Resolver) Value(name, column string) (float64, bool) {
	row, ok := r.findRow(name)
	if !ok {
		return 0, false
	}
	raw, ok := row[column]
	if !ok {
		return 0, false
	}
	v := normalize.Number(raw)
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// BonusGrid returns the bonus bands whose row name contains the given role,
// case-insensitively. Rows with unparsable bounds are skipped.
func (r *Resolver) BonusGrid(role string) []model.BonusBand {
	nameCol, ok := r.nameColumn()
	if !ok {
		return nil
	}
	want := normalizeKey(role)
	var bands []model.BonusBand
	for _, row := range r.table.Rows {
		if !strings.Contains(normalizeKey(row[nameCol]), want) {
			continue
		}
		minV := normalize.Number(row[model.ParamColMin])
		maxV := normalize.Number(row[model.ParamColMax])
		bonus := normalize.Number(row[model.ParamColBonus])
		if math.IsNaN(minV) || math.IsNaN(maxV) || math.IsNaN(bonus) {
			continue
		}
		bands = append(bands, model.BonusBand{Min: minV, Max: maxV, Bonus: bonus})
	}
	return bands
}
