package params

import (
	"testing"

	"github.com/resto-ops/reportbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramTable(rows ...map[string]string) model.Table {
	return model.Table{
		Columns: []string{"Статья", model.ParamColPercent, model.ParamColAmount,
			model.ParamColMin, model.ParamColMax, model.ParamColBonus},
		Rows: rows,
	}
}

func TestResolverPercent(t *testing.T) {
	resolver := NewResolver(paramTable(
		map[string]string{"Статья": "Франшиза", model.ParamColPercent: "5"},
		map[string]string{"Статья": "  Эквайринг  ", model.ParamColPercent: "3,2%"},
		map[string]string{"Статья": "УСН", model.ParamColPercent: "шесть"},
	))

	tests := []struct {
		name   string
		lookup string
		want   float64
		ok     bool
	}{
		{name: "plain value", lookup: "Франшиза", want: 5, ok: true},
		{name: "case insensitive", lookup: "франшиза", want: 5, ok: true},
		{name: "padded lookup", lookup: " ФРАНШИЗА ", want: 5, ok: true},
		{name: "padded row with formatted percent", lookup: "эквайринг", want: 3.2, ok: true},
		{name: "unparsable cell", lookup: "УСН", ok: false},
		{name: "absent row", lookup: "Аренда", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolver.Percent(tt.lookup)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestResolverValue(t *testing.T) {
	resolver := NewResolver(paramTable(
		map[string]string{"Статья": "ЗП упр", model.ParamColAmount: "150 000"},
		map[string]string{"Статья": "Постоянные", model.ParamColAmount: ""},
	))

	v, ok := resolver.Value("зп упр", model.ParamColAmount)
	require.True(t, ok)
	assert.InDelta(t, 150000, v, 1e-9)

	_, ok = resolver.Value("Постоянные", model.ParamColAmount)
	assert.False(t, ok, "empty cell must resolve to absent")

	_, ok = resolver.Value("ЗП упр", "Нет такого столбца")
	assert.False(t, ok)
}

func TestResolverEmptyTable(t *testing.T) {
	resolver := NewResolver(model.Table{})

	_, ok := resolver.Percent("Франшиза")
	assert.False(t, ok)

	_, ok = resolver.Value("ЗП упр", model.ParamColAmount)
	assert.False(t, ok)
}

func TestResolverBonusGrid(t *testing.T) {
	resolver := NewResolver(paramTable(
		map[string]string{"Статья": "Бонус управляющий 1", model.ParamColMin: "0", model.ParamColMax: "500000", model.ParamColBonus: "10000"},
		map[string]string{"Статья": "Бонус управляющий 2", model.ParamColMin: "500001", model.ParamColMax: "1000000", model.ParamColBonus: "25000"},
		map[string]string{"Статья": "Бонус управляющий 3", model.ParamColMin: "?", model.ParamColMax: "2000000", model.ParamColBonus: "50000"},
		map[string]string{"Статья": "Франшиза", model.ParamColPercent: "5"},
	))

	bands := resolver.BonusGrid("управляющ")
	require.Len(t, bands, 2, "unparsable band is skipped, unrelated rows too")
	assert.InDelta(t, 10000, bands[0].Bonus, 1e-9)
	assert.InDelta(t, 25000, bands[1].Bonus, 1e-9)
}
