package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultExtras(t *testing.T) *ExtrasCalculator {
	t.Helper()
	calc, err := NewExtrasCalculator(DefaultExtraServices())
	require.NoError(t, err)
	return calc
}

func TestExtrasCalculator_Cost(t *testing.T) {
	calc := newDefaultExtras(t)
	declared := func(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromInt(v)) }

	tests := []struct {
		name string
		code ExtraCode
		sel  ExtraServiceSelection
		want string
	}{
		{"loading for two people", ExtraLoading, ExtraServiceSelection{Loading: true, LoadingPeople: 2}, "700"},
		{"loading defaults to one person", ExtraLoading, ExtraServiceSelection{Loading: true}, "350"},
		{"loading people ignored when disabled", ExtraLoading, ExtraServiceSelection{LoadingPeople: 4}, "0"},
		{"negative loading people clamp to one", ExtraLoading, ExtraServiceSelection{Loading: true, LoadingPeople: -3}, "350"},
		{"two flights of stairs", ExtraStairs, ExtraServiceSelection{Stairs: 2}, "300"},
		{"negative stairs", ExtraStairs, ExtraServiceSelection{Stairs: -2}, "0"},
		{"packing", ExtraPacking, ExtraServiceSelection{Packing: true}, "200"},
		{"cleaning", ExtraCleaning, ExtraServiceSelection{Cleaning: true}, "300"},
		{"express", ExtraExpress, ExtraServiceSelection{Express: true}, "500"},
		{"insurance on declared value", ExtraInsurance, ExtraServiceSelection{Insurance: true, InsuranceValue: declared(10000)}, "500"},
		{"insurance rounds to cents", ExtraInsurance, ExtraServiceSelection{Insurance: true, InsuranceValue: decimal.NewNullDecimal(decimal.RequireFromString("333.33"))}, "16.67"},
		{"insurance without value", ExtraInsurance, ExtraServiceSelection{Insurance: true}, "0"},
		{"insurance with zero value", ExtraInsurance, ExtraServiceSelection{Insurance: true, InsuranceValue: declared(0)}, "0"},
		{"insurance value without flag", ExtraInsurance, ExtraServiceSelection{InsuranceValue: declared(10000)}, "0"},
		{"three waiting blocks", ExtraWaitingTime, ExtraServiceSelection{WaitingTime: 3}, "300"},
		{"nothing selected", ExtraExpress, ExtraServiceSelection{}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Cost(tt.code, tt.sel)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Cost(%s) = %s, want %s", tt.code, got, tt.want)
			}
		})
	}
}

func TestExtrasCalculator_Calculate(t *testing.T) {
	calc := newDefaultExtras(t)

	costs, total := calc.Calculate(ExtraServiceSelection{
		Loading:       true,
		LoadingPeople: 2,
		Stairs:        2,
		Packing:       true,
	})
	assert.True(t, total.Equal(decimal.NewFromInt(1200)))
	assert.Len(t, costs, len(AllExtras))
	for _, code := range AllExtras {
		_, ok := costs[code]
		assert.True(t, ok, "missing %s", code)
	}

	costs, total = calc.Calculate(ExtraServiceSelection{})
	assert.True(t, total.IsZero())
	assert.Len(t, costs, len(AllExtras))
}

func TestNewExtrasCalculator_Invalid(t *testing.T) {
	t.Run("missing definition", func(t *testing.T) {
		_, err := NewExtrasCalculator(DefaultExtraServices()[1:])
		assert.ErrorIs(t, err, ErrExtraDefinitionMissing)
	})

	t.Run("unknown model", func(t *testing.T) {
		defs := DefaultExtraServices()
		defs[0].Model = "tiered"
		_, err := NewExtrasCalculator(defs)
		assert.ErrorIs(t, err, ErrInvalidExtraDefinition)
	})

	t.Run("negative price", func(t *testing.T) {
		defs := DefaultExtraServices()
		defs[2].Price = decimal.NewFromInt(-1)
		_, err := NewExtrasCalculator(defs)
		assert.ErrorIs(t, err, ErrInvalidExtraDefinition)
	})
}

func TestExtrasCalculator_RepricedDefinitions(t *testing.T) {
	defs := DefaultExtraServices()
	for i := range defs {
		if defs[i].Code == ExtraPacking {
			defs[i].Model = ModelPerUnit
			defs[i].Price = decimal.NewFromInt(50)
		}
	}
	calc, err := NewExtrasCalculator(defs)
	require.NoError(t, err)
	assert.True(t, calc.Cost(ExtraPacking, ExtraServiceSelection{Packing: true}).Equal(decimal.NewFromInt(50)))
}
