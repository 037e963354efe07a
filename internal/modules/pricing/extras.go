// README: Extra service pricing driven by service definitions.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ExtrasCalculator prices the optional services of a request from their definitions.
// It is built once per set of definitions and is safe for concurrent use.
type ExtrasCalculator struct {
	defs map[ExtraCode]ExtraServiceDefinition
}

// NewExtrasCalculator indexes defs by code. Every code in AllExtras must be defined
// with a known pricing model and a non-negative price.
func NewExtrasCalculator(defs []ExtraServiceDefinition) (*ExtrasCalculator, error) {
	byCode := make(map[ExtraCode]ExtraServiceDefinition, len(defs))
	for _, d := range defs {
		if !d.Model.Valid() {
			return nil, fmt.Errorf("%w: %s has pricing model %q", ErrInvalidExtraDefinition, d.Code, d.Model)
		}
		if d.Price.IsNegative() {
			return nil, fmt.Errorf("%w: %s has negative price", ErrInvalidExtraDefinition, d.Code)
		}
		byCode[d.Code] = d
	}
	for _, code := range AllExtras {
		if _, ok := byCode[code]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrExtraDefinitionMissing, code)
		}
	}
	return &ExtrasCalculator{defs: byCode}, nil
}

// usage is how much of one extra a selection asks for.
type usage struct {
	enabled  bool
	quantity int64
	// declared is the value a percentage-priced extra is applied to.
	declared decimal.NullDecimal
}

func selectionUsage(code ExtraCode, sel ExtraServiceSelection) usage {
	switch code {
	case ExtraLoading:
		return usage{enabled: sel.Loading, quantity: int64(max(1, sel.LoadingPeople))}
	case ExtraStairs:
		return usage{enabled: sel.Stairs > 0, quantity: int64(sel.Stairs)}
	case ExtraPacking:
		return usage{enabled: sel.Packing, quantity: 1}
	case ExtraCleaning:
		return usage{enabled: sel.Cleaning, quantity: 1}
	case ExtraExpress:
		return usage{enabled: sel.Express, quantity: 1}
	case ExtraInsurance:
		return usage{enabled: sel.Insurance, quantity: 1, declared: sel.InsuranceValue}
	case ExtraWaitingTime:
		return usage{enabled: sel.WaitingTime > 0, quantity: int64(sel.WaitingTime)}
	}
	return usage{}
}

// Cost prices a single extra for the selection. Disabled extras cost zero; a
// percentage extra without a positive declared value also costs zero.
func (c *ExtrasCalculator) Cost(code ExtraCode, sel ExtraServiceSelection) decimal.Decimal {
	def, ok := c.defs[code]
	u := selectionUsage(code, sel)
	if !ok || !u.enabled {
		return decimal.Zero
	}
	switch def.Model {
	case ModelFlat:
		return def.Price
	case ModelPerUnit:
		return def.Price.Mul(decimal.NewFromInt(u.quantity))
	case ModelPercentage:
		if !u.declared.Valid || !u.declared.Decimal.IsPositive() {
			return decimal.Zero
		}
		return u.declared.Decimal.Mul(def.Price).Div(hundred).Round(2)
	}
	return decimal.Zero
}

// Calculate prices every recognised extra and returns the itemised costs and their sum.
// The map always carries all codes in AllExtras, with zero for unselected ones.
func (c *ExtrasCalculator) Calculate(sel ExtraServiceSelection) (map[ExtraCode]decimal.Decimal, decimal.Decimal) {
	costs := make(map[ExtraCode]decimal.Decimal, len(AllExtras))
	total := decimal.Zero
	for _, code := range AllExtras {
		cost := c.Cost(code, sel)
		costs[code] = cost
		total = total.Add(cost)
	}
	return costs, total
}
