package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Fare is the base fare of a rate row: either a priced amount or a marker that the
// trip has to be quoted by a person. The zero value is a priced fare of 0.
type Fare struct {
	amount      decimal.Decimal
	customQuote bool
}

// CustomQuote marks a rate row that cannot be priced automatically.
var CustomQuote = Fare{customQuote: true}

func FareOf(amount decimal.Decimal) Fare {
	return Fare{amount: amount}
}

func FareFromInt(amount int64) Fare {
	return Fare{amount: decimal.NewFromInt(amount)}
}

// Amount returns the priced amount and false when the fare needs a custom quote.
func (f Fare) Amount() (decimal.Decimal, bool) {
	if f.customQuote {
		return decimal.Zero, false
	}
	return f.amount, true
}

func (f Fare) NeedsCustomQuote() bool {
	return f.customQuote
}

func (f Fare) String() string {
	if f.customQuote {
		return "custom-quote"
	}
	return f.amount.String()
}

type fareJSON struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	CustomQuote bool             `json:"customQuote,omitempty"`
}

func (f Fare) MarshalJSON() ([]byte, error) {
	if f.customQuote {
		return json.Marshal(fareJSON{CustomQuote: true})
	}
	amount := f.amount
	return json.Marshal(fareJSON{Amount: &amount})
}

func (f *Fare) UnmarshalJSON(data []byte) error {
	var v fareJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch {
	case v.CustomQuote && v.Amount != nil:
		return fmt.Errorf("fare cannot carry both an amount and a custom quote marker")
	case v.CustomQuote:
		*f = CustomQuote
	case v.Amount != nil:
		*f = FareOf(*v.Amount)
	default:
		return fmt.Errorf("fare needs an amount or a custom quote marker")
	}
	return nil
}
