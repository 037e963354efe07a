package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFare(t *testing.T) {
	amount, ok := FareFromInt(650).Amount()
	assert.True(t, ok)
	assert.True(t, amount.Equal(decimal.NewFromInt(650)))

	_, ok = CustomQuote.Amount()
	assert.False(t, ok)
	assert.True(t, CustomQuote.NeedsCustomQuote())
	assert.False(t, Fare{}.NeedsCustomQuote())
	assert.Equal(t, "custom-quote", CustomQuote.String())
}

func TestFare_JSON(t *testing.T) {
	b, err := json.Marshal(CustomQuote)
	require.NoError(t, err)
	assert.JSONEq(t, `{"customQuote":true}`, string(b))

	var f Fare
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"1400.50"}`), &f))
	amount, ok := f.Amount()
	assert.True(t, ok)
	assert.Equal(t, "1400.5", amount.String())

	require.NoError(t, json.Unmarshal([]byte(`{"customQuote":true}`), &f))
	assert.True(t, f.NeedsCustomQuote())

	assert.Error(t, json.Unmarshal([]byte(`{}`), &f))
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"1","customQuote":true}`), &f))
}
