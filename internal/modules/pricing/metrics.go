package pricing

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomePriced       = "priced"
	outcomeCustomQuote  = "custom_quote"
	outcomeInvalidInput = "invalid_input"
	outcomeConfigError  = "config_error"
	outcomeError        = "error"
)

var estimatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "relo_pricing_estimates_total",
		Help: "Total number of price estimates by outcome",
	},
	[]string{"outcome"},
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomePriced
	case errors.Is(err, ErrRequiresCustomQuote):
		return outcomeCustomQuote
	case IsInputError(err):
		return outcomeInvalidInput
	case IsConfigError(err):
		return outcomeConfigError
	default:
		return outcomeError
	}
}
