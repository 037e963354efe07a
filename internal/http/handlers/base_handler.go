// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"relo/internal/modules/pricing"
)

type errorResponse struct {
	Error string `json:"error"`
}

type customQuoteResponse struct {
	Error               string `json:"error"`
	RequiresCustomQuote bool   `json:"requiresCustomQuote"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writePricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrRequiresCustomQuote):
		writeJSON(c, http.StatusBadRequest, customQuoteResponse{
			Error:               "this trip requires a custom quote",
			RequiresCustomQuote: true,
		})
	case pricing.IsInputError(err):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrNoRate):
		writeError(c, http.StatusNotFound, err.Error())
	case pricing.IsConfigError(err):
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "pricing configuration error")
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
