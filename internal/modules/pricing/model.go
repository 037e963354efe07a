// README: Pricing reference data (vehicle classes, distance bands, rates, extras) and estimate types.
package pricing

import (
	"github.com/shopspring/decimal"

	"relo/internal/types"
)

type VehicleClass struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Capacity     string `json:"capacity"`
	MaxPayloadKg int    `json:"maxPayloadKg"`
	Rank         int    `json:"rank"`
}

// DistanceBand covers [MinKm, MaxKm]. A nil MaxKm means the band has no upper bound.
type DistanceBand struct {
	ID    string   `json:"id"`
	MinKm float64  `json:"minKm"`
	MaxKm *float64 `json:"maxKm"`
	Label string   `json:"label"`
}

// Contains reports whether d falls inside the band. Both bounds are inclusive.
func (b DistanceBand) Contains(d float64) bool {
	if d < b.MinKm {
		return false
	}
	return b.MaxKm == nil || d <= *b.MaxKm
}

type PricingRate struct {
	ID             string `json:"id"`
	VehicleClassID string `json:"vehicleClassId"`
	DistanceBandID string `json:"distanceBandId"`
	Fare           Fare   `json:"fare"`
}

type PricingModel string

const (
	ModelFlat       PricingModel = "flat"
	ModelPerUnit    PricingModel = "per_unit"
	ModelPercentage PricingModel = "percentage"
)

func (m PricingModel) Valid() bool {
	switch m {
	case ModelFlat, ModelPerUnit, ModelPercentage:
		return true
	}
	return false
}

// ExtraCode is the stable key of an extra service used by request payloads and breakdowns.
type ExtraCode string

const (
	ExtraLoading     ExtraCode = "loading"
	ExtraStairs      ExtraCode = "stairs"
	ExtraPacking     ExtraCode = "packing"
	ExtraCleaning    ExtraCode = "cleaning"
	ExtraExpress     ExtraCode = "express"
	ExtraInsurance   ExtraCode = "insurance"
	ExtraWaitingTime ExtraCode = "waitingTime"
)

// AllExtras lists every recognised extra in breakdown order.
var AllExtras = []ExtraCode{
	ExtraLoading,
	ExtraStairs,
	ExtraPacking,
	ExtraCleaning,
	ExtraExpress,
	ExtraInsurance,
	ExtraWaitingTime,
}

// ExtraServiceDefinition prices one extra. Price is a currency amount for flat and
// per_unit models and percentage points for the percentage model.
type ExtraServiceDefinition struct {
	ID    string          `json:"id"`
	Code  ExtraCode       `json:"code"`
	Model PricingModel    `json:"pricingModel"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit,omitempty"`
}

// ExtraServiceSelection is the request-scoped choice of extras.
type ExtraServiceSelection struct {
	Loading        bool
	LoadingPeople  int
	Stairs         int
	Packing        bool
	Cleaning       bool
	Express        bool
	Insurance      bool
	InsuranceValue decimal.NullDecimal
	// WaitingTime counts 15-minute blocks.
	WaitingTime int
}

type EstimateRequest struct {
	DistanceKm     *float64
	VehicleClassID string
	Extras         ExtraServiceSelection
	Pickup         *types.Point
	Dropoff        *types.Point
}

type PriceBreakdown struct {
	Currency    string
	BaseFare    decimal.Decimal
	Extras      map[ExtraCode]decimal.Decimal
	ExtrasTotal decimal.Decimal
	Total       decimal.Decimal
}

// Estimate is the result of a priced request. It is built fresh for every call.
type Estimate struct {
	DistanceKm     float64
	VehicleClassID string
	Band           DistanceBand
	Breakdown      PriceBreakdown
}
