// README: Pricing handlers for estimates and read-only reference data.
package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"relo/internal/modules/pricing"
	"relo/internal/types"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

type pointReq struct {
	Lat float64 `json:"lat" binding:"latitude"`
	Lng float64 `json:"lng" binding:"longitude"`
}

type extrasReq struct {
	Loading        bool     `json:"loading"`
	LoadingPeople  int      `json:"loadingPeople" binding:"gte=0"`
	Stairs         int      `json:"stairs" binding:"gte=0"`
	Packing        bool     `json:"packing"`
	Cleaning       bool     `json:"cleaning"`
	Express        bool     `json:"express"`
	Insurance      bool     `json:"insurance"`
	InsuranceValue *float64 `json:"insuranceValue" binding:"omitempty,gte=0"`
	WaitingTime    int      `json:"waitingTime" binding:"gte=0"`
}

type estimateReq struct {
	Distance        *float64  `json:"distance"`
	VehicleClassID  string    `json:"vehicleClassId" binding:"required"`
	ExtraServices   extrasReq `json:"extraServices"`
	PickupLocation  *pointReq `json:"pickupLocation"`
	DropoffLocation *pointReq `json:"dropoffLocation"`
}

type bandResp struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	MinKm float64  `json:"minKm"`
	MaxKm *float64 `json:"maxKm"`
}

type breakdownResp struct {
	BaseFare float64                       `json:"baseFare"`
	Extras   map[pricing.ExtraCode]float64 `json:"extras"`
	Total    float64                       `json:"total"`
	Currency string                        `json:"currency"`
}

type estimateResp struct {
	Distance       float64       `json:"distance"`
	VehicleClassID string        `json:"vehicleClassId"`
	Band           bandResp      `json:"band"`
	PriceBreakdown breakdownResp `json:"priceBreakdown"`
}

func (r estimateReq) toRequest() pricing.EstimateRequest {
	req := pricing.EstimateRequest{
		DistanceKm:     r.Distance,
		VehicleClassID: r.VehicleClassID,
		Extras: pricing.ExtraServiceSelection{
			Loading:       r.ExtraServices.Loading,
			LoadingPeople: r.ExtraServices.LoadingPeople,
			Stairs:        r.ExtraServices.Stairs,
			Packing:       r.ExtraServices.Packing,
			Cleaning:      r.ExtraServices.Cleaning,
			Express:       r.ExtraServices.Express,
			Insurance:     r.ExtraServices.Insurance,
			WaitingTime:   r.ExtraServices.WaitingTime,
		},
	}
	if v := r.ExtraServices.InsuranceValue; v != nil {
		req.Extras.InsuranceValue = decimal.NewNullDecimal(decimal.NewFromFloat(*v))
	}
	if p := r.PickupLocation; p != nil {
		req.Pickup = &types.Point{Lat: p.Lat, Lng: p.Lng}
	}
	if p := r.DropoffLocation; p != nil {
		req.Dropoff = &types.Point{Lat: p.Lat, Lng: p.Lng}
	}
	return req
}

func toEstimateResp(est pricing.Estimate) estimateResp {
	extras := make(map[pricing.ExtraCode]float64, len(est.Breakdown.Extras))
	for code, cost := range est.Breakdown.Extras {
		extras[code] = cost.InexactFloat64()
	}
	return estimateResp{
		Distance:       math.Round(est.DistanceKm*100) / 100,
		VehicleClassID: est.VehicleClassID,
		Band: bandResp{
			ID:    est.Band.ID,
			Label: est.Band.Label,
			MinKm: est.Band.MinKm,
			MaxKm: est.Band.MaxKm,
		},
		PriceBreakdown: breakdownResp{
			BaseFare: est.Breakdown.BaseFare.InexactFloat64(),
			Extras:   extras,
			Total:    est.Breakdown.Total.InexactFloat64(),
			Currency: est.Breakdown.Currency,
		},
	}
}

func (h *PricingHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	est, err := h.pricing.Estimate(c.Request.Context(), req.toRequest())
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toEstimateResp(est))
}

func (h *PricingHandler) VehicleClasses(c *gin.Context) {
	classes, err := h.pricing.Catalog().GetVehicleClasses(c.Request.Context())
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicleClasses": classes})
}

func (h *PricingHandler) DistanceBands(c *gin.Context) {
	bands, err := h.pricing.Catalog().GetDistanceBands(c.Request.Context())
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"distanceBands": bands})
}

func (h *PricingHandler) Extras(c *gin.Context) {
	extras, err := h.pricing.Catalog().GetExtraServiceDefinitions(c.Request.Context())
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"extraServices": extras})
}
