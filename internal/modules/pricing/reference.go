// README: Shipped reference data and the rate row generator.
package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RateMatrix maps a vehicle class to one fare per distance band, indexed in MinKm order.
type RateMatrix map[string][]Fare

func km(v float64) *float64 { return &v }

func newBand(id string, minKm float64, maxKm *float64) DistanceBand {
	b := DistanceBand{ID: id, MinKm: minKm, MaxKm: maxKm}
	b.Label = BandLabel(b)
	return b
}

// DefaultVehicleClasses returns the vehicle classes shipped with the service.
func DefaultVehicleClasses() []VehicleClass {
	return []VehicleClass{
		{ID: "mini-van", Name: "Mini Van", Capacity: "1 room / studio", MaxPayloadKg: 800, Rank: 1},
		{ID: "1-ton-truck", Name: "1 Ton Truck", Capacity: "1-2 rooms", MaxPayloadKg: 1000, Rank: 2},
		{ID: "2-ton-truck", Name: "2 Ton Truck", Capacity: "2-3 rooms", MaxPayloadKg: 2000, Rank: 3},
		{ID: "4-ton-truck", Name: "4 Ton Truck", Capacity: "3-4 bedroom house", MaxPayloadKg: 4000, Rank: 4},
		{ID: "8-ton-truck", Name: "8 Ton Truck", Capacity: "large house / office", MaxPayloadKg: 8000, Rank: 5},
	}
}

// DefaultDistanceBands returns the banding used by DefaultRateMatrix, ordered by MinKm.
func DefaultDistanceBands() []DistanceBand {
	return []DistanceBand{
		newBand("0-5", 0, km(5)),
		newBand("5-10", 5, km(10)),
		newBand("10-20", 10, km(20)),
		newBand("20-50", 20, km(50)),
		newBand("50-100", 50, km(100)),
		newBand("100-200", 100, km(200)),
		newBand("200-500", 200, km(500)),
		newBand("500-1000", 500, km(1000)),
		newBand("1000+", 1000, nil),
	}
}

// DefaultRateMatrix returns base fares per vehicle class. Trips in the open band are
// always quoted manually.
func DefaultRateMatrix() RateMatrix {
	row := func(fares ...int64) []Fare {
		out := make([]Fare, 0, len(fares)+1)
		for _, f := range fares {
			out = append(out, FareFromInt(f))
		}
		return append(out, CustomQuote)
	}
	return RateMatrix{
		"mini-van":    row(650, 750, 950, 1400, 2200, 3500, 6500, 11000),
		"1-ton-truck": row(750, 850, 1100, 1650, 2600, 4200, 7800, 13500),
		"2-ton-truck": row(950, 1100, 1400, 2100, 3300, 5300, 9800, 17000),
		"4-ton-truck": row(1300, 1500, 1900, 2800, 4400, 7000, 13000, 22500),
		"8-ton-truck": row(1900, 2200, 2800, 4100, 6400, 10200, 19000, 33000),
	}
}

// DefaultExtraServices returns the extra service definitions shipped with the service.
func DefaultExtraServices() []ExtraServiceDefinition {
	return []ExtraServiceDefinition{
		{ID: "extra-loading", Code: ExtraLoading, Model: ModelPerUnit, Price: decimal.NewFromInt(350), Unit: "person"},
		{ID: "extra-stairs", Code: ExtraStairs, Model: ModelPerUnit, Price: decimal.NewFromInt(150), Unit: "flight"},
		{ID: "extra-packing", Code: ExtraPacking, Model: ModelFlat, Price: decimal.NewFromInt(200)},
		{ID: "extra-cleaning", Code: ExtraCleaning, Model: ModelFlat, Price: decimal.NewFromInt(300)},
		{ID: "extra-express", Code: ExtraExpress, Model: ModelFlat, Price: decimal.NewFromInt(500)},
		{ID: "extra-insurance", Code: ExtraInsurance, Model: ModelPercentage, Price: decimal.NewFromInt(5), Unit: "% of declared value"},
		{ID: "extra-waiting-time", Code: ExtraWaitingTime, Model: ModelPerUnit, Price: decimal.NewFromInt(100), Unit: "15 min"},
	}
}

// GenerateRates expands a compact matrix into one PricingRate per (vehicle class, band).
// Every matrix row must have exactly one fare per band. Output is ordered by vehicle
// class id, then band MinKm, so repeated calls yield identical rows.
func GenerateRates(matrix RateMatrix, bands []DistanceBand) ([]PricingRate, error) {
	sorted := SortBands(bands)

	classIDs := make([]string, 0, len(matrix))
	for id := range matrix {
		classIDs = append(classIDs, id)
	}
	sort.Strings(classIDs)

	rates := make([]PricingRate, 0, len(matrix)*len(sorted))
	for _, classID := range classIDs {
		fares := matrix[classID]
		if len(fares) != len(sorted) {
			return nil, fmt.Errorf("%w: %s has %d fares for %d bands", ErrInvalidRateMatrix, classID, len(fares), len(sorted))
		}
		for i, band := range sorted {
			if amount, ok := fares[i].Amount(); ok && amount.IsNegative() {
				return nil, fmt.Errorf("%w: %s has negative fare in band %s", ErrInvalidRateMatrix, classID, band.ID)
			}
			rates = append(rates, PricingRate{
				ID:             rateID(classID, band.ID),
				VehicleClassID: classID,
				DistanceBandID: band.ID,
				Fare:           fares[i],
			})
		}
	}
	return rates, nil
}

func rateID(vehicleClassID, bandID string) string {
	return vehicleClassID + ":" + bandID
}
