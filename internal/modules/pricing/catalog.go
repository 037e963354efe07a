// README: Read-only reference data collaborators consumed by the estimator.
package pricing

import (
	"context"
	"fmt"
	"sort"
)

// Catalog supplies pricing reference data. The estimator never writes through it.
type Catalog interface {
	GetVehicleClasses(ctx context.Context) ([]VehicleClass, error)
	// GetDistanceBands returns bands ordered by MinKm ascending.
	GetDistanceBands(ctx context.Context) ([]DistanceBand, error)
	GetExtraServiceDefinitions(ctx context.Context) ([]ExtraServiceDefinition, error)
	// GetRate returns ErrNoRate when no row exists for the pair.
	GetRate(ctx context.Context, vehicleClassID, distanceBandID string) (PricingRate, error)
}

type rateKey struct {
	vehicleClassID string
	distanceBandID string
}

// MemoryCatalog is an immutable in-process Catalog.
type MemoryCatalog struct {
	classes []VehicleClass
	bands   []DistanceBand
	extras  []ExtraServiceDefinition
	rates   map[rateKey]PricingRate
}

// NewMemoryCatalog validates bands and indexes rates. Inputs are copied.
func NewMemoryCatalog(classes []VehicleClass, bands []DistanceBand, extras []ExtraServiceDefinition, rates []PricingRate) (*MemoryCatalog, error) {
	if err := ValidateBands(bands); err != nil {
		return nil, err
	}
	c := &MemoryCatalog{
		classes: append([]VehicleClass(nil), classes...),
		bands:   SortBands(bands),
		extras:  append([]ExtraServiceDefinition(nil), extras...),
		rates:   make(map[rateKey]PricingRate, len(rates)),
	}
	sort.SliceStable(c.classes, func(i, j int) bool { return c.classes[i].Rank < c.classes[j].Rank })
	for _, r := range rates {
		k := rateKey{r.VehicleClassID, r.DistanceBandID}
		if _, dup := c.rates[k]; dup {
			return nil, fmt.Errorf("%w: duplicate rate for %s/%s", ErrInvalidRateMatrix, r.VehicleClassID, r.DistanceBandID)
		}
		c.rates[k] = r
	}
	return c, nil
}

// DefaultCatalog builds a MemoryCatalog from the shipped reference data.
func DefaultCatalog() (*MemoryCatalog, error) {
	bands := DefaultDistanceBands()
	rates, err := GenerateRates(DefaultRateMatrix(), bands)
	if err != nil {
		return nil, err
	}
	return NewMemoryCatalog(DefaultVehicleClasses(), bands, DefaultExtraServices(), rates)
}

func (c *MemoryCatalog) GetVehicleClasses(ctx context.Context) ([]VehicleClass, error) {
	return append([]VehicleClass(nil), c.classes...), nil
}

func (c *MemoryCatalog) GetDistanceBands(ctx context.Context) ([]DistanceBand, error) {
	return append([]DistanceBand(nil), c.bands...), nil
}

func (c *MemoryCatalog) GetExtraServiceDefinitions(ctx context.Context) ([]ExtraServiceDefinition, error) {
	return append([]ExtraServiceDefinition(nil), c.extras...), nil
}

func (c *MemoryCatalog) GetRate(ctx context.Context, vehicleClassID, distanceBandID string) (PricingRate, error) {
	r, ok := c.rates[rateKey{vehicleClassID, distanceBandID}]
	if !ok {
		return PricingRate{}, fmt.Errorf("%w for vehicle class %q in band %q", ErrNoRate, vehicleClassID, distanceBandID)
	}
	return r, nil
}
