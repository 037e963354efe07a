// README: Pricing service turns distance, vehicle class and extras into a price breakdown.
package pricing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"relo/internal/config"
	"relo/internal/modules/geo"
)

// Service is the price estimator. It holds no per-request state and is safe for
// concurrent use; all reference data comes from the Catalog.
type Service struct {
	catalog Catalog
	// maxTableKm falls back to the largest closed band bound when not configured.
	maxTableKm float64
	currency   string
	logger     *zap.Logger
}

func NewService(catalog Catalog, cfg config.PricingConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:    catalog,
		maxTableKm: cfg.MaxTableKm,
		currency:   cfg.Currency,
		logger:     logger.Named("pricing"),
	}
}

// Catalog exposes the reference data the service prices against.
func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Estimate prices a request. Trips that cannot be priced from the table fail with an
// error wrapping ErrRequiresCustomQuote; in that case no extras are computed.
func (s *Service) Estimate(ctx context.Context, req EstimateRequest) (Estimate, error) {
	est, err := s.estimate(ctx, req)
	outcome := outcomeOf(err)
	estimatesTotal.WithLabelValues(outcome).Inc()

	fields := []zap.Field{
		zap.String("vehicle_class", req.VehicleClassID),
		zap.String("outcome", outcome),
	}
	switch outcome {
	case outcomePriced:
		s.logger.Debug("price estimated", append(fields,
			zap.Float64("distance_km", est.DistanceKm),
			zap.String("band", est.Band.ID),
			zap.String("total", est.Breakdown.Total.String()),
		)...)
	case outcomeCustomQuote, outcomeInvalidInput:
		s.logger.Info("price not estimated", append(fields, zap.Error(err))...)
	default:
		s.logger.Error("price estimate failed", append(fields, zap.Error(err))...)
	}
	return est, err
}

func (s *Service) estimate(ctx context.Context, req EstimateRequest) (Estimate, error) {
	if req.VehicleClassID == "" {
		return Estimate{}, ErrMissingVehicleClass
	}

	distanceKm, err := resolveDistance(req)
	if err != nil {
		return Estimate{}, err
	}

	bands, err := s.catalog.GetDistanceBands(ctx)
	if err != nil {
		return Estimate{}, fmt.Errorf("load distance bands: %w", err)
	}
	band, bandErr := ResolveBand(distanceKm, bands)

	limit := s.maxTableKm
	if limit <= 0 {
		limit = TableMaxKm(bands)
	}
	if limit > 0 && distanceKm >= limit {
		return Estimate{}, fmt.Errorf("%w: %.2f km is at or beyond the %g km rate table", ErrRequiresCustomQuote, distanceKm, limit)
	}
	if bandErr != nil {
		return Estimate{}, bandErr
	}
	rate, err := s.catalog.GetRate(ctx, req.VehicleClassID, band.ID)
	if err != nil {
		return Estimate{}, fmt.Errorf("lookup rate: %w", err)
	}
	baseFare, ok := rate.Fare.Amount()
	if !ok {
		return Estimate{}, fmt.Errorf("%w: no fare for %s in band %s", ErrRequiresCustomQuote, req.VehicleClassID, band.ID)
	}

	defs, err := s.catalog.GetExtraServiceDefinitions(ctx)
	if err != nil {
		return Estimate{}, fmt.Errorf("load extra services: %w", err)
	}
	calc, err := NewExtrasCalculator(defs)
	if err != nil {
		return Estimate{}, err
	}
	extras, extrasTotal := calc.Calculate(req.Extras)

	return Estimate{
		DistanceKm:     distanceKm,
		VehicleClassID: req.VehicleClassID,
		Band:           band,
		Breakdown: PriceBreakdown{
			Currency:    s.currency,
			BaseFare:    baseFare,
			Extras:      extras,
			ExtrasTotal: extrasTotal,
			Total:       baseFare.Add(extrasTotal),
		},
	}, nil
}

// resolveDistance prefers an explicit distance and otherwise needs both endpoints.
func resolveDistance(req EstimateRequest) (float64, error) {
	if req.DistanceKm != nil {
		return *req.DistanceKm, nil
	}
	if req.Pickup == nil || req.Dropoff == nil {
		return 0, ErrMissingDistanceInput
	}
	return geo.DistanceKm(*req.Pickup, *req.Dropoff), nil
}
