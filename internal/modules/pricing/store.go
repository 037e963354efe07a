// README: Pricing reference data backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store is a Catalog over the tables created by migrations/0001_init.sql.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetVehicleClasses(ctx context.Context) ([]VehicleClass, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, name, capacity, max_payload_kg, rank
        FROM vehicle_classes
        ORDER BY rank, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VehicleClass
	for rows.Next() {
		var vc VehicleClass
		if err := rows.Scan(&vc.ID, &vc.Name, &vc.Capacity, &vc.MaxPayloadKg, &vc.Rank); err != nil {
			return nil, err
		}
		out = append(out, vc)
	}
	return out, rows.Err()
}

// GetDistanceBands fails with ErrInvalidBands when the stored bands are not contiguous.
func (s *Store) GetDistanceBands(ctx context.Context) ([]DistanceBand, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, min_km::float8, max_km::float8, label
        FROM distance_bands
        ORDER BY min_km`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DistanceBand
	for rows.Next() {
		var b DistanceBand
		if err := rows.Scan(&b.ID, &b.MinKm, &b.MaxKm, &b.Label); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := ValidateBands(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetExtraServiceDefinitions(ctx context.Context) ([]ExtraServiceDefinition, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, code, pricing_model, price::text, unit
        FROM extra_services
        ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExtraServiceDefinition
	for rows.Next() {
		var (
			def   ExtraServiceDefinition
			code  string
			model string
			price string
		)
		if err := rows.Scan(&def.ID, &code, &model, &price, &def.Unit); err != nil {
			return nil, err
		}
		def.Code = ExtraCode(code)
		def.Model = PricingModel(model)
		if def.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("%w: extra %s price %q: %v", ErrInvalidExtraDefinition, def.ID, price, err)
		}
		out = append(out, def)
	}
	return out, rows.Err()
}

func (s *Store) GetRate(ctx context.Context, vehicleClassID, distanceBandID string) (PricingRate, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, vehicle_class_id, distance_band_id, base_fare::text
        FROM pricing_rates
        WHERE vehicle_class_id = $1 AND distance_band_id = $2`,
		vehicleClassID, distanceBandID,
	)

	var r PricingRate
	var baseFare *string
	err := row.Scan(&r.ID, &r.VehicleClassID, &r.DistanceBandID, &baseFare)
	if errors.Is(err, pgx.ErrNoRows) {
		return PricingRate{}, fmt.Errorf("%w for vehicle class %q in band %q", ErrNoRate, vehicleClassID, distanceBandID)
	}
	if err != nil {
		return PricingRate{}, err
	}

	if baseFare == nil {
		r.Fare = CustomQuote
		return r, nil
	}
	amount, err := decimal.NewFromString(*baseFare)
	if err != nil {
		return PricingRate{}, fmt.Errorf("%w: rate %s fare %q: %v", ErrInvalidRateMatrix, r.ID, *baseFare, err)
	}
	r.Fare = FareOf(amount)
	return r, nil
}

// SeedReferenceData upserts the given reference data in one transaction. Rows that
// are not part of the input are left in place.
func (s *Store) SeedReferenceData(ctx context.Context, classes []VehicleClass, bands []DistanceBand, extras []ExtraServiceDefinition, rates []PricingRate) (err error) {
	if err := ValidateBands(bands); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for _, vc := range classes {
		batch.Queue(`
            INSERT INTO vehicle_classes (id, name, capacity, max_payload_kg, rank)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (id) DO UPDATE
            SET name = EXCLUDED.name, capacity = EXCLUDED.capacity,
                max_payload_kg = EXCLUDED.max_payload_kg, rank = EXCLUDED.rank`,
			vc.ID, vc.Name, vc.Capacity, vc.MaxPayloadKg, vc.Rank)
	}
	for _, b := range bands {
		batch.Queue(`
            INSERT INTO distance_bands (id, min_km, max_km, label)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (id) DO UPDATE
            SET min_km = EXCLUDED.min_km, max_km = EXCLUDED.max_km, label = EXCLUDED.label`,
			b.ID, b.MinKm, b.MaxKm, b.Label)
	}
	for _, def := range extras {
		batch.Queue(`
            INSERT INTO extra_services (id, code, pricing_model, price, unit)
            VALUES ($1, $2, $3, $4::numeric, $5)
            ON CONFLICT (id) DO UPDATE
            SET code = EXCLUDED.code, pricing_model = EXCLUDED.pricing_model,
                price = EXCLUDED.price, unit = EXCLUDED.unit`,
			def.ID, string(def.Code), string(def.Model), def.Price.String(), def.Unit)
	}
	for _, r := range rates {
		batch.Queue(`
            INSERT INTO pricing_rates (id, vehicle_class_id, distance_band_id, base_fare)
            VALUES ($1, $2, $3, $4::numeric)
            ON CONFLICT (vehicle_class_id, distance_band_id) DO UPDATE
            SET base_fare = EXCLUDED.base_fare`,
			r.ID, r.VehicleClassID, r.DistanceBandID, fareParam(r.Fare))
	}

	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	return tx.Commit(ctx)
}

// fareParam maps a custom-quote fare to SQL NULL.
func fareParam(f Fare) *string {
	amount, ok := f.Amount()
	if !ok {
		return nil
	}
	v := amount.String()
	return &v
}
