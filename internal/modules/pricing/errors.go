package pricing

import "errors"

var (
	ErrMissingVehicleClass  = errors.New("vehicle class is required")
	ErrMissingDistanceInput = errors.New("distance or both pickup and dropoff locations are required")
	ErrNoDistanceBand       = errors.New("no distance band found")
	ErrNoRate               = errors.New("no rate found")
	// ErrRequiresCustomQuote is a business outcome, not a failure: the trip has to be quoted manually.
	ErrRequiresCustomQuote = errors.New("requires custom quote")

	ErrExtraDefinitionMissing = errors.New("extra service definition missing")
	ErrInvalidExtraDefinition = errors.New("invalid extra service definition")
	ErrInvalidBands           = errors.New("invalid distance bands")
	ErrInvalidRateMatrix      = errors.New("invalid rate matrix")
)

// IsConfigError reports whether err comes from incomplete or inconsistent reference data
// rather than from the request.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNoRate) ||
		errors.Is(err, ErrExtraDefinitionMissing) ||
		errors.Is(err, ErrInvalidExtraDefinition) ||
		errors.Is(err, ErrInvalidBands) ||
		errors.Is(err, ErrInvalidRateMatrix)
}

// IsInputError reports whether err can be fixed by the caller changing the request.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingVehicleClass) ||
		errors.Is(err, ErrMissingDistanceInput) ||
		errors.Is(err, ErrNoDistanceBand)
}
