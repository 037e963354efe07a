package pricing

import (
	"fmt"
	"sort"
	"strconv"
)

// ResolveBand returns the band containing d. Bands are inclusive on both ends, so a
// distance equal to a shared boundary belongs to the lower band; if several bands
// still match, the one with the smallest MinKm wins.
func ResolveBand(d float64, bands []DistanceBand) (DistanceBand, error) {
	var (
		best  DistanceBand
		found bool
	)
	if d >= 0 {
		for _, b := range bands {
			if !b.Contains(d) {
				continue
			}
			if !found || b.MinKm < best.MinKm {
				best = b
				found = true
			}
		}
	}
	if !found {
		return DistanceBand{}, fmt.Errorf("%w for %.2f km", ErrNoDistanceBand, d)
	}
	return best, nil
}

// ValidateBands checks that bands are contiguous and non-overlapping once sorted by
// MinKm, and that only the last band may be open-ended.
func ValidateBands(bands []DistanceBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: no bands defined", ErrInvalidBands)
	}
	sorted := SortBands(bands)
	if sorted[0].MinKm < 0 {
		return fmt.Errorf("%w: band %s starts below zero", ErrInvalidBands, sorted[0].ID)
	}
	seen := make(map[string]struct{}, len(sorted))
	for i, b := range sorted {
		if b.ID == "" {
			return fmt.Errorf("%w: band %d has no id", ErrInvalidBands, i)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate band id %s", ErrInvalidBands, b.ID)
		}
		seen[b.ID] = struct{}{}

		last := i == len(sorted)-1
		if b.MaxKm == nil {
			if !last {
				return fmt.Errorf("%w: open band %s is not the last band", ErrInvalidBands, b.ID)
			}
			continue
		}
		if *b.MaxKm <= b.MinKm {
			return fmt.Errorf("%w: band %s has max %.2f <= min %.2f", ErrInvalidBands, b.ID, *b.MaxKm, b.MinKm)
		}
		if !last && sorted[i+1].MinKm != *b.MaxKm {
			return fmt.Errorf("%w: gap or overlap between %s and %s", ErrInvalidBands, b.ID, sorted[i+1].ID)
		}
	}
	return nil
}

// SortBands returns a copy of bands ordered by MinKm ascending.
func SortBands(bands []DistanceBand) []DistanceBand {
	out := make([]DistanceBand, len(bands))
	copy(out, bands)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinKm < out[j].MinKm })
	return out
}

// TableMaxKm returns the largest finite upper bound across bands, or 0 when no band is closed.
func TableMaxKm(bands []DistanceBand) float64 {
	var top float64
	for _, b := range bands {
		if b.MaxKm != nil && *b.MaxKm > top {
			top = *b.MaxKm
		}
	}
	return top
}

// BandLabel renders a band the way it is shown to customers, e.g. "0–5km" or "1000km+".
func BandLabel(b DistanceBand) string {
	if b.MaxKm == nil {
		return formatKm(b.MinKm) + "km+"
	}
	return formatKm(b.MinKm) + "–" + formatKm(*b.MaxKm) + "km"
}

func formatKm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
