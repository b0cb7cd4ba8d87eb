package offset

import (
	"errors"
	"math"

	"github.com/carboniq/server/internal/domain"
)

// Offset sizing constants. Trees and solar are denominated in kg CO2e per
// year, the donation rate in currency units per tonne.
const (
	KgPerTreePerYear    = 21.0
	KgPerSolarKwPerYear = 1197.0
	DonationPerTonne    = 950.0
)

var ErrInvalidQuantity = errors.New("offset: quantity must be a finite non-negative number")

// Estimate maps a tCO2e quantity to equivalent trees, solar capacity and
// donation figures. Input is pinned to tonnes; the kg-denominated constants
// are applied to the kg conversion.
func Estimate(t domain.Tonnes) (domain.OffsetEstimate, error) {
	v := float64(t)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return domain.OffsetEstimate{}, ErrInvalidQuantity
	}

	kg := float64(t.Kg())
	return domain.OffsetEstimate{
		InputTonnesCo2:  t,
		TreesRequired:   int(math.Ceil(kg / KgPerTreePerYear)),
		SolarKwRequired: kg / KgPerSolarKwPerYear,
		DonationAmount:  v * DonationPerTonne,
	}, nil
}
