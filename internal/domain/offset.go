package domain

// Tonnes is an explicit tCO2e quantity. The offset constants are defined in
// kg, so conversions go through Kg() rather than raw float math scattered
// around call sites.
type Tonnes float64

// Kilograms is a kg CO2e quantity.
type Kilograms float64

func (t Tonnes) Kg() Kilograms { return Kilograms(t * 1000) }

func (k Kilograms) Tonnes() Tonnes { return Tonnes(k / 1000) }

// OffsetEstimate sizes compensating actions for a given emission quantity.
// Pure derived value, recomputed per input, never persisted.
type OffsetEstimate struct {
	InputTonnesCo2  Tonnes  `json:"input_tonnes_co2"`
	TreesRequired   int     `json:"trees_required"`
	SolarKwRequired float64 `json:"solar_kw_required"`
	DonationAmount  float64 `json:"donation_amount"`
}
