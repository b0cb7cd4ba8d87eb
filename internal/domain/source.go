package domain

import "time"

// SourceCategory groups emission sources for breakdown charts.
type SourceCategory string

const (
	CategoryEnergy    SourceCategory = "Energy"
	CategoryTransport SourceCategory = "Transport"
	CategoryMaterials SourceCategory = "Materials"
	CategoryWaste     SourceCategory = "Waste"
)

// EmissionSource is immutable reference data: a physical quantity unit plus
// the factor converting one unit into kg CO2e. Seeded at deployment, never
// mutated at runtime.
type EmissionSource struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"uniqueIndex"`
	Category       SourceCategory `json:"category" gorm:"index"`
	Unit           string         `json:"unit"`
	EmissionFactor float64        `json:"emission_factor"` // kg CO2e per unit
	CreatedAt      time.Time      `json:"created_at"`
}

// Scope maps a source onto the GHG accounting scope used as a display
// label. Direct fuel burn is scope 1, purchased energy scope 2, everything
// else scope 3.
func (s EmissionSource) Scope() string {
	return ScopeForSource(s.Name)
}

func ScopeForSource(name string) string {
	switch name {
	case "Diesel", "Gasoline", "Natural Gas":
		return "Scope 1"
	case "Electricity":
		return "Scope 2"
	default:
		return "Scope 3"
	}
}

// DefaultSources is the canonical catalog shipped with the product.
func DefaultSources() []EmissionSource {
	return []EmissionSource{
		{ID: "0570e733-d0bb-4ad5-8b00-85f355111734", Name: "Paper", Category: CategoryMaterials, Unit: "kg", EmissionFactor: 1.5},
		{ID: "109901a8-246c-4011-b654-45f23cba3c0c", Name: "Air Travel - Domestic", Category: CategoryTransport, Unit: "km", EmissionFactor: 0.255},
		{ID: "1791593a-f30c-4c9d-a5a8-bb6fd58604f2", Name: "Rail Travel", Category: CategoryTransport, Unit: "km", EmissionFactor: 0.041},
		{ID: "5a8154ab-fd90-45ce-943b-a406f5a98ae7", Name: "Gasoline", Category: CategoryTransport, Unit: "L", EmissionFactor: 2.31},
		{ID: "68fa162a-fe52-4b77-b7c0-e6ca3b4fcad8", Name: "Electricity", Category: CategoryEnergy, Unit: "kWh", EmissionFactor: 0.85},
		{ID: "858bbca3-85e3-4a70-8b38-dee74803757c", Name: "Air Travel - International", Category: CategoryTransport, Unit: "km", EmissionFactor: 0.195},
		{ID: "9539bbee-9d79-4493-b5e3-8fe11360a6c8", Name: "Car Travel", Category: CategoryTransport, Unit: "km", EmissionFactor: 0.121},
		{ID: "d65cc0c9-e392-438e-8f76-5436a0a9fa45", Name: "Waste - Landfill", Category: CategoryWaste, Unit: "kg", EmissionFactor: 1.0},
		{ID: "d8655941-5de1-4fd7-ad4c-8535f16293af", Name: "Diesel", Category: CategoryTransport, Unit: "L", EmissionFactor: 2.68},
		{ID: "e39c0380-da24-40ed-af18-ab36ca4e3efc", Name: "Plastic", Category: CategoryMaterials, Unit: "kg", EmissionFactor: 6.0},
		{ID: "e64866ec-d6ae-4b1d-81d1-0110d4e1dbfa", Name: "Natural Gas", Category: CategoryEnergy, Unit: "m³", EmissionFactor: 2.03},
	}
}
