package domain

// RegionEmission is one row from the external geo lookup service:
// a region with per-capita pollutant metrics and map coordinates.
type RegionEmission struct {
	Region         string  `json:"region"`
	PerCapitaCo2Kg float64 `json:"per_capita_co2_kg"`
	PerCapitaCh4Kg float64 `json:"per_capita_ch4_kg"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}
