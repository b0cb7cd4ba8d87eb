package domain

// MonthlyBucket is one calendar month of emissions in tonnes CO2e.
// Derived, never persisted; recomputed on every aggregation pass.
type MonthlyBucket struct {
	MonthKey    string  `json:"month_key"` // "YYYY-MM"
	TotalTonnes float64 `json:"total_tonnes_co2"`
}

// CategoryBucket is one source category's share of the grand total.
type CategoryBucket struct {
	Category          SourceCategory `json:"category"`
	TotalTonnes       float64        `json:"total_tonnes_co2"`
	PercentageOfTotal float64        `json:"percentage_of_total"` // [0,100]
}

// SourceBucket is one source's total, for the per-site breakdown panel.
type SourceBucket struct {
	SourceName  string  `json:"source_name"`
	TotalTonnes float64 `json:"total_tonnes_co2"`
}

// ScopeBucket is one GHG accounting scope's total, for the KPI cards.
type ScopeBucket struct {
	Scope       string  `json:"scope"`
	TotalTonnes float64 `json:"total_tonnes_co2"`
}

// MonthDelta is the month-over-month percentage change of the last two
// monthly buckets. Defined is false when fewer than two months exist.
type MonthDelta struct {
	Percent float64 `json:"percent"`
	Defined bool    `json:"defined"`
}

// EmissionSummary is the full aggregation output consumed by the dashboard,
// forecast and report layers.
type EmissionSummary struct {
	TotalTonnes     float64          `json:"total_tonnes_co2"`
	ThisMonthTonnes float64          `json:"this_month_tonnes_co2"`
	Monthly         []MonthlyBucket  `json:"monthly"`
	Categories      []CategoryBucket `json:"categories"`
	Sources         []SourceBucket   `json:"sources"`
	Scopes          []ScopeBucket    `json:"scopes"`
	Delta           MonthDelta       `json:"month_over_month"`
	RecordCount     int              `json:"record_count"`
}

// Forecast is a projection of the monthly trend.
type Forecast struct {
	CurrentTonnes   float64         `json:"current_tonnes_co2"`
	PredictedTonnes float64         `json:"predicted_tonnes_co2"`
	ChangePercent   float64         `json:"change_percent"`
	Confidence      float64         `json:"confidence"` // [0,100]
	HorizonMonths   int             `json:"horizon_months"`
	Projected       []MonthlyBucket `json:"projected"`
}
