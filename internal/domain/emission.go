package domain

import "time"

// EmissionRecord is one measured activity converted to kg CO2e.
// EmissionKgCo2 is derived at creation time (amount × source factor) and is
// never independently editable. Records are immutable once persisted.
type EmissionRecord struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganizationID string    `json:"organization_id" gorm:"index"`
	SourceID       string    `json:"source_id" gorm:"index"`
	UserID         string    `json:"user_id" gorm:"index"`
	Amount         float64   `json:"amount"`
	EmissionKgCo2  float64   `json:"emission_kg_co2"`
	RecordedDate   time.Time `json:"recorded_date" gorm:"index"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Source *EmissionSource `json:"source,omitempty" gorm:"foreignKey:SourceID"`
}

// TonnesCo2 converts the stored kg quantity to the display unit.
func (r EmissionRecord) TonnesCo2() float64 {
	return r.EmissionKgCo2 / 1000
}

// JoinedRecord is the read-model shape used by the aggregation engine:
// a record flattened with its source name and category.
type JoinedRecord struct {
	ID            string         `json:"id"`
	EmissionKgCo2 float64        `json:"emission_kg_co2"`
	RecordedDate  time.Time      `json:"recorded_date"`
	SourceName    string         `json:"source_name"`
	Category      SourceCategory `json:"category"`
}
