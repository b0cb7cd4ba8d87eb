package domain

import "time"

type ReportType string

const (
	ReportTypeMonthly   ReportType = "monthly"
	ReportTypeQuarterly ReportType = "quarterly"
	ReportTypeAnnual    ReportType = "annual"
	ReportTypeCustom    ReportType = "custom"
)

type ReportFormat string

const (
	ReportFormatPDF   ReportFormat = "pdf"
	ReportFormatCSV   ReportFormat = "csv"
	ReportFormatExcel ReportFormat = "excel"
)

// ReportRequest is the user-supplied configuration for one report run.
type ReportRequest struct {
	Name      string       `json:"name" validate:"required"`
	Type      ReportType   `json:"type" validate:"required,oneof=monthly quarterly annual custom"`
	Format    ReportFormat `json:"format" validate:"required,oneof=pdf csv excel"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
}

// ReportFile is a fully rendered, downloadable document.
type ReportFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Report is the catalog entry kept after a successful generation.
type Report struct {
	ID             string       `json:"id" gorm:"primaryKey"`
	OrganizationID string       `json:"organization_id" gorm:"index"`
	Name           string       `json:"name"`
	Type           ReportType   `json:"type"`
	Format         ReportFormat `json:"format"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        time.Time    `json:"end_date"`
	TotalTonnes    float64      `json:"total_tonnes_co2"`
	SizeBytes      int64        `json:"size_bytes"`
	GeneratedBy    string       `json:"generated_by"`
	CreatedAt      time.Time    `json:"created_at"`
}
