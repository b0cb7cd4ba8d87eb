package domain

import "time"

type AlertType string

const (
	AlertTypeSpike      AlertType = "spike"
	AlertTypeMilestone  AlertType = "milestone"
	AlertTypeSuggestion AlertType = "suggestion"
)

type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityInfo   AlertSeverity = "info"
)

type Alert struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	OrganizationID string        `json:"organization_id" gorm:"index"`
	Type           AlertType     `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	Title          string        `json:"title"`
	Message        string        `json:"message"`
	Read           bool          `json:"read"`
	CreatedAt      time.Time     `json:"created_at"`
}
