package domain

import (
	"time"

	"github.com/google/uuid"
)

type IncidentStatus string

const (
	IncidentPending  IncidentStatus = "pending"
	IncidentReviewed IncidentStatus = "reviewed"
	IncidentResolved IncidentStatus = "resolved"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentPending, IncidentReviewed, IncidentResolved:
		return true
	}
	return false
}

// Incident is a recorded crime/safety event. Rows are append-only: once
// created only the administrative severity correction and the status field
// may change.
type Incident struct {
	ID            uuid.UUID      `json:"id"`
	Seq           int64          `json:"seq"` // ingestion order, assigned by storage
	Category      string         `json:"category" validate:"required"`
	Lat           float64        `json:"lat" validate:"lat"` // -90..90
	Lng           float64        `json:"lng" validate:"lng"` // -180..180
	OccurredAt    time.Time      `json:"occurred_at"`
	Description   string         `json:"description"`
	LocationBlock string         `json:"location_block"`
	Severity      *int           `json:"severity,omitempty" validate:"omitempty,severity"`
	Photos        []string       `json:"photos,omitempty"`
	ReporterID    string         `json:"reporter_id,omitempty"`
	Status        IncidentStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}
