package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmitReportRequest is the community-report ingestion payload.
type SubmitReportRequest struct {
	UserID      string   `json:"user_id"` // overwritten from the JWT when present
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description"`
	Lat         float64  `json:"latitude" validate:"lat"`
	Lng         float64  `json:"longitude" validate:"lng"`
	Severity    *int     `json:"severity" validate:"omitempty,severity"`
	Photos      []string `json:"photos"`
	Location    string   `json:"location"`
}

type SubmitReportResponse struct {
	Incident *Incident    `json:"incident"`
	Profile  *UserProfile `json:"profile"`
}

// ScoreRequest asks for a danger rating of a point at a moment in time.
type ScoreRequest struct {
	Lat  float64 `json:"latitude" validate:"lat"`
	Lng  float64 `json:"longitude" validate:"lng"`
	Time string  `json:"time" validate:"required"` // ISO-8601
}

// IncidentEvidence is one nearby incident as presented to the reasoning
// service and echoed back to the caller.
type IncidentEvidence struct {
	ID         uuid.UUID `json:"id"`
	Category   string    `json:"category"`
	DistanceM  float64   `json:"distance_m"`
	OccurredAt time.Time `json:"occurred_at"`
	AgeDays    int       `json:"age_days"` // relative to the query time
	Location   string    `json:"location"`
	Severity   int       `json:"severity"`
}

// ScoreResult is computed per request and never persisted.
type ScoreResult struct {
	DangerScore int                `json:"danger_score"` // 1..5
	Reasons     []string           `json:"reasons"`
	Events      []IncidentEvidence `json:"events"`
}

// Summary is the validated reply of the external reasoning service.
type Summary struct {
	DangerScore int      `json:"danger_score"`
	Reasons     []string `json:"reasons"`
}

type ListIncidentsRequest struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

type ListIncidentsResponse struct {
	Incidents []Incident `json:"incidents"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
	Total     int64      `json:"total"`
}

type SubmissionStats struct {
	ReportCount   int64 `json:"report_count"`
	ReporterCount int64 `json:"reporter_count"`
	Minutes       int   `json:"minutes"`
}

type StatsRequest struct {
	Minutes int `query:"minutes" validate:"min=1,max=1440"`
}
