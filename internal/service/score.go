package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/e"

	"github.com/samber/lo"
)

// FallbackReason is the single reason attached when the reasoning service
// is unavailable and the score comes from the severity table.
const FallbackReason = "no AI analysis available; score derived from nearest incident categories"

type scoreService struct {
	source     IncidentSource
	summarizer Summarizer
	logger     *slog.Logger
	k          int
}

func NewScoreService(source IncidentSource, summarizer Summarizer, logger *slog.Logger, k int) ScoreService {
	if k < 1 {
		k = DefaultNearestK
	}
	return &scoreService{
		source:     source,
		summarizer: summarizer,
		logger:     logger,
		k:          k,
	}
}

// Assess retrieves the k nearest incidents, asks the reasoning service for
// a score, and falls back to the maximum category severity when the service
// fails twice. The external dependency never makes this endpoint
// unavailable: the only errors surfaced are bad input and an empty store.
func (s *scoreService) Assess(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResult, error) {
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return domain.ScoreResult{}, e.ErrInvalidCoordinates
	}
	at, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		s.logger.Warn("unparseable query time", slog.String("time", req.Time))
		return domain.ScoreResult{}, e.ErrInvalidInput
	}

	incidents, err := s.source.Incidents(ctx)
	if err != nil {
		return domain.ScoreResult{}, err
	}

	nearest, err := Nearest(incidents, req.Lat, req.Lng, s.k)
	if err != nil {
		return domain.ScoreResult{}, err
	}

	evidence := lo.Map(nearest, func(r RankedIncident, _ int) domain.IncidentEvidence {
		return domain.IncidentEvidence{
			ID:         r.ID,
			Category:   r.Category,
			DistanceM:  r.DistanceM,
			OccurredAt: r.OccurredAt,
			AgeDays:    int(at.Sub(r.OccurredAt).Hours() / 24),
			Location:   r.LocationBlock,
			Severity:   incidentSeverity(r.Incident),
		}
	})

	summary, err := s.summarize(ctx, evidence, req.Lat, req.Lng, at)
	if err != nil {
		s.logger.Warn("falling back to deterministic score", slog.Any("error", err))
		summary = fallbackSummary(evidence)
	}

	return domain.ScoreResult{
		DangerScore: summary.DangerScore,
		Reasons:     summary.Reasons,
		Events:      evidence,
	}, nil
}

// summarize is one attempt plus one retry with the same input.
func (s *scoreService) summarize(ctx context.Context, evidence []domain.IncidentEvidence, lat, lng float64, at time.Time) (domain.Summary, error) {
	summary, err := s.summarizer.Summarize(ctx, evidence, lat, lng, at)
	if err == nil {
		return summary, nil
	}
	s.logger.Warn("summarize attempt failed, retrying once", slog.Any("error", err))
	return s.summarizer.Summarize(ctx, evidence, lat, lng, at)
}

func fallbackSummary(evidence []domain.IncidentEvidence) domain.Summary {
	maxSev := 1
	for _, ev := range evidence {
		if ev.Severity > maxSev {
			maxSev = ev.Severity
		}
	}
	return domain.Summary{
		DangerScore: maxSev,
		Reasons:     []string{FallbackReason},
	}
}

// incidentSeverity prefers the administrative override over the table.
func incidentSeverity(inc domain.Incident) int {
	if inc.Severity != nil {
		return *inc.Severity
	}
	return SeverityFor(inc.Category)
}
