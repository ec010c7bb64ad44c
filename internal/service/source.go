package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aprameyak/philly/internal/domain"
)

// IncidentSource hands the nearest-neighbor scan its candidate set in
// ingestion order.
type IncidentSource interface {
	Incidents(ctx context.Context) ([]domain.Incident, error)
}

// IncidentCacheService mirrors the Redis incident cache.
type IncidentCacheService interface {
	GetAll(ctx context.Context) ([]domain.Incident, error)
	SetAll(ctx context.Context, incidents []domain.Incident, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// IncidentScanRepository is the durable-store side of the candidate scan.
type IncidentScanRepository interface {
	ListAll(ctx context.Context) ([]domain.Incident, error)
}

type cachedIncidentSource struct {
	cache  IncidentCacheService
	repo   IncidentScanRepository
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedIncidentSource reads the whole incident table through the Redis
// cache, falling back to Postgres on a miss. The cache holds the full list
// as one JSON value, so readers never observe a partially appended record.
func NewCachedIncidentSource(cache IncidentCacheService, repo IncidentScanRepository, ttl time.Duration, logger *slog.Logger) IncidentSource {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &cachedIncidentSource{cache: cache, repo: repo, ttl: ttl, logger: logger}
}

func (s *cachedIncidentSource) Incidents(ctx context.Context) ([]domain.Incident, error) {
	incidents, err := s.cache.GetAll(ctx)
	if err != nil {
		// cache trouble is not fatal, the scan can go to the store
		s.logger.Warn("incident cache read failed", slog.Any("error", err))
	}
	if len(incidents) > 0 {
		return incidents, nil
	}

	incidents, err = s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(incidents) > 0 {
		if err := s.cache.SetAll(ctx, incidents, s.ttl); err != nil {
			s.logger.Warn("incident cache write failed", slog.Any("error", err))
		}
	}
	return incidents, nil
}
