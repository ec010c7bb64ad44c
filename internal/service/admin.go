package service

import (
	"context"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/e"

	"github.com/google/uuid"
)

// AdminIncidentRepository is the write surface the append-only design
// allows: paging reads plus the two administrative corrections.
type AdminIncidentRepository interface {
	List(ctx context.Context, page, limit int) ([]*domain.Incident, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	UpdateSeverity(ctx context.Context, id uuid.UUID, severity int) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IncidentStatus) error
}

type adminIncidentService struct {
	repo  AdminIncidentRepository
	cache IncidentCacheService
}

func NewAdminIncidentService(repo AdminIncidentRepository, cache IncidentCacheService) AdminIncidentService {
	return &adminIncidentService{repo: repo, cache: cache}
}

func (s *adminIncidentService) List(ctx context.Context, page, limit int) ([]*domain.Incident, int64, error) {
	return s.repo.List(ctx, page, limit)
}

func (s *adminIncidentService) Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	return s.repo.Get(ctx, id)
}

func (s *adminIncidentService) SetSeverity(ctx context.Context, id uuid.UUID, severity int) error {
	if severity < 1 || severity > 5 {
		return e.ErrInvalidInput
	}
	if err := s.repo.UpdateSeverity(ctx, id, severity); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx)
}

func (s *adminIncidentService) SetStatus(ctx context.Context, id uuid.UUID, status domain.IncidentStatus) error {
	if !status.Valid() {
		return e.ErrInvalidInput
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx)
}
