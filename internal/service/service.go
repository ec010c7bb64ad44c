package service

import (
	"context"
	"time"

	"github.com/aprameyak/philly/internal/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// ScoreService rates a location's safety from nearby incidents.
type ScoreService interface {
	Assess(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResult, error)
}

// ReportService ingests community reports and maintains the gamification
// ledger.
type ReportService interface {
	Submit(ctx context.Context, req domain.SubmitReportRequest) (*domain.SubmitReportResponse, error)
	GetReport(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
}

// ProfileService exposes the per-user ledger.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.UserProfile, error)
	Leaderboard(ctx context.Context, limit int) ([]*domain.UserProfile, error)
}

type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	GetUser(ctx context.Context, username string) (*domain.User, error)
}

// AdminIncidentService covers the administrative corrections allowed on the
// append-only incident log.
type AdminIncidentService interface {
	List(ctx context.Context, page, limit int) ([]*domain.Incident, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	SetSeverity(ctx context.Context, id uuid.UUID, severity int) error
	SetStatus(ctx context.Context, id uuid.UUID, status domain.IncidentStatus) error
}

type StatsService interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.SubmissionStats, error)
}

// Summarizer is the external reasoning capability behind the risk scorer.
// Substitutable with a stub in tests; never relied upon for availability.
type Summarizer interface {
	Summarize(ctx context.Context, evidence []domain.IncidentEvidence, lat, lng float64, at time.Time) (domain.Summary, error)
}

type Service struct {
	ScoreService         ScoreService
	ReportService        ReportService
	ProfileService       ProfileService
	AuthService          AuthService
	AdminIncidentService AdminIncidentService
	StatsService         StatsService
}

func NewService(
	scoreService ScoreService,
	reportService ReportService,
	profileService ProfileService,
	authService AuthService,
	adminIncidentService AdminIncidentService,
	statsService StatsService,
) *Service {
	return &Service{
		ScoreService:         scoreService,
		ReportService:        reportService,
		ProfileService:       profileService,
		AuthService:          authService,
		AdminIncidentService: adminIncidentService,
		StatsService:         statsService,
	}
}

func (s *Service) Assess(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResult, error) {
	return s.ScoreService.Assess(ctx, req)
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitReportRequest) (*domain.SubmitReportResponse, error) {
	return s.ReportService.Submit(ctx, req)
}
