package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/e"
	"github.com/aprameyak/philly/pkg/validator"

	"github.com/google/uuid"
)

// AnonymousUserID owns submissions that arrive without authentication.
const AnonymousUserID = "anonymous_user"

type IncidentWriteRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	Leaderboard(ctx context.Context, limit int) ([]*domain.UserProfile, error)
}

// SingleScorer infers a severity for one incident; best-effort.
type SingleScorer interface {
	ScoreSingle(ctx context.Context, category, description string) (int, error)
}

type WebhookQueue interface {
	Enqueue(ctx context.Context, payload domain.AchievementPayload) error
}

type reportService struct {
	incidents IncidentWriteRepository
	profiles  ProfileRepository
	cache     IncidentCacheService
	scorer    SingleScorer
	queue     WebhookQueue
	logger    *slog.Logger
	now       func() time.Time

	// one in-flight ledger update per user; entries are dropped once the
	// last holder releases, so the map tracks only active users
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewReportService(
	incidents IncidentWriteRepository,
	profiles ProfileRepository,
	cache IncidentCacheService,
	scorer SingleScorer,
	queue WebhookQueue,
	logger *slog.Logger,
) ReportService {
	return &reportService{
		incidents: incidents,
		profiles:  profiles,
		cache:     cache,
		scorer:    scorer,
		queue:     queue,
		logger:    logger,
		now:       time.Now,
		locks:     make(map[string]*userLock),
	}
}

func (s *reportService) acquireUser(userID string) *userLock {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

func (s *reportService) releaseUser(userID string, l *userLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, userID)
	}
	s.mu.Unlock()
}

// Submit validates and appends a report, then recomputes the submitting
// user's ledger. Updates for the same user are serialized; validation fails
// fast before any mutation.
func (s *reportService) Submit(ctx context.Context, req domain.SubmitReportRequest) (*domain.SubmitReportResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		s.logger.Warn("invalid report", slog.Any("error", err))
		return nil, e.ErrInvalidInput
	}
	if req.Category == "" {
		return nil, e.ErrInvalidInput
	}

	userID := req.UserID
	if userID == "" {
		userID = AnonymousUserID
	}

	now := s.now().UTC()
	inc := &domain.Incident{
		ID:            uuid.New(),
		Category:      req.Category,
		Lat:           req.Lat,
		Lng:           req.Lng,
		OccurredAt:    now,
		Description:   req.Description,
		LocationBlock: req.Location,
		Severity:      req.Severity,
		Photos:        req.Photos,
		ReporterID:    userID,
		Status:        domain.IncidentPending,
		CreatedAt:     now,
	}

	if inc.Severity == nil {
		if sev, err := s.scorer.ScoreSingle(ctx, inc.Category, inc.Description); err == nil {
			inc.Severity = &sev
		} else if !errors.Is(err, e.ErrExternalService) {
			s.logger.Warn("severity inference failed", slog.Any("error", err))
		}
	}

	lock := s.acquireUser(userID)
	defer s.releaseUser(userID, lock)

	if err := s.incidents.Create(ctx, inc); err != nil {
		return nil, err
	}

	// stale candidate sets would break the ingestion-order tie-break
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("cache invalidate failed", slog.Any("error", err))
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		profile = domain.NewUserProfile(userID, now)
	}

	unlocked := applySubmission(profile, inc, now)

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	if len(unlocked) > 0 {
		payload := domain.AchievementPayload{
			UserID:       userID,
			Achievements: unlocked,
			Level:        profile.Level,
			StreakDays:   profile.StreakDays,
			UnlockedAt:   now,
		}
		if err := s.queue.Enqueue(ctx, payload); err != nil {
			s.logger.Error("achievement enqueue failed", slog.Any("error", err))
		} else {
			s.logger.Info("achievements unlocked",
				slog.String("user_id", userID),
				slog.Any("achievements", unlocked))
		}
	}

	s.logger.Info("report submitted",
		slog.String("id", inc.ID.String()),
		slog.String("user_id", userID),
		slog.String("category", inc.Category))

	return &domain.SubmitReportResponse{Incident: inc, Profile: profile}, nil
}

func (s *reportService) GetReport(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	return s.incidents.Get(ctx, id)
}

// applySubmission recomputes every derived ledger field in one pass so a
// persisted profile is always internally consistent. Returns newly unlocked
// achievement ids.
func applySubmission(p *domain.UserProfile, inc *domain.Incident, now time.Time) []string {
	p.TotalSubmissions++
	if p.SubmissionTypes == nil {
		p.SubmissionTypes = map[string]int{}
	}
	p.SubmissionTypes[inc.Category]++
	p.TotalPhotos += len(inc.Photos)
	p.ReportsPending++

	// streak on UTC calendar days: same day keeps it, exactly one day
	// increments, a longer gap resets to 1
	if p.LastSubmission == nil {
		p.StreakDays = 1
		first := now
		p.FirstSubmission = &first
	} else {
		switch diff := calendarDayDiff(*p.LastSubmission, now); {
		case diff == 0:
			// unchanged
		case diff == 1:
			p.StreakDays++
		default:
			p.StreakDays = 1
		}
	}
	if p.StreakDays > p.LongestStreak {
		p.LongestStreak = p.StreakDays
	}

	xp := 10
	if len(inc.Photos) > 0 {
		xp += 5
	}
	if incidentSeverity(*inc) >= HighSeverity {
		xp += 5
	}
	p.ExperiencePoints += xp
	p.Level = p.ExperiencePoints/100 + 1

	last := now
	p.LastSubmission = &last
	p.UpdatedAt = now

	return unlockAchievements(p)
}

// unlockAchievements grants threshold achievements at most once each.
func unlockAchievements(p *domain.UserProfile) []string {
	var unlocked []string
	grant := func(id string, hit bool) {
		if hit && !p.HasAchievement(id) {
			p.Achievements = append(p.Achievements, id)
			unlocked = append(unlocked, id)
		}
	}

	grant(domain.AchievementFirstReport, p.TotalSubmissions == 1)
	grant(domain.AchievementReporter10, p.TotalSubmissions == 10)
	grant(domain.AchievementReporter50, p.TotalSubmissions == 50)
	grant(domain.AchievementStreak7, p.StreakDays == 7)
	grant(domain.AchievementStreak30, p.StreakDays == 30)
	grant(domain.AchievementPhotographer, p.TotalPhotos >= 10)

	return unlocked
}

func calendarDayDiff(prev, now time.Time) int {
	py, pm, pd := prev.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	a := time.Date(py, pm, pd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
