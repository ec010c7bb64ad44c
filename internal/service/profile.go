package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/e"
	"github.com/aprameyak/philly/pkg/validator"
)

type profileService struct {
	profiles ProfileRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewProfileService(profiles ProfileRepository, logger *slog.Logger) ProfileService {
	return &profileService{profiles: profiles, logger: logger, now: time.Now}
}

// GetProfile creates the default ledger on first sight of a user id.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, e.ErrInvalidInput
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, err
	}

	profile = domain.NewUserProfile(userID, s.now().UTC())
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile created", slog.String("user_id", userID))
	return profile, nil
}

// UpdateProfile writes the restricted field set; derived fields are
// recomputed so the level invariant survives manual corrections.
func (s *profileService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, e.ErrInvalidInput
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, e.ErrInvalidInput
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.TotalSubmissions != nil {
		profile.TotalSubmissions = *req.TotalSubmissions
	}
	if req.TotalPhotos != nil {
		profile.TotalPhotos = *req.TotalPhotos
	}
	if req.StreakDays != nil {
		profile.StreakDays = *req.StreakDays
	}
	if req.LongestStreak != nil {
		profile.LongestStreak = *req.LongestStreak
	}
	if req.ExperiencePoints != nil {
		profile.ExperiencePoints = *req.ExperiencePoints
	}
	if req.Achievements != nil {
		profile.Achievements = req.Achievements
	}

	profile.Level = profile.ExperiencePoints/100 + 1
	if profile.StreakDays > profile.LongestStreak {
		profile.LongestStreak = profile.StreakDays
	}
	profile.UpdatedAt = s.now().UTC()

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) Leaderboard(ctx context.Context, limit int) ([]*domain.UserProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.profiles.Leaderboard(ctx, limit)
}
