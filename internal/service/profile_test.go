package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/internal/service"
	"github.com/aprameyak/philly/pkg/e"
	"github.com/aprameyak/philly/pkg/logger"
)

func TestGetProfile_LazyCreate(t *testing.T) {
	t.Parallel()

	repo := newMemProfileRepo()
	svc := service.NewProfileService(repo, logger.Discard())

	p, err := svc.GetProfile(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.UserID != "fresh" || p.Level != 1 || p.TotalSubmissions != 0 {
		t.Fatalf("unexpected default profile: %+v", p)
	}
	if len(p.Achievements) != 0 {
		t.Fatalf("fresh profile has achievements: %v", p.Achievements)
	}
	if _, ok := repo.profiles["fresh"]; !ok {
		t.Fatalf("default profile not persisted")
	}
}

func TestGetProfile_ExistingReturned(t *testing.T) {
	t.Parallel()

	repo := newMemProfileRepo()
	existing := domain.NewUserProfile("u1", time.Now().UTC())
	existing.TotalSubmissions = 7
	repo.profiles["u1"] = existing

	svc := service.NewProfileService(repo, logger.Discard())

	p, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.TotalSubmissions != 7 {
		t.Fatalf("expected existing profile got %+v", p)
	}
}

func TestGetProfile_EmptyID(t *testing.T) {
	t.Parallel()

	svc := service.NewProfileService(newMemProfileRepo(), logger.Discard())

	if _, err := svc.GetProfile(context.Background(), ""); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
}

func TestUpdateProfile_RecomputesLevel(t *testing.T) {
	t.Parallel()

	repo := newMemProfileRepo()
	repo.profiles["u1"] = domain.NewUserProfile("u1", time.Now().UTC())

	svc := service.NewProfileService(repo, logger.Discard())

	xp := 250
	p, err := svc.UpdateProfile(context.Background(), "u1", domain.UpdateProfileRequest{ExperiencePoints: &xp})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ExperiencePoints != 250 {
		t.Fatalf("expected 250 xp got %d", p.ExperiencePoints)
	}
	if p.Level != 3 {
		t.Fatalf("expected level 3 got %d", p.Level)
	}
}

func TestUpdateProfile_LongestStreakFollows(t *testing.T) {
	t.Parallel()

	repo := newMemProfileRepo()
	repo.profiles["u1"] = domain.NewUserProfile("u1", time.Now().UTC())

	svc := service.NewProfileService(repo, logger.Discard())

	streak := 12
	p, err := svc.UpdateProfile(context.Background(), "u1", domain.UpdateProfileRequest{StreakDays: &streak})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.LongestStreak != 12 {
		t.Fatalf("expected longest streak 12 got %d", p.LongestStreak)
	}
}

func TestUpdateProfile_NegativeRejected(t *testing.T) {
	t.Parallel()

	repo := newMemProfileRepo()
	repo.profiles["u1"] = domain.NewUserProfile("u1", time.Now().UTC())

	svc := service.NewProfileService(repo, logger.Discard())

	bad := -1
	if _, err := svc.UpdateProfile(context.Background(), "u1", domain.UpdateProfileRequest{TotalSubmissions: &bad}); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := service.NewProfileService(newMemProfileRepo(), logger.Discard())

	xp := 10
	if _, err := svc.UpdateProfile(context.Background(), "ghost", domain.UpdateProfileRequest{ExperiencePoints: &xp}); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestLeaderboard_LimitClamped(t *testing.T) {
	t.Parallel()

	repo := newMemProfileRepo()
	svc := service.NewProfileService(repo, logger.Discard())

	cases := []struct {
		limit int
		want  int
	}{
		{0, 20},
		{-5, 20},
		{101, 20},
		{5, 5},
		{100, 100},
	}
	for _, tc := range cases {
		if _, err := svc.Leaderboard(context.Background(), tc.limit); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if repo.lastLimit != tc.want {
			t.Fatalf("limit %d: expected clamp to %d got %d", tc.limit, tc.want, repo.lastLimit)
		}
	}
}

func TestLeaderboard_OrderedBySubmissions(t *testing.T) {
	t.Parallel()

	repo := newMemProfileRepo()
	now := time.Now().UTC()
	for id, total := range map[string]int{"a": 3, "b": 10, "c": 1} {
		p := domain.NewUserProfile(id, now)
		p.TotalSubmissions = total
		repo.profiles[id] = p
	}

	svc := service.NewProfileService(repo, logger.Discard())

	got, err := svc.Leaderboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 3 || got[0].UserID != "b" || got[1].UserID != "a" || got[2].UserID != "c" {
		t.Fatalf("unexpected order: %+v", got)
	}
}
