package domain

import "time"

const (
	AchievementFirstReport  = "first_report"
	AchievementReporter10   = "reporter_10"
	AchievementReporter50   = "reporter_50"
	AchievementStreak7      = "streak_7"
	AchievementStreak30     = "streak_30"
	AchievementPhotographer = "photographer"
)

// UserProfile is the gamification ledger for a single reporter. Created
// lazily, mutated exactly once per submission, never deleted.
//
// Invariant: Level = ExperiencePoints/100 + 1.
type UserProfile struct {
	UserID           string         `json:"user_id"`
	TotalSubmissions int            `json:"total_submissions"`
	SubmissionTypes  map[string]int `json:"submission_types"`
	TotalPhotos      int            `json:"total_photos_submitted"`
	ReportsPending   int            `json:"reports_pending"`
	StreakDays       int            `json:"streak_days"`
	LongestStreak    int            `json:"longest_streak"`
	FirstSubmission  *time.Time     `json:"first_submission_date,omitempty"`
	LastSubmission   *time.Time     `json:"last_submission_date,omitempty"`
	ExperiencePoints int            `json:"experience_points"`
	Level            int            `json:"level"`
	Achievements     []string       `json:"achievements"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// NewUserProfile returns the default ledger state for a first-seen user.
func NewUserProfile(userID string, now time.Time) *UserProfile {
	return &UserProfile{
		UserID:          userID,
		SubmissionTypes: map[string]int{},
		Level:           1,
		Achievements:    []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (p *UserProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// UpdateProfileRequest carries the administratively writable subset of the
// ledger; nil fields are left untouched.
type UpdateProfileRequest struct {
	TotalSubmissions *int     `json:"total_submissions" validate:"omitempty,min=0"`
	TotalPhotos      *int     `json:"total_photos_submitted" validate:"omitempty,min=0"`
	StreakDays       *int     `json:"streak_days" validate:"omitempty,min=0"`
	LongestStreak    *int     `json:"longest_streak" validate:"omitempty,min=0"`
	ExperiencePoints *int     `json:"experience_points" validate:"omitempty,min=0"`
	Achievements     []string `json:"achievements"`
}
