package domain

import "time"

// AchievementPayload is pushed to the notification webhook when a
// submission unlocks one or more achievements.
type AchievementPayload struct {
	UserID       string    `json:"user_id"`
	Achievements []string  `json:"achievements"`
	Level        int       `json:"level"`
	StreakDays   int       `json:"streak_days"`
	UnlockedAt   time.Time `json:"unlocked_at"`
}
