package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/e"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewProfileRepo(pool *pgxpool.Pool, logger *slog.Logger) *ProfileRepo {
	return &ProfileRepo{pool: pool, logger: logger}
}

const profileColumns = `
	user_id, total_submissions, submission_types, total_photos,
	reports_pending, streak_days, longest_streak, first_submission,
	last_submission, experience_points, level, achievements,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var (
		p     domain.UserProfile
		types []byte
	)
	err := row.Scan(
		&p.UserID,
		&p.TotalSubmissions,
		&types,
		&p.TotalPhotos,
		&p.ReportsPending,
		&p.StreakDays,
		&p.LongestStreak,
		&p.FirstSubmission,
		&p.LastSubmission,
		&p.ExperiencePoints,
		&p.Level,
		&p.Achievements,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(types, &p.SubmissionTypes); err != nil {
		return nil, err
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	return &p, nil
}

func (p *ProfileRepo) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	const op = "postgres.Profile.Get"

	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`

	profile, err := scanProfile(p.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("user_id", userID))
		return nil, e.WrapError(ctx, op, err)
	}
	return profile, nil
}

// Upsert writes the whole ledger row in one statement, so concurrent
// readers never see a profile with half of its derived fields updated.
func (p *ProfileRepo) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	const op = "postgres.Profile.Upsert"

	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	types, err := json.Marshal(profile.SubmissionTypes)
	if err != nil {
		return e.Wrap(op, err)
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = profile.UpdatedAt
	}
	if profile.Achievements == nil {
		profile.Achievements = []string{}
	}

	const query = `
		INSERT INTO user_profiles
			(user_id, total_submissions, submission_types, total_photos,
			 reports_pending, streak_days, longest_streak, first_submission,
			 last_submission, experience_points, level, achievements,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id) DO UPDATE SET
			total_submissions = EXCLUDED.total_submissions,
			submission_types  = EXCLUDED.submission_types,
			total_photos      = EXCLUDED.total_photos,
			reports_pending   = EXCLUDED.reports_pending,
			streak_days       = EXCLUDED.streak_days,
			longest_streak    = EXCLUDED.longest_streak,
			first_submission  = EXCLUDED.first_submission,
			last_submission   = EXCLUDED.last_submission,
			experience_points = EXCLUDED.experience_points,
			level             = EXCLUDED.level,
			achievements      = EXCLUDED.achievements,
			updated_at        = EXCLUDED.updated_at
	`

	_, err = p.pool.Exec(ctx, query,
		profile.UserID,
		profile.TotalSubmissions,
		types,
		profile.TotalPhotos,
		profile.ReportsPending,
		profile.StreakDays,
		profile.LongestStreak,
		profile.FirstSubmission,
		profile.LastSubmission,
		profile.ExperiencePoints,
		profile.Level,
		profile.Achievements,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("user_id", profile.UserID))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (p *ProfileRepo) Leaderboard(ctx context.Context, limit int) ([]*domain.UserProfile, error) {
	const op = "postgres.Profile.Leaderboard"

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT ` + profileColumns + `
		FROM user_profiles
		ORDER BY total_submissions DESC, user_id
		LIMIT $1`

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var profiles []*domain.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return profiles, nil
}
