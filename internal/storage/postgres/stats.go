package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aprameyak/philly/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStatsRepo(pool *pgxpool.Pool, logger *slog.Logger) *StatsRepo {
	return &StatsRepo{pool: pool, logger: logger}
}

func (p *StatsRepo) CountReports(ctx context.Context, minutes int) (int64, error) {
	const op = "postgres.Stats.CountReports"

	if minutes <= 0 || minutes > 1440 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		SELECT COUNT(*)
		FROM incidents
		WHERE created_at >= NOW() - ($1 * INTERVAL '1 minute')
	`

	var cnt int64
	if err := p.pool.QueryRow(ctx, query, minutes).Scan(&cnt); err != nil {
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int("minutes", minutes))
		return 0, e.WrapError(ctx, op, err)
	}
	return cnt, nil
}

func (p *StatsRepo) CountReporters(ctx context.Context, minutes int) (int64, error) {
	const op = "postgres.Stats.CountReporters"

	if minutes <= 0 || minutes > 1440 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		SELECT COUNT(DISTINCT reporter_id)
		FROM incidents
		WHERE created_at >= NOW() - ($1 * INTERVAL '1 minute')
	`

	var cnt int64
	if err := p.pool.QueryRow(ctx, query, minutes).Scan(&cnt); err != nil {
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int("minutes", minutes))
		return 0, e.WrapError(ctx, op, err)
	}
	return cnt, nil
}
