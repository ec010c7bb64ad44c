package service

import (
	"context"

	"github.com/aprameyak/philly/internal/domain"
)

type StatsRepository interface {
	CountReports(ctx context.Context, minutes int) (int64, error)
	CountReporters(ctx context.Context, minutes int) (int64, error)
}

type statsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.SubmissionStats, error) {
	minutes := req.Minutes
	if minutes == 0 {
		minutes = 60
	}

	reports, err := s.repo.CountReports(ctx, minutes)
	if err != nil {
		return nil, err
	}

	reporters, err := s.repo.CountReporters(ctx, minutes)
	if err != nil {
		return nil, err
	}

	return &domain.SubmissionStats{
		ReportCount:   reports,
		ReporterCount: reporters,
		Minutes:       minutes,
	}, nil
}
