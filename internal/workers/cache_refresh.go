package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/aprameyak/philly/internal/domain"
)

type IncidentLister interface {
	ListAll(ctx context.Context) ([]domain.Incident, error)
}

type IncidentCacheService interface {
	SetAll(ctx context.Context, incidents []domain.Incident, ttl time.Duration) error
}

// CacheRefresher keeps the Redis incident cache warm so score queries do
// not pay a full table scan after every ingest-driven invalidation.
type CacheRefresher struct {
	repo     IncidentLister
	cache    IncidentCacheService
	interval time.Duration
	ttl      time.Duration
	logger   *slog.Logger
}

func NewCacheRefresher(repo IncidentLister, cache IncidentCacheService, interval time.Duration, logger *slog.Logger) *CacheRefresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &CacheRefresher{
		repo:     repo,
		cache:    cache,
		interval: interval,
		// TTL outlives two refresh rounds so a slow refresh never leaves
		// the key expired
		ttl:    3 * interval,
		logger: logger,
	}
}

func (w *CacheRefresher) Run(ctx context.Context) {
	w.logger.Info("cache refresher started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cache refresher stopped", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *CacheRefresher) refresh(ctx context.Context) {
	incidents, err := w.repo.ListAll(ctx)
	if err != nil {
		w.logger.Error("incident scan failed", slog.Any("error", err))
		return
	}
	if len(incidents) == 0 {
		return
	}
	if err := w.cache.SetAll(ctx, incidents, w.ttl); err != nil {
		w.logger.Error("cache swap failed", slog.Any("error", err))
		return
	}
	w.logger.Debug("incident cache refreshed", slog.Int("count", len(incidents)))
}
