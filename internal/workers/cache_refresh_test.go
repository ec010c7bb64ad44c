package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/logger"
)

type fakeLister struct {
	incidents []domain.Incident
	err       error
	calls     int
}

func (l *fakeLister) ListAll(_ context.Context) ([]domain.Incident, error) {
	l.calls++
	return l.incidents, l.err
}

type fakeCache struct {
	stored  []domain.Incident
	lastTTL time.Duration
	err     error
	calls   int
}

func (c *fakeCache) SetAll(_ context.Context, incidents []domain.Incident, ttl time.Duration) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.stored = incidents
	c.lastTTL = ttl
	return nil
}

func TestRefresh_SwapsCache(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{incidents: []domain.Incident{{ID: uuid.New(), Category: "Thefts"}}}
	cache := &fakeCache{}
	w := NewCacheRefresher(lister, cache, 30*time.Second, logger.Discard())

	w.refresh(context.Background())

	if len(cache.stored) != 1 {
		t.Fatalf("cache not refreshed")
	}
	if cache.lastTTL != 90*time.Second {
		t.Fatalf("expected ttl of three intervals, got %v", cache.lastTTL)
	}
}

func TestRefresh_EmptyStoreLeavesCacheAlone(t *testing.T) {
	t.Parallel()

	cache := &fakeCache{}
	w := NewCacheRefresher(&fakeLister{}, cache, 30*time.Second, logger.Discard())

	w.refresh(context.Background())

	if cache.calls != 0 {
		t.Fatalf("empty scan wrote to the cache")
	}
}

func TestRefresh_ScanErrorSkipsWrite(t *testing.T) {
	t.Parallel()

	cache := &fakeCache{}
	w := NewCacheRefresher(&fakeLister{err: errors.New("pg down")}, cache, 30*time.Second, logger.Discard())

	w.refresh(context.Background())

	if cache.calls != 0 {
		t.Fatalf("failed scan wrote to the cache")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{incidents: []domain.Incident{{ID: uuid.New()}}}
	w := NewCacheRefresher(lister, &fakeCache{}, time.Hour, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("refresher did not stop")
	}

	if lister.calls == 0 {
		t.Fatalf("expected an immediate refresh on start")
	}
}

func TestNewCacheRefresher_DefaultInterval(t *testing.T) {
	t.Parallel()

	w := NewCacheRefresher(&fakeLister{}, &fakeCache{}, 0, logger.Discard())
	if w.interval != 30*time.Second {
		t.Fatalf("expected 30s default got %v", w.interval)
	}
}
