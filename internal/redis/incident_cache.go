package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aprameyak/philly/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// IncidentCache keeps the full incident table as a single JSON value, so a
// swap is atomic from a reader's perspective and the stored slice keeps
// ingestion order.
type IncidentCache struct {
	client *goredis.Client
	key    string
}

func NewIncidentCache(r *Redis) *IncidentCache {
	return &IncidentCache{
		client: r.Client,
		key:    "incidents:all",
	}
}

func (c *IncidentCache) GetAll(ctx context.Context) ([]domain.Incident, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var incidents []domain.Incident
	if err := json.Unmarshal(data, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

func (c *IncidentCache) SetAll(ctx context.Context, incidents []domain.Incident, ttl time.Duration) error {
	b, err := json.Marshal(incidents)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, ttl).Err()
}

func (c *IncidentCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
