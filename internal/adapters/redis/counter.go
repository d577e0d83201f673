package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"nevado_reviews/internal/domain"
)

// CounterStore keeps per-IP rate-limit windows as small JSON blobs with an
// expiry, so abandoned windows clean themselves up.
type CounterStore struct{ c *redis.Client }

func NewCounterStore(c *redis.Client) *CounterStore { return &CounterStore{c: c} }

func (s *CounterStore) Get(ctx context.Context, key string) (domain.Window, bool, error) {
	b, err := s.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return domain.Window{}, false, nil
	}
	if err != nil {
		return domain.Window{}, false, err
	}
	var w domain.Window
	if err := json.Unmarshal(b, &w); err != nil {
		return domain.Window{}, false, err
	}
	return w, true, nil
}

func (s *CounterStore) Put(ctx context.Context, key string, w domain.Window, ttl time.Duration) error {
	b, _ := json.Marshal(w)
	return s.c.Set(ctx, key, b, ttl).Err()
}
