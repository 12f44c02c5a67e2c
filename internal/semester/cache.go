package semester

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ovaphlow/pitchfork/service-academics/internal/semester/entity"
)

const cacheKeyPrefix = "academics:semester:current:"

// Cache keeps the current-semester lookup per calendar day in Redis.
// Only hits are cached; a day between terms always goes to the store.
type Cache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCache(rdb redis.Cmdable, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, day string) (*entity.Semester, error) {
	raw, err := c.rdb.Get(ctx, cacheKeyPrefix+day).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var s entity.Semester
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Cache) Set(ctx context.Context, day string, s *entity.Semester) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKeyPrefix+day, raw, c.ttl).Err()
}
