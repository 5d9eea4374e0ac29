package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	dom "taskbook/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "task:list:"

// TaskCache caches per-user sorted task lists in Redis.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list for the user and sort key, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, userID int64, sortBy, order string) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(userID, sortBy, order)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list under the user and sort key.
func (c *TaskCache) SetList(ctx context.Context, userID int64, sortBy, order string, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID, sortBy, order), b, c.ttl).Err()
}

// Invalidate removes every cached list for the user (cache invalidation on write).
func (c *TaskCache) Invalidate(ctx context.Context, userID int64) error {
	pattern := fmt.Sprintf("%s%d:*", keyListPrefix, userID)
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func listKey(userID int64, sortBy, order string) string {
	return fmt.Sprintf("%s%d:%s:%s", keyListPrefix, userID, sortBy, order)
}
