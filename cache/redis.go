package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nonsonwune/hemis_report/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hemis:student-info:"

// RedisStudentCache keeps student-info lookups in Redis so repeated runs do
// not hit the API once per student.
type RedisStudentCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect opens a Redis client at addr and pings it. It returns nil when addr
// is empty or the server is unreachable; callers then run without a cache.
func Connect(ctx context.Context, addr string, ttl time.Duration) *RedisStudentCache {
	if addr == "" {
		log.Println("Warning: REDIS_ADDR is not set, student info will not be cached")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: could not connect to Redis at %s: %v", addr, err)
		rdb.Close()
		return nil
	}

	return New(rdb, ttl)
}

// New wraps an existing client. A zero ttl keeps entries forever.
func New(rdb *redis.Client, ttl time.Duration) *RedisStudentCache {
	return &RedisStudentCache{rdb: rdb, ttl: ttl}
}

func key(studentID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, studentID)
}

// Get implements hemis.StudentCache
func (c *RedisStudentCache) Get(ctx context.Context, studentID int64) (models.StudentInfo, bool, error) {
	var info models.StudentInfo

	b, err := c.rdb.Get(ctx, key(studentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return info, false, nil
	}
	if err != nil {
		return info, false, err
	}

	if err := json.Unmarshal(b, &info); err != nil {
		return info, false, fmt.Errorf("corrupt cache entry %s: %w", key(studentID), err)
	}
	return info, true, nil
}

// Set implements hemis.StudentCache
func (c *RedisStudentCache) Set(ctx context.Context, info models.StudentInfo) error {
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(info.StudentID), b, c.ttl).Err()
}

// Close releases the underlying connection pool
func (c *RedisStudentCache) Close() error {
	return c.rdb.Close()
}
