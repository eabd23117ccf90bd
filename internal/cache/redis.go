package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/types"
)

// RedisCache shares the staleness window across replicas. Constructed only
// when REDIS_ADDR is set; otherwise the in-process MemoryCache is used.
type RedisCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisCache(log *logger.Logger) (*RedisCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{
		log: log.With("service", "RedisAssessmentCache"),
		rdb: rdb,
	}, nil
}

func cacheKey(studentID string) string {
	return "risk:assessment:" + studentID
}

func (c *RedisCache) Get(ctx context.Context, studentID string) (*types.RiskAssessment, bool, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(studentID)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var a types.RiskAssessment
	if err := json.Unmarshal(raw, &a); err != nil {
		// Corrupt entry; treat as a miss and let it be overwritten.
		c.log.Warn("Dropping undecodable cache entry", "student_id", studentID, "error", err)
		return nil, false, nil
	}
	return &a, true, nil
}

func (c *RedisCache) Set(ctx context.Context, studentID string, a *types.RiskAssessment, ttl time.Duration) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal assessment: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey(studentID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, studentID string) error {
	if err := c.rdb.Del(ctx, cacheKey(studentID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
