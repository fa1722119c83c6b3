package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/hireground/talentgate/pkg/models"
)

const ruleKeyPrefix = "talentgate:rules:stage:"

// RedisRuleCache is a Redis-backed RuleCache shared across processes.
type RedisRuleCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisRuleCache connects to Redis and verifies the connection.
func NewRedisRuleCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisRuleCache, error) {
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := client.Ping(pingCtx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRuleCache{client: client, ttl: ttl}, nil
}

func (c *RedisRuleCache) Get(ctx context.Context, stageID string) ([]*models.ValidationRule, bool, error) {
	payload, err := c.client.Get(ctx, ruleKeyPrefix+stageID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to read rule cache: %w", err)
	}

	var rules []*models.ValidationRule

	err = json.Unmarshal(payload, &rules)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode cached rules: %w", err)
	}

	return rules, true, nil
}

func (c *RedisRuleCache) Set(ctx context.Context, stageID string, rules []*models.ValidationRule) error {
	payload, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}

	err = c.client.Set(ctx, ruleKeyPrefix+stageID, payload, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to write rule cache: %w", err)
	}

	return nil
}

func (c *RedisRuleCache) Invalidate(ctx context.Context, stageID string) error {
	err := c.client.Del(ctx, ruleKeyPrefix+stageID).Err()
	if err != nil {
		return fmt.Errorf("failed to invalidate rule cache: %w", err)
	}

	return nil
}

func (c *RedisRuleCache) Close() error {
	return c.client.Close()
}
