package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hireground/talentgate/pkg/cache"
)

// NewRuleCache creates a rule cache. An empty Redis address selects the
// in-memory cache, which only serves a single instance.
func NewRuleCache(ctx context.Context, logger *slog.Logger, redisAddr, redisPassword string, redisDB int) cache.RuleCache {
	if redisAddr == "" {
		logger.InfoContext(ctx, "using in-memory rule cache")

		return cache.NewMemoryRuleCache(cache.DefaultTTL)
	}

	c, err := cache.NewRedisRuleCache(ctx, redisAddr, redisPassword, redisDB, cache.DefaultTTL)
	if err != nil {
		panic(fmt.Errorf("failed to connect to Redis: %w", err))
	}

	logger.InfoContext(ctx, "using Redis rule cache", "addr", redisAddr)

	return c
}
