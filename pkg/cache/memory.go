package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hireground/talentgate/pkg/models"
)

type memoryEntry struct {
	rules    []*models.ValidationRule
	cachedAt time.Time
}

// MemoryRuleCache is a thread-safe in-memory RuleCache for tests and
// single-process deployments.
type MemoryRuleCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryRuleCache creates an in-memory cache. A zero TTL disables
// expiry, leaving only explicit invalidation.
func NewMemoryRuleCache(ttl time.Duration) *MemoryRuleCache {
	return &MemoryRuleCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryRuleCache) Get(ctx context.Context, stageID string) ([]*models.ValidationRule, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[stageID]
	if !found {
		return nil, false, nil
	}

	if c.ttl > 0 && time.Since(entry.cachedAt) > c.ttl {
		return nil, false, nil
	}

	rules := make([]*models.ValidationRule, len(entry.rules))
	copy(rules, entry.rules)

	return rules, true, nil
}

func (c *MemoryRuleCache) Set(ctx context.Context, stageID string, rules []*models.ValidationRule) error {
	stored := make([]*models.ValidationRule, len(rules))
	copy(stored, rules)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[stageID] = memoryEntry{rules: stored, cachedAt: time.Now()}

	return nil
}

func (c *MemoryRuleCache) Invalidate(ctx context.Context, stageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, stageID)

	return nil
}

func (c *MemoryRuleCache) Close() error {
	return nil
}
