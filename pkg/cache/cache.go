// Package cache provides a per-stage cache of active validation rules
// sitting in front of the rule repository. Implementations may swap
// between in-memory and Redis backends.
package cache

import (
	"context"
	"time"

	"github.com/hireground/talentgate/pkg/models"
)

// DefaultTTL bounds staleness when invalidation messages are missed.
const DefaultTTL = 5 * time.Minute

// RuleCache stores the active rules of a stage between evaluations.
// Get reports a miss with found=false; expired entries are misses.
type RuleCache interface {
	Get(ctx context.Context, stageID string) ([]*models.ValidationRule, bool, error)
	Set(ctx context.Context, stageID string, rules []*models.ValidationRule) error
	// Invalidate drops one stage's entry, forcing a repository reload on
	// the next Get. Invalidating an absent entry is a no-op.
	Invalidate(ctx context.Context, stageID string) error
	Close() error
}
