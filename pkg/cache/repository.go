package cache

import (
	"context"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

// CachedRuleRepository decorates a ValidationRuleRepository with a
// RuleCache. Only the active-rule listing is cached, since that is the
// hot path of stage validation; every mutation invalidates the owning
// stage's entry.
type CachedRuleRepository struct {
	inner persistence.ValidationRuleRepository
	cache RuleCache
}

func NewCachedRuleRepository(inner persistence.ValidationRuleRepository, cache RuleCache) *CachedRuleRepository {
	return &CachedRuleRepository{inner: inner, cache: cache}
}

func (r *CachedRuleRepository) GetByID(ctx context.Context, id string) (*models.ValidationRule, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedRuleRepository) ListByStage(ctx context.Context, stageID string, activeOnly bool) ([]*models.ValidationRule, error) {
	if !activeOnly {
		return r.inner.ListByStage(ctx, stageID, activeOnly)
	}

	cached, found, err := r.cache.Get(ctx, stageID)
	if err == nil && found {
		return cached, nil
	}

	rules, err := r.inner.ListByStage(ctx, stageID, true)
	if err != nil {
		return nil, err
	}

	// A write failure degrades to uncached reads, never to an error.
	_ = r.cache.Set(ctx, stageID, rules)

	return rules, nil
}

func (r *CachedRuleRepository) Save(ctx context.Context, rule *models.ValidationRule) error {
	if err := r.inner.Save(ctx, rule); err != nil {
		return err
	}

	return r.cache.Invalidate(ctx, rule.StageID)
}

func (r *CachedRuleRepository) Delete(ctx context.Context, id string) error {
	rule, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}

	return r.cache.Invalidate(ctx, rule.StageID)
}

func (r *CachedRuleRepository) DeleteByStage(ctx context.Context, stageID string) error {
	if err := r.inner.DeleteByStage(ctx, stageID); err != nil {
		return err
	}

	return r.cache.Invalidate(ctx, stageID)
}
