package file

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

const (
	kindRules  = "validation_rules"
	kindFields = "custom_fields"
)

// ValidationRuleRepository stores validation rules as JSON files.
type ValidationRuleRepository struct {
	store *store
}

func (r *ValidationRuleRepository) GetByID(ctx context.Context, id string) (*models.ValidationRule, error) {
	rule := &models.ValidationRule{}

	found, err := r.store.read(kindRules, id, rule)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, persistence.ErrRuleNotFound
	}

	return rule, nil
}

// ListByStage returns the stage's rules ordered by creation time, ties
// broken by ID, so evaluation order is deterministic.
func (r *ValidationRuleRepository) ListByStage(ctx context.Context, stageID string, activeOnly bool) ([]*models.ValidationRule, error) {
	rules := make([]*models.ValidationRule, 0)

	err := r.store.list(kindRules, func(data []byte) error {
		rule := &models.ValidationRule{}
		if err := json.Unmarshal(data, rule); err != nil {
			return err
		}

		if rule.StageID != stageID {
			return nil
		}

		if activeOnly && !rule.IsActive {
			return nil
		}

		rules = append(rules, rule)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].CreatedAt.Equal(rules[j].CreatedAt) {
			return rules[i].ID < rules[j].ID
		}

		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})

	return rules, nil
}

func (r *ValidationRuleRepository) Save(ctx context.Context, rule *models.ValidationRule) error {
	return r.store.write(kindRules, rule.ID, rule)
}

func (r *ValidationRuleRepository) Delete(ctx context.Context, id string) error {
	found, err := r.store.remove(kindRules, id)
	if err != nil {
		return err
	}

	if !found {
		return persistence.ErrRuleNotFound
	}

	return nil
}

// DeleteByStage removes every rule attached to a stage. Missing rules
// are not an error: the cascade is idempotent.
func (r *ValidationRuleRepository) DeleteByStage(ctx context.Context, stageID string) error {
	rules, err := r.ListByStage(ctx, stageID, false)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if _, err := r.store.remove(kindRules, rule.ID); err != nil {
			return err
		}
	}

	return nil
}

// CustomFieldRepository stores custom field definitions as JSON files.
type CustomFieldRepository struct {
	store *store
}

func (r *CustomFieldRepository) GetByID(ctx context.Context, id string) (*models.CustomField, error) {
	field := &models.CustomField{}

	found, err := r.store.read(kindFields, id, field)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, persistence.ErrFieldNotFound
	}

	return field, nil
}

func (r *CustomFieldRepository) Save(ctx context.Context, field *models.CustomField) error {
	return r.store.write(kindFields, field.ID, field)
}
