package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hireground/talentgate/pkg/eventbus"
	"github.com/hireground/talentgate/pkg/events"
	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

// RuleService owns validation rule CRUD. Give it the cached rule
// repository so mutations invalidate the per-stage cache.
type RuleService struct {
	rules    persistence.ValidationRuleRepository
	stages   persistence.StageRepository
	eventBus eventbus.EventPublisher
	logger   *slog.Logger
}

// NewRuleService creates a new rule service.
func NewRuleService(rules persistence.ValidationRuleRepository, stages persistence.StageRepository, eb eventbus.EventPublisher, logger *slog.Logger) *RuleService {
	return &RuleService{
		rules:    rules,
		stages:   stages,
		eventBus: eb,
		logger:   logger.With("module", "rule_service"),
	}
}

// CreateRule builds and persists a rule after checking the owning stage
// exists.
func (s *RuleService) CreateRule(ctx context.Context, params models.ValidationRuleParams) (*models.ValidationRule, error) {
	if _, err := s.stages.GetByID(ctx, params.StageID); err != nil {
		return nil, err
	}

	rule, err := models.NewValidationRule(params)
	if err != nil {
		return nil, err
	}

	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	s.publish(ctx, rule.StageID, events.RuleCreated{
		BaseEvent: events.NewBaseEvent(events.RuleCreatedEvent),
		StageID:   rule.StageID,
		RuleID:    rule.ID,
	})

	return rule, nil
}

// GetRule returns one rule by id.
func (s *RuleService) GetRule(ctx context.Context, id string) (*models.ValidationRule, error) {
	return s.rules.GetByID(ctx, id)
}

// ListRules returns a stage's rules in evaluation order.
func (s *RuleService) ListRules(ctx context.Context, stageID string, activeOnly bool) ([]*models.ValidationRule, error) {
	if _, err := s.stages.GetByID(ctx, stageID); err != nil {
		return nil, err
	}

	return s.rules.ListByStage(ctx, stageID, activeOnly)
}

// UpdateRule applies a partial update to a rule.
func (s *RuleService) UpdateRule(ctx context.Context, id string, update models.ValidationRuleUpdate) (*models.ValidationRule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := rule.Update(update); err != nil {
		return nil, err
	}

	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	s.publish(ctx, rule.StageID, events.RuleUpdated{
		BaseEvent: events.NewBaseEvent(events.RuleUpdatedEvent),
		StageID:   rule.StageID,
		RuleID:    rule.ID,
	})

	return rule, nil
}

// ActivateRule re-enables a rule for evaluation.
func (s *RuleService) ActivateRule(ctx context.Context, id string) (*models.ValidationRule, error) {
	return s.setActive(ctx, id, true)
}

// DeactivateRule excludes a rule from evaluation without deleting it.
func (s *RuleService) DeactivateRule(ctx context.Context, id string) (*models.ValidationRule, error) {
	return s.setActive(ctx, id, false)
}

func (s *RuleService) setActive(ctx context.Context, id string, active bool) (*models.ValidationRule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		rule.Activate()
	} else {
		rule.Deactivate()
	}

	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	s.publish(ctx, rule.StageID, events.RuleUpdated{
		BaseEvent: events.NewBaseEvent(events.RuleUpdatedEvent),
		StageID:   rule.StageID,
		RuleID:    rule.ID,
	})

	return rule, nil
}

// DeleteRule removes a rule.
func (s *RuleService) DeleteRule(ctx context.Context, id string) error {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, rule.StageID, events.RuleDeleted{
		BaseEvent: events.NewBaseEvent(events.RuleDeletedEvent),
		StageID:   rule.StageID,
		RuleID:    rule.ID,
	})

	return nil
}

func (s *RuleService) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
