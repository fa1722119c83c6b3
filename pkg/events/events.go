// Package events defines event types and structures for screening
// lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/hireground/talentgate/pkg/models"
)

type EventType string

// Topic is the single stream all domain events are published on.
const Topic = "talentgate.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Workflow lifecycle events.
	WorkflowCreatedEvent      EventType = "workflow.created"
	WorkflowActivatedEvent    EventType = "workflow.activated"
	WorkflowDeactivatedEvent  EventType = "workflow.deactivated"
	WorkflowArchivedEvent     EventType = "workflow.archived"
	WorkflowSetAsDefaultEvent EventType = "workflow.set_as_default"

	// Stage and rule lifecycle events.
	StageCreatedEvent    EventType = "stage.created"
	StageUpdatedEvent    EventType = "stage.updated"
	StageDeletedEvent    EventType = "stage.deleted"
	StagesReorderedEvent EventType = "stages.reordered"
	RuleCreatedEvent     EventType = "rule.created"
	RuleUpdatedEvent     EventType = "rule.updated"
	RuleDeletedEvent     EventType = "rule.deleted"

	// Screening outcome events.
	StageValidationCompletedEvent EventType = "screening.stage_validation.completed"
	AnswersEvaluatedEvent         EventType = "screening.answers.evaluated"
	ApplicationAutoRejectedEvent  EventType = "application.auto_rejected"
	ApplicationAutoApprovedEvent  EventType = "application.auto_approved"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a fresh event envelope.
func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

type WorkflowCreated struct {
	BaseEvent

	WorkflowID   string              `json:"workflow_id"`
	CompanyID    string              `json:"company_id"`
	WorkflowType models.WorkflowType `json:"workflow_type"`
}

func (e WorkflowCreated) GetType() EventType {
	return WorkflowCreatedEvent
}

type WorkflowActivated struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
}

func (e WorkflowActivated) GetType() EventType {
	return WorkflowActivatedEvent
}

type WorkflowDeactivated struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
}

func (e WorkflowDeactivated) GetType() EventType {
	return WorkflowDeactivatedEvent
}

type WorkflowArchived struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
}

func (e WorkflowArchived) GetType() EventType {
	return WorkflowArchivedEvent
}

type WorkflowSetAsDefault struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
	CompanyID  string `json:"company_id"`
	// PreviousDefaultID is empty when no default was replaced.
	PreviousDefaultID string `json:"previous_default_id,omitempty"`
}

func (e WorkflowSetAsDefault) GetType() EventType {
	return WorkflowSetAsDefaultEvent
}

type StageCreated struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
	StageID    string `json:"stage_id"`
}

func (e StageCreated) GetType() EventType {
	return StageCreatedEvent
}

type StageUpdated struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
	StageID    string `json:"stage_id"`
}

func (e StageUpdated) GetType() EventType {
	return StageUpdatedEvent
}

type StageDeleted struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
	StageID    string `json:"stage_id"`
	// DeletedRules counts the validation rules removed by the cascade.
	DeletedRules int `json:"deleted_rules"`
}

func (e StageDeleted) GetType() EventType {
	return StageDeletedEvent
}

type StagesReordered struct {
	BaseEvent

	WorkflowID string         `json:"workflow_id"`
	Order      map[string]int `json:"order"`
}

func (e StagesReordered) GetType() EventType {
	return StagesReorderedEvent
}

type RuleCreated struct {
	BaseEvent

	StageID string `json:"stage_id"`
	RuleID  string `json:"rule_id"`
}

func (e RuleCreated) GetType() EventType {
	return RuleCreatedEvent
}

type RuleUpdated struct {
	BaseEvent

	StageID string `json:"stage_id"`
	RuleID  string `json:"rule_id"`
}

func (e RuleUpdated) GetType() EventType {
	return RuleUpdatedEvent
}

type RuleDeleted struct {
	BaseEvent

	StageID string `json:"stage_id"`
	RuleID  string `json:"rule_id"`
}

func (e RuleDeleted) GetType() EventType {
	return RuleDeletedEvent
}

type StageValidationCompleted struct {
	BaseEvent

	StageID string                       `json:"stage_id"`
	Result  models.StageValidationResult `json:"result"`
}

func (e StageValidationCompleted) GetType() EventType {
	return StageValidationCompletedEvent
}

type AnswersEvaluated struct {
	BaseEvent

	ApplicationID string `json:"application_id"`
	PositionID    string `json:"position_id"`
	IsValid       bool   `json:"is_valid"`
	ErrorCount    int    `json:"error_count"`
	WarningCount  int    `json:"warning_count"`
}

func (e AnswersEvaluated) GetType() EventType {
	return AnswersEvaluatedEvent
}

type ApplicationAutoRejected struct {
	BaseEvent

	ApplicationID string `json:"application_id"`
	Reason        string `json:"reason"`
}

func (e ApplicationAutoRejected) GetType() EventType {
	return ApplicationAutoRejectedEvent
}

type ApplicationAutoApproved struct {
	BaseEvent

	ApplicationID string `json:"application_id"`
}

func (e ApplicationAutoApproved) GetType() EventType {
	return ApplicationAutoApprovedEvent
}
