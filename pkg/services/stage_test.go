package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hireground/talentgate/pkg/events"
	"github.com/hireground/talentgate/pkg/mocks"
	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/services"
)

func newStageService(t *testing.T) (*services.StageService, *mocks.MockPersistence, *mocks.MockEventBus) {
	t.Helper()

	p := &mocks.MockPersistence{}
	eb := &mocks.MockEventBus{}

	return services.NewStageService(p, &p.Rules, eb, testLogger()), p, eb
}

func mustStage(t *testing.T, workflowID, name string, order int) *models.WorkflowStage {
	t.Helper()

	stage, err := models.NewWorkflowStage(models.WorkflowStageParams{
		WorkflowID: workflowID,
		Name:       name,
		StageType:  string(models.StageTypeProgress),
		Order:      order,
	})
	require.NoError(t, err)

	return stage
}

func TestStageService_CreateStage(t *testing.T) {
	svc, p, eb := newStageService(t)

	workflow := activeWorkflow(t)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Stages.On("Save", mock.Anything, mock.AnythingOfType("*models.WorkflowStage")).Return(nil)
	eb.On("Publish", mock.Anything, workflow.ID, mock.Anything).Return(nil)

	stage, err := svc.CreateStage(context.Background(), models.WorkflowStageParams{
		WorkflowID: workflow.ID,
		Name:       "Phone Screen",
		StageType:  string(models.StageTypeInitial),
		Order:      0,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, stage.ID)
	assert.True(t, stage.IsActive)
	p.Stages.AssertExpectations(t)
}

func TestStageService_CreateStage_NextPhaseOnNonTerminal(t *testing.T) {
	svc, p, _ := newStageService(t)

	workflow := activeWorkflow(t)
	nextPhase := "phase-2"

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)

	_, err := svc.CreateStage(context.Background(), models.WorkflowStageParams{
		WorkflowID:  workflow.ID,
		Name:        "Phone Screen",
		StageType:   string(models.StageTypeProgress),
		NextPhaseID: &nextPhase,
	})
	require.ErrorIs(t, err, models.ErrNextPhaseForbidden)
	assert.True(t, services.IsValidationError(err))
}

func TestStageService_DeleteStage_CascadesRules(t *testing.T) {
	svc, p, eb := newStageService(t)

	stage := mustStage(t, "workflow-1", "Phone Screen", 0)

	rules := []*models.ValidationRule{
		mustRule(t, stage.ID), mustRule(t, stage.ID),
	}

	p.Stages.On("GetByID", mock.Anything, stage.ID).Return(stage, nil)
	p.Rules.On("ListByStage", mock.Anything, stage.ID, false).Return(rules, nil)
	p.Rules.On("DeleteByStage", mock.Anything, stage.ID).Return(nil)
	p.Stages.On("Delete", mock.Anything, stage.ID).Return(nil)

	var published events.StageDeleted

	eb.On("Publish", mock.Anything, stage.WorkflowID, mock.Anything).
		Run(func(args mock.Arguments) {
			published = args.Get(2).(events.StageDeleted)
		}).
		Return(nil)

	require.NoError(t, svc.DeleteStage(context.Background(), stage.ID))

	assert.Equal(t, 2, published.DeletedRules)
	p.Rules.AssertExpectations(t)
	p.Stages.AssertExpectations(t)
}

func TestStageService_DeleteStage_RuleCascadeFailureAborts(t *testing.T) {
	svc, p, _ := newStageService(t)

	stage := mustStage(t, "workflow-1", "Phone Screen", 0)

	p.Stages.On("GetByID", mock.Anything, stage.ID).Return(stage, nil)
	p.Rules.On("ListByStage", mock.Anything, stage.ID, false).
		Return([]*models.ValidationRule{}, nil)
	p.Rules.On("DeleteByStage", mock.Anything, stage.ID).Return(assert.AnError)

	require.Error(t, svc.DeleteStage(context.Background(), stage.ID))
	p.Stages.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStageService_ReorderStages(t *testing.T) {
	svc, p, eb := newStageService(t)

	workflow := activeWorkflow(t)
	first := mustStage(t, workflow.ID, "Phone Screen", 0)
	second := mustStage(t, workflow.ID, "Onsite", 1)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Stages.On("ListByWorkflow", mock.Anything, workflow.ID).
		Return([]*models.WorkflowStage{first, second}, nil)
	p.Stages.On("Save", mock.Anything, first).Return(nil)
	p.Stages.On("Save", mock.Anything, second).Return(nil)
	eb.On("Publish", mock.Anything, workflow.ID, mock.Anything).Return(nil)

	_, err := svc.ReorderStages(context.Background(), workflow.ID, map[string]int{
		first.ID:  1,
		second.ID: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 0, second.Order)
}

func TestStageService_ReorderStages_DuplicateOrder(t *testing.T) {
	svc, p, _ := newStageService(t)

	workflow := activeWorkflow(t)
	first := mustStage(t, workflow.ID, "Phone Screen", 0)
	second := mustStage(t, workflow.ID, "Onsite", 1)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Stages.On("ListByWorkflow", mock.Anything, workflow.ID).
		Return([]*models.WorkflowStage{first, second}, nil)

	_, err := svc.ReorderStages(context.Background(), workflow.ID, map[string]int{
		first.ID:  0,
		second.ID: 0,
	})
	require.ErrorIs(t, err, services.ErrDuplicateOrder)

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	p.Stages.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestStageService_ReorderStages_UnknownStage(t *testing.T) {
	svc, p, _ := newStageService(t)

	workflow := activeWorkflow(t)
	first := mustStage(t, workflow.ID, "Phone Screen", 0)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Stages.On("ListByWorkflow", mock.Anything, workflow.ID).
		Return([]*models.WorkflowStage{first}, nil)

	_, err := svc.ReorderStages(context.Background(), workflow.ID, map[string]int{
		"someone-elses-stage": 0,
	})
	require.ErrorIs(t, err, services.ErrUnknownStage)
	p.Stages.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestStageService_ReorderStages_IncompleteCoverage(t *testing.T) {
	svc, p, _ := newStageService(t)

	workflow := activeWorkflow(t)
	first := mustStage(t, workflow.ID, "Phone Screen", 0)
	second := mustStage(t, workflow.ID, "Onsite", 1)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Stages.On("ListByWorkflow", mock.Anything, workflow.ID).
		Return([]*models.WorkflowStage{first, second}, nil)

	_, err := svc.ReorderStages(context.Background(), workflow.ID, map[string]int{
		first.ID: 0,
	})
	require.ErrorIs(t, err, services.ErrIncompleteReorder)
	assert.True(t, services.IsValidationError(err))
}

func TestStageService_UpdateStage(t *testing.T) {
	svc, p, eb := newStageService(t)

	stage := mustStage(t, "workflow-1", "Phone Screen", 0)

	p.Stages.On("GetByID", mock.Anything, stage.ID).Return(stage, nil)
	p.Stages.On("Save", mock.Anything, stage).Return(nil)
	eb.On("Publish", mock.Anything, stage.WorkflowID, mock.Anything).Return(nil)

	updated, err := svc.UpdateStage(context.Background(), stage.ID, models.WorkflowStageParams{
		Name:      "Technical Screen",
		StageType: string(models.StageTypeProgress),
		Order:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, "Technical Screen", updated.Name)
	assert.Equal(t, 2, updated.Order)
	assert.Equal(t, "workflow-1", updated.WorkflowID)
}
