package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkflow(t *testing.T) *Workflow {
	t.Helper()

	workflow, err := NewWorkflow(WorkflowParams{
		CompanyID: "company-1",
		Type:      "candidate_application",
		Name:      "Engineering hiring",
	})
	require.NoError(t, err)

	return workflow
}

func TestNewWorkflow(t *testing.T) {
	workflow := newTestWorkflow(t)

	assert.NotEmpty(t, workflow.ID)
	assert.Equal(t, WorkflowStatusDraft, workflow.Status)
	assert.Equal(t, DisplayModeKanban, workflow.DisplayMode)
	assert.False(t, workflow.IsDefault)

	validate := validator.New(validator.WithRequiredStructEnabled())
	assert.NoError(t, validate.Struct(workflow))
}

func TestNewWorkflow_InvalidType(t *testing.T) {
	_, err := NewWorkflow(WorkflowParams{
		CompanyID: "company-1",
		Type:      "procurement",
		Name:      "Nope",
	})
	require.ErrorIs(t, err, ErrInvalidWorkflowType)
}

func TestWorkflow_StatusMachine(t *testing.T) {
	workflow := newTestWorkflow(t)

	// only ACTIVE workflows may be archived
	require.ErrorIs(t, workflow.Archive(), ErrWorkflowNotActive)

	require.NoError(t, workflow.Activate())
	assert.Equal(t, WorkflowStatusActive, workflow.Status)

	require.NoError(t, workflow.Deactivate())
	assert.Equal(t, WorkflowStatusDraft, workflow.Status)

	require.NoError(t, workflow.Activate())
	require.NoError(t, workflow.Archive())
	assert.Equal(t, WorkflowStatusArchived, workflow.Status)

	// archived is terminal
	require.ErrorIs(t, workflow.Activate(), ErrWorkflowArchived)
	require.ErrorIs(t, workflow.Deactivate(), ErrWorkflowArchived)
}

func TestWorkflow_DefaultGuards(t *testing.T) {
	workflow := newTestWorkflow(t)

	// only an active workflow may become default
	require.ErrorIs(t, workflow.SetAsDefault(), ErrWorkflowNotActive)

	require.NoError(t, workflow.Activate())
	require.NoError(t, workflow.SetAsDefault())
	assert.True(t, workflow.IsDefault)

	// the default cannot leave ACTIVE while still default
	require.ErrorIs(t, workflow.Deactivate(), ErrDefaultWorkflowLocked)
	require.ErrorIs(t, workflow.Archive(), ErrDefaultWorkflowLocked)

	workflow.ClearDefault()
	require.NoError(t, workflow.Archive())
}

func TestNewWorkflowStage_NextPhaseInvariant(t *testing.T) {
	next := "phase-2"

	for _, stageType := range []string{"initial", "progress", "hold"} {
		_, err := NewWorkflowStage(WorkflowStageParams{
			WorkflowID:  "wf-1",
			Name:        "Stage",
			StageType:   stageType,
			NextPhaseID: &next,
		})
		require.ErrorIs(t, err, ErrNextPhaseForbidden, stageType)
	}

	for _, stageType := range []string{"success", "fail"} {
		stage, err := NewWorkflowStage(WorkflowStageParams{
			WorkflowID:  "wf-1",
			Name:        "Stage",
			StageType:   stageType,
			NextPhaseID: &next,
		})
		require.NoError(t, err, stageType)
		assert.Equal(t, &next, stage.NextPhaseID)
	}
}

func TestNewWorkflowStage_RangeValidation(t *testing.T) {
	_, err := NewWorkflowStage(WorkflowStageParams{
		WorkflowID: "wf-1", Name: "Stage", StageType: "progress", Order: -1,
	})
	require.ErrorIs(t, err, ErrNegativeOrder)

	badDuration := -10
	_, err = NewWorkflowStage(WorkflowStageParams{
		WorkflowID: "wf-1", Name: "Stage", StageType: "progress", DurationMinutes: &badDuration,
	})
	require.ErrorIs(t, err, ErrInvalidDuration)

	badDeadline := 0
	_, err = NewWorkflowStage(WorkflowStageParams{
		WorkflowID: "wf-1", Name: "Stage", StageType: "progress", DeadlineDays: &badDeadline,
	})
	require.ErrorIs(t, err, ErrInvalidDeadline)

	badCost := -1.5
	_, err = NewWorkflowStage(WorkflowStageParams{
		WorkflowID: "wf-1", Name: "Stage", StageType: "progress", CostEstimate: &badCost,
	})
	require.ErrorIs(t, err, ErrInvalidCost)
}

func TestWorkflowStage_UpdateRevalidates(t *testing.T) {
	stage, err := NewWorkflowStage(WorkflowStageParams{
		WorkflowID: "wf-1", Name: "Screening", StageType: "progress", Order: 1,
	})
	require.NoError(t, err)

	next := "phase-2"
	err = stage.Update(WorkflowStageParams{
		WorkflowID: "wf-1", Name: "Screening", StageType: "progress", Order: 1, NextPhaseID: &next,
	})
	require.ErrorIs(t, err, ErrNextPhaseForbidden)
	assert.Nil(t, stage.NextPhaseID) // nothing mutated

	err = stage.Update(WorkflowStageParams{
		WorkflowID: "wf-1", Name: "Offer accepted", StageType: "success", Order: 5, NextPhaseID: &next,
	})
	require.NoError(t, err)
	assert.Equal(t, "Offer accepted", stage.Name)
	assert.Equal(t, StageTypeSuccess, stage.StageType)
	assert.Equal(t, 5, stage.Order)
}

func TestWorkflowStage_Reorder(t *testing.T) {
	stage, err := NewWorkflowStage(WorkflowStageParams{
		WorkflowID: "wf-1", Name: "Screening", StageType: "progress", Order: 1,
	})
	require.NoError(t, err)

	name := stage.Name

	require.NoError(t, stage.Reorder(4))
	assert.Equal(t, 4, stage.Order)
	assert.Equal(t, name, stage.Name) // reorder touches only the order

	require.ErrorIs(t, stage.Reorder(-1), ErrNegativeOrder)
}

func TestStageType_IsTerminal(t *testing.T) {
	assert.True(t, StageTypeSuccess.IsTerminal())
	assert.True(t, StageTypeFail.IsTerminal())
	assert.False(t, StageTypeInitial.IsTerminal())
	assert.False(t, StageTypeProgress.IsTerminal())
	assert.False(t, StageTypeHold.IsTerminal())
}

func TestInterviewConfiguration_MapRoundTrip(t *testing.T) {
	config := InterviewConfiguration{
		Name:            "System design",
		InterviewType:   "technical",
		DurationMinutes: 60,
		Mode:            InterviewModeRemote,
		Required:        true,
		Interviewers:    []string{"user-1", "user-2"},
	}

	assert.Equal(t, config, InterviewConfigurationFromMap(config.ToMap()))
}

func TestApplication_Reject(t *testing.T) {
	app := &Application{ID: "app-1", PositionID: "pos-1", Status: ApplicationStatusScreening}

	require.NoError(t, app.Reject("salary expectation above cap"))
	assert.Equal(t, ApplicationStatusRejected, app.Status)
	assert.Equal(t, "salary expectation above cap", app.Note)

	require.ErrorIs(t, app.Reject("again"), ErrApplicationFinalized)
	require.ErrorIs(t, app.Approve("nope"), ErrApplicationFinalized)
}
