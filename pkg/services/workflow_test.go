package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hireground/talentgate/pkg/mocks"
	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
	"github.com/hireground/talentgate/pkg/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWorkflowService(t *testing.T) (*services.WorkflowService, *mocks.MockPersistence, *mocks.MockEventBus) {
	t.Helper()

	p := &mocks.MockPersistence{}
	eb := &mocks.MockEventBus{}

	return services.NewWorkflowService(p, eb, testLogger()), p, eb
}

func activeWorkflow(t *testing.T) *models.Workflow {
	t.Helper()

	workflow, err := models.NewWorkflow(models.WorkflowParams{
		CompanyID: "company-1",
		Type:      string(models.WorkflowTypeCandidateApplication),
		Name:      "Engineering Hiring",
	})
	require.NoError(t, err)
	require.NoError(t, workflow.Activate())

	return workflow
}

func TestWorkflowService_CreateWorkflow(t *testing.T) {
	svc, p, eb := newWorkflowService(t)

	p.Workflows.On("Save", mock.Anything, mock.AnythingOfType("*models.Workflow")).Return(nil)
	eb.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	workflow, err := svc.CreateWorkflow(context.Background(), services.CreateWorkflowRequest{
		CompanyID: "company-1",
		Type:      string(models.WorkflowTypeCandidateApplication),
		Name:      "Engineering Hiring",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, workflow.ID)
	assert.Equal(t, models.WorkflowStatusDraft, workflow.Status)
	assert.Equal(t, models.DisplayModeKanban, workflow.DisplayMode)
	p.Workflows.AssertExpectations(t)
	eb.AssertExpectations(t)
}

func TestWorkflowService_CreateWorkflow_InvalidRequest(t *testing.T) {
	svc, _, _ := newWorkflowService(t)

	_, err := svc.CreateWorkflow(context.Background(), services.CreateWorkflowRequest{
		CompanyID: "company-1",
		Type:      string(models.WorkflowTypeCandidateApplication),
		Name:      "ab",
	})
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}

func TestWorkflowService_CreateWorkflow_UnknownType(t *testing.T) {
	svc, _, _ := newWorkflowService(t)

	_, err := svc.CreateWorkflow(context.Background(), services.CreateWorkflowRequest{
		CompanyID: "company-1",
		Type:      "sprint_planning",
		Name:      "Engineering Hiring",
	})
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}

func TestWorkflowService_ActivateWorkflow(t *testing.T) {
	svc, p, eb := newWorkflowService(t)

	workflow, err := models.NewWorkflow(models.WorkflowParams{
		CompanyID: "company-1",
		Type:      string(models.WorkflowTypeCandidateApplication),
		Name:      "Engineering Hiring",
	})
	require.NoError(t, err)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Workflows.On("Save", mock.Anything, workflow).Return(nil)
	eb.On("Publish", mock.Anything, workflow.ID, mock.Anything).Return(nil)

	activated, err := svc.ActivateWorkflow(context.Background(), workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusActive, activated.Status)
}

func TestWorkflowService_ActivateWorkflow_Archived(t *testing.T) {
	svc, p, _ := newWorkflowService(t)

	workflow := activeWorkflow(t)
	require.NoError(t, workflow.Archive())

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)

	_, err := svc.ActivateWorkflow(context.Background(), workflow.ID)
	require.Error(t, err)
	assert.True(t, services.IsConflictError(err))
	p.Workflows.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestWorkflowService_DeactivateDefault_Conflict(t *testing.T) {
	svc, p, _ := newWorkflowService(t)

	workflow := activeWorkflow(t)
	require.NoError(t, workflow.SetAsDefault())

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)

	_, err := svc.DeactivateWorkflow(context.Background(), workflow.ID)
	require.ErrorIs(t, err, models.ErrDefaultWorkflowLocked)
	assert.True(t, services.IsConflictError(err))
	assert.False(t, services.IsValidationError(err))
}

func TestWorkflowService_SetDefaultWorkflow_SwapsPreviousDefault(t *testing.T) {
	svc, p, eb := newWorkflowService(t)

	previous := activeWorkflow(t)
	require.NoError(t, previous.SetAsDefault())

	next := activeWorkflow(t)

	p.Workflows.On("GetByID", mock.Anything, next.ID).Return(next, nil)
	p.Workflows.On("GetDefault", mock.Anything, "company-1", models.WorkflowTypeCandidateApplication).
		Return(previous, nil)
	p.Workflows.On("Save", mock.Anything, previous).Return(nil)
	p.Workflows.On("Save", mock.Anything, next).Return(nil)
	eb.On("Publish", mock.Anything, next.ID, mock.Anything).Return(nil)

	updated, err := svc.SetDefaultWorkflow(context.Background(), next.ID)
	require.NoError(t, err)

	assert.True(t, updated.IsDefault)
	assert.False(t, previous.IsDefault)
	p.Workflows.AssertExpectations(t)
}

func TestWorkflowService_SetDefaultWorkflow_NoPreviousDefault(t *testing.T) {
	svc, p, eb := newWorkflowService(t)

	workflow := activeWorkflow(t)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Workflows.On("GetDefault", mock.Anything, "company-1", models.WorkflowTypeCandidateApplication).
		Return(nil, persistence.ErrWorkflowNotFound)
	p.Workflows.On("Save", mock.Anything, workflow).Return(nil)
	eb.On("Publish", mock.Anything, workflow.ID, mock.Anything).Return(nil)

	updated, err := svc.SetDefaultWorkflow(context.Background(), workflow.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
}

func TestWorkflowService_SetDefaultWorkflow_RequiresActive(t *testing.T) {
	svc, p, _ := newWorkflowService(t)

	workflow, err := models.NewWorkflow(models.WorkflowParams{
		CompanyID: "company-1",
		Type:      string(models.WorkflowTypeCandidateApplication),
		Name:      "Engineering Hiring",
	})
	require.NoError(t, err)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)

	_, err = svc.SetDefaultWorkflow(context.Background(), workflow.ID)
	require.ErrorIs(t, err, models.ErrWorkflowNotActive)
}

func TestWorkflowService_SetDefaultWorkflow_RejectedSwapKeepsPreviousDefault(t *testing.T) {
	svc, p, _ := newWorkflowService(t)

	previous := activeWorkflow(t)
	require.NoError(t, previous.SetAsDefault())

	draft, err := models.NewWorkflow(models.WorkflowParams{
		CompanyID: "company-1",
		Type:      string(models.WorkflowTypeCandidateApplication),
		Name:      "Engineering Hiring v2",
	})
	require.NoError(t, err)

	p.Workflows.On("GetByID", mock.Anything, draft.ID).Return(draft, nil)

	_, err = svc.SetDefaultWorkflow(context.Background(), draft.ID)
	require.ErrorIs(t, err, models.ErrWorkflowNotActive)

	assert.True(t, previous.IsDefault)
	p.Workflows.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestWorkflowService_DeleteWorkflow_DefaultLocked(t *testing.T) {
	svc, p, _ := newWorkflowService(t)

	workflow := activeWorkflow(t)
	require.NoError(t, workflow.SetAsDefault())

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)

	err := svc.DeleteWorkflow(context.Background(), workflow.ID)
	require.ErrorIs(t, err, models.ErrDefaultWorkflowLocked)
	p.Workflows.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestWorkflowService_DeleteWorkflow(t *testing.T) {
	svc, p, _ := newWorkflowService(t)

	workflow := activeWorkflow(t)
	stage := mustStage(t, workflow.ID, "Screening", 0)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Stages.On("ListByWorkflow", mock.Anything, workflow.ID).
		Return([]*models.WorkflowStage{stage}, nil)
	p.Applications.On("CountInFlight", mock.Anything, []string{stage.ID}).Return(0, nil)
	p.Workflows.On("Delete", mock.Anything, workflow.ID).Return(nil)

	require.NoError(t, svc.DeleteWorkflow(context.Background(), workflow.ID))
	p.Workflows.AssertExpectations(t)
}

func TestWorkflowService_DeleteWorkflow_BlockedByOpenApplications(t *testing.T) {
	svc, p, _ := newWorkflowService(t)

	workflow := activeWorkflow(t)
	stage := mustStage(t, workflow.ID, "Screening", 0)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Stages.On("ListByWorkflow", mock.Anything, workflow.ID).
		Return([]*models.WorkflowStage{stage}, nil)
	p.Applications.On("CountInFlight", mock.Anything, []string{stage.ID}).Return(2, nil)

	err := svc.DeleteWorkflow(context.Background(), workflow.ID)
	require.ErrorIs(t, err, services.ErrWorkflowHasApplications)
	assert.True(t, services.IsConflictError(err))
	p.Workflows.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestWorkflowService_GetWorkflow_NotFound(t *testing.T) {
	svc, p, _ := newWorkflowService(t)

	p.Workflows.On("GetByID", mock.Anything, "missing").
		Return(nil, persistence.ErrWorkflowNotFound)

	_, err := svc.GetWorkflow(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, services.IsNotFoundError(err))
}

func TestWorkflowService_PublishFailureDoesNotFailOperation(t *testing.T) {
	svc, p, eb := newWorkflowService(t)

	workflow, err := models.NewWorkflow(models.WorkflowParams{
		CompanyID: "company-1",
		Type:      string(models.WorkflowTypeCandidateApplication),
		Name:      "Engineering Hiring",
	})
	require.NoError(t, err)

	p.Workflows.On("GetByID", mock.Anything, workflow.ID).Return(workflow, nil)
	p.Workflows.On("Save", mock.Anything, workflow).Return(nil)
	eb.On("Publish", mock.Anything, workflow.ID, mock.Anything).
		Return(assert.AnError)

	_, err = svc.ActivateWorkflow(context.Background(), workflow.ID)
	require.NoError(t, err)
}

func TestWorkflowService_HealthCheck(t *testing.T) {
	svc, p, _ := newWorkflowService(t)

	p.On("HealthCheck", mock.Anything).Return(nil)

	message, healthy := svc.HealthCheck(context.Background())
	assert.True(t, healthy)
	assert.Contains(t, message, "healthy")
}
