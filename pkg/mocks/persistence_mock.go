// Package mocks provides testify mocks for the persistence and event
// bus contracts.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

// MockWorkflowRepository is a mock implementation of persistence.WorkflowRepository interface.
type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) GetDefault(ctx context.Context, companyID string, workflowType models.WorkflowType) (*models.Workflow, error) {
	args := m.Called(ctx, companyID, workflowType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	args := m.Called(ctx, workflow)

	return args.Error(0)
}

func (m *MockWorkflowRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockStageRepository is a mock implementation of persistence.StageRepository interface.
type MockStageRepository struct {
	mock.Mock
}

func (m *MockStageRepository) GetByID(ctx context.Context, id string) (*models.WorkflowStage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.WorkflowStage), args.Error(1)
}

func (m *MockStageRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowStage, error) {
	args := m.Called(ctx, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.WorkflowStage), args.Error(1)
}

func (m *MockStageRepository) Save(ctx context.Context, stage *models.WorkflowStage) error {
	args := m.Called(ctx, stage)

	return args.Error(0)
}

func (m *MockStageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockValidationRuleRepository is a mock implementation of persistence.ValidationRuleRepository interface.
type MockValidationRuleRepository struct {
	mock.Mock
}

func (m *MockValidationRuleRepository) GetByID(ctx context.Context, id string) (*models.ValidationRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ValidationRule), args.Error(1)
}

func (m *MockValidationRuleRepository) ListByStage(ctx context.Context, stageID string, activeOnly bool) ([]*models.ValidationRule, error) {
	args := m.Called(ctx, stageID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.ValidationRule), args.Error(1)
}

func (m *MockValidationRuleRepository) Save(ctx context.Context, rule *models.ValidationRule) error {
	args := m.Called(ctx, rule)

	return args.Error(0)
}

func (m *MockValidationRuleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockValidationRuleRepository) DeleteByStage(ctx context.Context, stageID string) error {
	args := m.Called(ctx, stageID)

	return args.Error(0)
}

// MockApplicationRepository is a mock implementation of persistence.ApplicationRepository interface.
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) Save(ctx context.Context, application *models.Application) error {
	args := m.Called(ctx, application)

	return args.Error(0)
}

func (m *MockApplicationRepository) CountInFlight(ctx context.Context, stageIDs []string) (int, error) {
	args := m.Called(ctx, stageIDs)

	return args.Int(0), args.Error(1)
}

// MockJobPositionRepository is a mock implementation of persistence.JobPositionRepository interface.
type MockJobPositionRepository struct {
	mock.Mock
}

func (m *MockJobPositionRepository) GetByID(ctx context.Context, id string) (*models.JobPosition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.JobPosition), args.Error(1)
}

func (m *MockJobPositionRepository) Save(ctx context.Context, position *models.JobPosition) error {
	args := m.Called(ctx, position)

	return args.Error(0)
}

// MockCustomFieldRepository is a mock implementation of persistence.CustomFieldRepository interface.
type MockCustomFieldRepository struct {
	mock.Mock
}

func (m *MockCustomFieldRepository) GetByID(ctx context.Context, id string) (*models.CustomField, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CustomField), args.Error(1)
}

func (m *MockCustomFieldRepository) Save(ctx context.Context, field *models.CustomField) error {
	args := m.Called(ctx, field)

	return args.Error(0)
}

// MockPersistence bundles the repository mocks behind the
// persistence.Persistence interface for service tests.
type MockPersistence struct {
	mock.Mock

	Workflows    MockWorkflowRepository
	Stages       MockStageRepository
	Rules        MockValidationRuleRepository
	Applications MockApplicationRepository
	Positions    MockJobPositionRepository
	Fields       MockCustomFieldRepository
}

func (m *MockPersistence) WorkflowRepository() persistence.WorkflowRepository {
	return &m.Workflows
}

func (m *MockPersistence) StageRepository() persistence.StageRepository {
	return &m.Stages
}

func (m *MockPersistence) ValidationRuleRepository() persistence.ValidationRuleRepository {
	return &m.Rules
}

func (m *MockPersistence) ApplicationRepository() persistence.ApplicationRepository {
	return &m.Applications
}

func (m *MockPersistence) JobPositionRepository() persistence.JobPositionRepository {
	return &m.Positions
}

func (m *MockPersistence) CustomFieldRepository() persistence.CustomFieldRepository {
	return &m.Fields
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
