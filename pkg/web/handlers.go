package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/services"
)

type APIHandlers struct {
	workflowService  *services.WorkflowService
	stageService     *services.StageService
	ruleService      *services.RuleService
	screeningService *services.ScreeningService
	validator        *validator.Validate
}

func NewAPIHandlers(
	workflowService *services.WorkflowService,
	stageService *services.StageService,
	ruleService *services.RuleService,
	screeningService *services.ScreeningService,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		workflowService:  workflowService,
		stageService:     stageService,
		ruleService:      ruleService,
		screeningService: screeningService,
		validator:        validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Talentgate API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Talentgate API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.ListWorkflows(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows":   workflows,
		"total_count": len(workflows),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.workflowService.GetWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.workflowService.CreateWorkflow(c.Context(), services.CreateWorkflowRequest{
		CompanyID:   req.CompanyID,
		Type:        req.Type,
		DisplayMode: req.DisplayMode,
		PhaseID:     req.PhaseID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(workflow)
}

func (h *APIHandlers) ActivateWorkflow(c fiber.Ctx) error {
	return h.workflowTransition(c, h.workflowService.ActivateWorkflow)
}

func (h *APIHandlers) DeactivateWorkflow(c fiber.Ctx) error {
	return h.workflowTransition(c, h.workflowService.DeactivateWorkflow)
}

func (h *APIHandlers) ArchiveWorkflow(c fiber.Ctx) error {
	return h.workflowTransition(c, h.workflowService.ArchiveWorkflow)
}

func (h *APIHandlers) SetDefaultWorkflow(c fiber.Ctx) error {
	return h.workflowTransition(c, h.workflowService.SetDefaultWorkflow)
}

func (h *APIHandlers) workflowTransition(c fiber.Ctx, transition func(ctx context.Context, id string) (*models.Workflow, error)) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := transition(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.workflowService.DeleteWorkflow(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetStages(c fiber.Ctx) error {
	workflowID := c.Params("id")
	if workflowID == "" {
		return badRequest(c, "Workflow ID is required")
	}

	stages, err := h.stageService.ListStages(c.Context(), workflowID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"stages": stages})
}

func (h *APIHandlers) CreateStage(c fiber.Ctx) error {
	workflowID := c.Params("id")
	if workflowID == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req StageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	stage, err := h.stageService.CreateStage(c.Context(), stageParams(workflowID, req))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(stage)
}

func (h *APIHandlers) GetStage(c fiber.Ctx) error {
	stageID := c.Params("stageId")
	if stageID == "" {
		return badRequest(c, "Stage ID is required")
	}

	stage, err := h.stageService.GetStage(c.Context(), stageID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(stage)
}

func (h *APIHandlers) UpdateStage(c fiber.Ctx) error {
	stageID := c.Params("stageId")
	if stageID == "" {
		return badRequest(c, "Stage ID is required")
	}

	var req StageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	stage, err := h.stageService.UpdateStage(c.Context(), stageID, stageParams("", req))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(stage)
}

func (h *APIHandlers) DeleteStage(c fiber.Ctx) error {
	stageID := c.Params("stageId")
	if stageID == "" {
		return badRequest(c, "Stage ID is required")
	}

	if err := h.stageService.DeleteStage(c.Context(), stageID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ReorderStages(c fiber.Ctx) error {
	workflowID := c.Params("id")
	if workflowID == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req ReorderStagesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	stages, err := h.stageService.ReorderStages(c.Context(), workflowID, req.Order)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"stages": stages})
}

func (h *APIHandlers) GetRules(c fiber.Ctx) error {
	stageID := c.Params("stageId")
	if stageID == "" {
		return badRequest(c, "Stage ID is required")
	}

	activeOnly := true

	if raw := c.Query("active_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "Invalid active_only value")
		}

		activeOnly = parsed
	}

	rules, err := h.ruleService.ListRules(c.Context(), stageID, activeOnly)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"rules": rules})
}

func (h *APIHandlers) CreateRule(c fiber.Ctx) error {
	stageID := c.Params("stageId")
	if stageID == "" {
		return badRequest(c, "Stage ID is required")
	}

	var req CreateRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	rule, err := h.ruleService.CreateRule(c.Context(), models.ValidationRuleParams{
		FieldID:           req.FieldID,
		StageID:           stageID,
		RuleType:          req.RuleType,
		Operator:          req.Operator,
		ComparisonValue:   req.ComparisonValue,
		PositionFieldPath: req.PositionFieldPath,
		Expression:        req.Expression,
		Severity:          req.Severity,
		MessageTemplate:   req.MessageTemplate,
		AutoReject:        req.AutoReject,
		RejectionReason:   req.RejectionReason,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

func (h *APIHandlers) GetRule(c fiber.Ctx) error {
	ruleID := c.Params("ruleId")
	if ruleID == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule, err := h.ruleService.GetRule(c.Context(), ruleID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) UpdateRule(c fiber.Ctx) error {
	ruleID := c.Params("ruleId")
	if ruleID == "" {
		return badRequest(c, "Rule ID is required")
	}

	var req UpdateRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	rule, err := h.ruleService.UpdateRule(c.Context(), ruleID, models.ValidationRuleUpdate{
		Operator:          req.Operator,
		ComparisonValue:   req.ComparisonValue,
		PositionFieldPath: req.PositionFieldPath,
		Expression:        req.Expression,
		Severity:          req.Severity,
		MessageTemplate:   req.MessageTemplate,
		AutoReject:        req.AutoReject,
		RejectionReason:   req.RejectionReason,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) ActivateRule(c fiber.Ctx) error {
	ruleID := c.Params("ruleId")
	if ruleID == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule, err := h.ruleService.ActivateRule(c.Context(), ruleID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) DeactivateRule(c fiber.Ctx) error {
	ruleID := c.Params("ruleId")
	if ruleID == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule, err := h.ruleService.DeactivateRule(c.Context(), ruleID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) DeleteRule(c fiber.Ctx) error {
	ruleID := c.Params("ruleId")
	if ruleID == "" {
		return badRequest(c, "Rule ID is required")
	}

	if err := h.ruleService.DeleteRule(c.Context(), ruleID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ValidateStageTransition(c fiber.Ctx) error {
	stageID := c.Params("stageId")
	if stageID == "" {
		return badRequest(c, "Stage ID is required")
	}

	var req ValidateTransitionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.screeningService.ValidateStageTransition(c.Context(), stageID,
		req.CandidateValues, req.PositionData)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) EvaluateApplication(c fiber.Ctx) error {
	applicationID := c.Params("applicationId")
	if applicationID == "" {
		return badRequest(c, "Application ID is required")
	}

	result, err := h.screeningService.EvaluateApplication(c.Context(), applicationID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) EvaluateAnswers(c fiber.Ctx) error {
	var req EvaluateAnswersRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.screeningService.EvaluateAnswers(c.Context(), req.Document,
		req.Answers, req.PositionData, nil)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func stageParams(workflowID string, req StageRequest) models.WorkflowStageParams {
	return models.WorkflowStageParams{
		WorkflowID:        workflowID,
		Name:              req.Name,
		Description:       req.Description,
		StageType:         req.StageType,
		Order:             req.Order,
		AllowSkip:         req.AllowSkip,
		DefaultAssigneeID: req.DefaultAssigneeID,
		EmailTemplateID:   req.EmailTemplateID,
		DurationMinutes:   req.DurationMinutes,
		DeadlineDays:      req.DeadlineDays,
		CostEstimate:      req.CostEstimate,
		NextPhaseID:       req.NextPhaseID,
		KanbanDisplay:     req.KanbanDisplay,
		ValidationRules:   req.ValidationRules,
		RecommendedRules:  req.RecommendedRules,
	}
}
