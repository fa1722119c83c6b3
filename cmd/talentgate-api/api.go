// Package main provides the Talentgate API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/hireground/talentgate/pkg/cache"
	"github.com/hireground/talentgate/pkg/eventbus"
	"github.com/hireground/talentgate/pkg/persistence"
	"github.com/hireground/talentgate/pkg/services"
	"github.com/hireground/talentgate/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	ruleCache   cache.RuleCache
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	ruleCache cache.RuleCache,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		ruleCache:   ruleCache,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	// Rule reads go through the cache; rule mutations invalidate it.
	rules := cache.NewCachedRuleRepository(a.persistence.ValidationRuleRepository(), a.ruleCache)

	workflowService := services.NewWorkflowService(a.persistence, a.eventBus, a.logger)
	stageService := services.NewStageService(a.persistence, rules, a.eventBus, a.logger)
	ruleService := services.NewRuleService(rules, a.persistence.StageRepository(), a.eventBus, a.logger)
	screeningService := services.NewScreeningService(a.persistence, rules, a.eventBus, a.logger)

	handlers := web.NewAPIHandlers(workflowService, stageService, ruleService, screeningService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Talentgate API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/activate", handlers.ActivateWorkflow)
	w.Post("/:id/deactivate", handlers.DeactivateWorkflow)
	w.Post("/:id/archive", handlers.ArchiveWorkflow)
	w.Post("/:id/set-default", handlers.SetDefaultWorkflow)

	// Stage endpoints:
	w.Get("/:id/stages", handlers.GetStages)
	w.Post("/:id/stages", handlers.CreateStage)
	w.Post("/:id/stages/reorder", handlers.ReorderStages)

	s := app.Group("/stages")
	s.Get("/:stageId", handlers.GetStage)
	s.Patch("/:stageId", handlers.UpdateStage)
	s.Delete("/:stageId", handlers.DeleteStage)
	s.Get("/:stageId/rules", handlers.GetRules)
	s.Post("/:stageId/rules", handlers.CreateRule)
	s.Post("/:stageId/validate-transition", handlers.ValidateStageTransition)

	r := app.Group("/rules")
	r.Get("/:ruleId", handlers.GetRule)
	r.Patch("/:ruleId", handlers.UpdateRule)
	r.Delete("/:ruleId", handlers.DeleteRule)
	r.Post("/:ruleId/activate", handlers.ActivateRule)
	r.Post("/:ruleId/deactivate", handlers.DeactivateRule)

	app.Post("/screening/evaluate-answers", handlers.EvaluateAnswers)
	app.Post("/applications/:applicationId/evaluate", handlers.EvaluateApplication)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
