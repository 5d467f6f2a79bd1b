// Package web provides HTTP handlers and REST API endpoints for graph management.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/dukex/nodegraph/pkg/executor"
	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/registry"
	"github.com/dukex/nodegraph/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	graphService *services.Graphs
	validator    *validator.Validate
	registry     *registry.Registry
}

func NewAPIHandlers(
	graphService *services.Graphs,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		graphService: graphService,
		validator:    validator,
		registry:     registry,
	}
}

// Ready reports whether the persistence layer answers; used as readiness probe.
func (h *APIHandlers) Ready(c fiber.Ctx) bool {
	_, ok := h.graphService.HealthCheck(c.Context())

	return ok
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, ok := h.graphService.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusServiceUnavailable

	if ok {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
			"registry":   len(h.registry.RegisteredTypes()),
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	factories := h.registry.Factories()

	response := make([]NodeTypeResponse, 0, len(factories))
	for _, factory := range factories {
		response = append(response, NodeTypeResponse{
			Type:        factory.ID(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return c.JSON(response)
}

func (h *APIHandlers) GetGraphs(c fiber.Ctx) error {
	records, err := h.graphService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(records)
}

func (h *APIHandlers) GetGraph(c fiber.Ctx) error {
	record, err := h.graphService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(record)
}

func (h *APIHandlers) CreateGraph(c fiber.Ctx) error {
	var req CreateGraphRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.graphService.Create(c.Context(), &models.GraphRecord{
		ID:       req.ID,
		Name:     req.Name,
		Document: req.Document,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) DeleteGraph(c fiber.Ctx) error {
	if err := h.graphService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ExecuteGraph runs a stored graph. The body is optional.
func (h *APIHandlers) ExecuteGraph(c fiber.Ctx) error {
	var req ExecuteGraphRequest

	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	propagation, err := executor.ParsePropagationMode(req.Propagation)
	if err != nil {
		return badRequest(c, err.Error())
	}

	response, err := h.graphService.Execute(c.Context(), c.Params("id"), services.ExecuteRequest{
		StartNode:   req.StartNode,
		Debug:       req.Debug,
		Propagation: propagation,
	})
	if err != nil && (response == nil || !errors.Is(err, executor.ErrStopped)) {
		return handleServiceError(c, err)
	}

	return c.JSON(NewExecuteGraphResponse(response))
}

// Register mounts the graph and node type routes on router.
func (h *APIHandlers) Register(router fiber.Router) {
	router.Get("/health", h.HealthCheck)
	router.Get("/node-types", h.GetNodeTypes)

	g := router.Group("/graphs")
	g.Get("/", h.GetGraphs)
	g.Post("/", h.CreateGraph)
	g.Get("/:id", h.GetGraph)
	g.Delete("/:id", h.DeleteGraph)
	g.Post("/:id/execute", h.ExecuteGraph)
}
