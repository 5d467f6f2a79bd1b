package web

import (
	"errors"

	"github.com/dukex/nodegraph/pkg/executor"
	"github.com/dukex/nodegraph/pkg/services"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem, problems.ProblemMediaType)
}

// handleServiceError provides typed error handling for service layer errors.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case services.IsValidationError(err):
		return badRequest(c, err.Error())

	case errors.Is(err, services.ErrGraphNotFound):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("graph_not_found").
			WithDetail("graph not found")

		return c.Status(fiber.StatusNotFound).JSON(problem, problems.ProblemMediaType)

	case errors.Is(err, executor.ErrStopped):
		problem := problems.NewStatusProblem(503).
			WithInstance(c.Path()).
			WithType("execution_stopped").
			WithDetail(err.Error())

		return c.Status(fiber.StatusServiceUnavailable).JSON(problem, problems.ProblemMediaType)

	default:
		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("internal_error").
			WithError(err)

		return c.Status(fiber.StatusInternalServerError).JSON(problem, problems.ProblemMediaType)
	}
}
