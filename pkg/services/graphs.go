package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/nodegraph/pkg/graph"
	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/persistence"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Graphs stores graph documents and runs them.
type Graphs struct {
	persistence persistence.Persistence
	runner      *Runner
	logger      *slog.Logger
	validate    *validator.Validate
}

// NewGraphs creates a new graph service.
func NewGraphs(persistence persistence.Persistence, runner *Runner, logger *slog.Logger) *Graphs {
	return &Graphs{
		persistence: persistence,
		runner:      runner,
		logger:      logger.With("module", "graphs"),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HealthCheck checks the health of the persistence layer.
func (g *Graphs) HealthCheck(ctx context.Context) (string, bool) {
	if g.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := g.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// Create validates and saves a record. An empty id is generated.
func (g *Graphs) Create(ctx context.Context, record *models.GraphRecord) (*models.GraphRecord, error) {
	if record == nil {
		return nil, ErrGraphNil
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	record.Name = strings.TrimSpace(record.Name)

	if err := g.validate.Struct(record); err != nil {
		return nil, NewValidationError("Create", "invalid_graph", err.Error(), ErrInvalidRequest)
	}

	if err := graph.ValidateDocument(&record.Document); err != nil {
		return nil, NewValidationError("Create", "invalid_document", err.Error(), ErrInvalidRequest)
	}

	if err := g.persistence.Save(ctx, record); err != nil {
		if errors.Is(err, persistence.ErrInvalidGraphID) {
			return nil, NewValidationError("Create", "invalid_graph", err.Error(), ErrInvalidRequest)
		}

		return nil, fmt.Errorf("failed to save graph: %w", err)
	}

	g.logger.InfoContext(ctx, "graph saved", "graph_id", record.ID, "nodes", len(record.Document.Nodes))

	return record, nil
}

func (g *Graphs) Get(ctx context.Context, id string) (*models.GraphRecord, error) {
	record, err := g.persistence.GetByID(ctx, id)
	if err != nil {
		if persistence.IsGraphNotFound(err) {
			return nil, ErrGraphNotFound
		}

		return nil, fmt.Errorf("failed to get graph: %w", err)
	}

	return record, nil
}

func (g *Graphs) List(ctx context.Context) ([]*models.GraphRecord, error) {
	records, err := g.persistence.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	return records, nil
}

func (g *Graphs) Delete(ctx context.Context, id string) error {
	err := g.persistence.Delete(ctx, id)
	if err != nil {
		if persistence.IsGraphNotFound(err) {
			return ErrGraphNotFound
		}

		return fmt.Errorf("failed to delete graph: %w", err)
	}

	g.logger.InfoContext(ctx, "graph deleted", "graph_id", id)

	return nil
}

// Execute loads the stored graph id and runs it.
func (g *Graphs) Execute(ctx context.Context, id string, req ExecuteRequest) (*ExecuteResponse, error) {
	record, err := g.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return g.runner.Run(ctx, record.ID, record.Document, req)
}
