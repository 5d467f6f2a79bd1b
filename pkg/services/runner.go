package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/nodegraph/pkg/eventbus"
	"github.com/dukex/nodegraph/pkg/executor"
	"github.com/dukex/nodegraph/pkg/graph"
	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/registry"
	"go.opentelemetry.io/otel/trace"
)

// ExecuteRequest selects how a stored or loaded graph is run.
type ExecuteRequest struct {
	StartNode   string
	Debug       bool
	Propagation executor.PropagationMode
}

// ExecuteResponse is the outcome of one run. Log is empty unless the run
// was made in debug mode.
type ExecuteResponse struct {
	Result     *executor.Result
	Log        []models.ExecutionLogEntry
	LoadReport *graph.LoadReport
}

// Runner loads documents into fresh graphs and executes them.
type Runner struct {
	registry  *registry.Registry
	logger    *slog.Logger
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
}

type RunnerOption func(*Runner)

// WithPublisher publishes execution events from every run.
func WithPublisher(publisher eventbus.EventPublisher) RunnerOption {
	return func(r *Runner) {
		r.publisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) RunnerOption {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

func NewRunner(reg *registry.Registry, logger *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: reg,
		logger:   logger.With("module", "runner"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run deserializes doc and executes it. A stopped run returns both its
// partial response and the stop error.
func (r *Runner) Run(ctx context.Context, graphID string, doc models.SerializedGraph, req ExecuteRequest) (*ExecuteResponse, error) {
	g := graph.New(r.logger)

	report, err := g.Deserialize(ctx, r.registry, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}

	opts := []executor.Option{
		executor.WithLogger(r.logger),
		executor.WithPropagation(req.Propagation),
		executor.WithGraphID(graphID),
	}

	if r.publisher != nil {
		opts = append(opts, executor.WithPublisher(r.publisher))
	}

	if r.tracer != nil {
		opts = append(opts, executor.WithTracer(r.tracer))
	}

	exec := executor.New(g, opts...)

	result, err := exec.Execute(ctx, req.StartNode, req.Debug)
	if err != nil && result == nil {
		if errors.Is(err, executor.ErrEmptyGraph) || errors.Is(err, executor.ErrStartNodeNotFound) {
			return nil, NewValidationError("Execute", "invalid_start", err.Error(), err)
		}

		return nil, fmt.Errorf("failed to execute graph: %w", err)
	}

	response := &ExecuteResponse{
		Result:     result,
		Log:        exec.ExecutionLog(),
		LoadReport: report,
	}

	if response.Log == nil {
		response.Log = []models.ExecutionLogEntry{}
	}

	return response, err
}
