// Package executor runs a graph depth-first from a start node, handing each
// completed node's output to the nodes it is connected to.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dukex/nodegraph/pkg/eventbus"
	"github.com/dukex/nodegraph/pkg/events"
	"github.com/dukex/nodegraph/pkg/graph"
	"github.com/dukex/nodegraph/pkg/log"
	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/otelhelper"
	"github.com/dukex/nodegraph/pkg/protocol"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrEmptyGraph        = errors.New("graph has no nodes")
	ErrStartNodeNotFound = errors.New("start node not found")
	ErrStopped           = errors.New("execution stopped")
)

// Executor drives runs over a graph it does not own. One run at a time; Stop
// may be called from any goroutine.
type Executor struct {
	graph       *graph.Graph
	logger      *slog.Logger
	tracer      trace.Tracer
	publisher   eventbus.EventPublisher
	propagation PropagationMode
	graphID     string

	stopped atomic.Bool

	mu  sync.Mutex
	log []models.ExecutionLogEntry
}

func New(g *graph.Graph, opts ...Option) *Executor {
	e := &Executor{
		graph:  g,
		logger: log.WithModule("executor"),
		tracer: otel.Tracer("github.com/dukex/nodegraph/pkg/executor"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// pathLink is one node on the current traversal path. Frames share their
// ancestors' links, so each frame sees exactly its own path.
type pathLink struct {
	nodeID string
	parent *pathLink
}

func (p *pathLink) contains(nodeID string) bool {
	for link := p; link != nil; link = link.parent {
		if link.nodeID == nodeID {
			return true
		}
	}

	return false
}

func (p *pathLink) ids() []string {
	var ids []string
	for link := p; link != nil; link = link.parent {
		ids = append(ids, link.nodeID)
	}

	slices.Reverse(ids)

	return ids
}

type frame struct {
	node  protocol.Node
	input any
	path  *pathLink
}

// Execute runs the graph from startNodeID, or from the earliest added node
// when startNodeID is empty. Nodes are visited depth-first: the targets of a
// completed node are run in connection order, each to full depth before the
// next. A node already on the current path is not run again; the cycle is
// logged and that path ends. With debug set, every visit is recorded in the
// execution log.
//
// The returned error is non-nil only when the run could not start, or when it
// was stopped; a stopped run still returns its partial result.
func (e *Executor) Execute(ctx context.Context, startNodeID string, debug bool) (*Result, error) {
	e.stopped.Store(false)
	e.resetLog()

	if e.graph.Len() == 0 {
		return nil, ErrEmptyGraph
	}

	start := e.graph.FirstNode()
	if startNodeID != "" {
		start = e.graph.GetNode(startNodeID)
	}

	if start == nil {
		return nil, fmt.Errorf("%w: %s", ErrStartNodeNotFound, startNodeID)
	}

	result := &Result{
		RunID:       uuid.NewString(),
		StartNodeID: start.ID(),
		Executed:    []string{},
		Diagnostics: []Diagnostic{},
	}

	logger := e.logger.With("run_id", result.RunID)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "graph.execute",
		attribute.String(otelhelper.GraphIDKey, e.graphID),
		attribute.String(otelhelper.RunIDKey, result.RunID),
		attribute.String(otelhelper.StartNodeIDKey, start.ID()),
		attribute.Bool(otelhelper.DebugKey, debug),
	)
	defer span.End()

	e.publish(ctx, result.RunID, events.ExecutionStarted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionStartedEvent, e.graphID, result.RunID),
		StartNodeID: start.ID(),
		Debug:       debug,
	})

	logger.Info("execution started", "start_node", start.ID(), "debug", debug, "propagation", e.propagation.String())

	began := time.Now()
	err := e.run(ctx, logger, result, start, debug)
	result.Duration = time.Since(began)

	span.SetAttributes(
		attribute.Int(otelhelper.ExecutedKey, len(result.Executed)),
		attribute.Bool(otelhelper.PartialKey, result.Partial()),
	)

	if err != nil {
		otelhelper.SetError(span, err)
		logger.Warn("execution stopped", "executed", len(result.Executed), "error", err)
	} else {
		logger.Info("execution finished",
			"executed", len(result.Executed),
			"partial", result.Partial(),
			"duration", result.Duration,
		)
	}

	e.publish(ctx, result.RunID, events.ExecutionFinished{
		BaseEvent:   events.NewBaseEvent(events.ExecutionFinishedEvent, e.graphID, result.RunID),
		StartNodeID: start.ID(),
		Executed:    slices.Clone(result.Executed),
		Partial:     result.Partial(),
		Stopped:     result.Stopped,
		Duration:    result.Duration,
	})

	return result, err
}

func (e *Executor) run(ctx context.Context, logger *slog.Logger, result *Result, start protocol.Node, debug bool) error {
	stack := []frame{{node: start, input: models.EmptyObject()}}

	for len(stack) > 0 {
		if e.stopped.Load() {
			result.Stopped = true

			return ErrStopped
		}

		if err := ctx.Err(); err != nil {
			result.Stopped = true

			return fmt.Errorf("%w: %w", ErrStopped, err)
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nodeID := current.node.ID()

		if current.path.contains(nodeID) {
			message := fmt.Sprintf("circular reference detected at node %s", nodeID)
			logger.Error(message, "path", current.path.ids())
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:    DiagnosticCycle,
				NodeID:  nodeID,
				Message: message,
			})

			continue
		}

		status, elapsed := e.visit(ctx, logger, current.node, current.input)
		result.Executed = append(result.Executed, nodeID)

		if debug {
			e.appendLog(models.ExecutionLogEntry{
				NodeID:  nodeID,
				Status:  status,
				Elapsed: elapsed,
				Output:  models.CopyValue(firstDataOutput(current.node)),
			})
		}

		e.publish(ctx, result.RunID, events.NodeExecuted{
			BaseEvent:  events.NewBaseEvent(events.NodeExecutedEvent, e.graphID, result.RunID),
			NodeID:     nodeID,
			NodeType:   current.node.Type(),
			Status:     status,
			DurationMS: elapsed.Milliseconds(),
		})

		if status == models.NodeStatusError {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:    DiagnosticNodeError,
				NodeID:  nodeID,
				Message: fmt.Sprintf("node %s failed", nodeID),
			})
		}

		if status != models.NodeStatusCompleted {
			continue
		}

		path := &pathLink{nodeID: nodeID, parent: current.path}

		var children []frame

		for _, c := range e.graph.GetConnections(nodeID) {
			target := e.graph.GetNode(c.ToNodeID)
			if target == nil {
				logger.Warn("skipping dangling connection", "connection_id", c.ID, "to_node", c.ToNodeID)
				result.Diagnostics = append(result.Diagnostics, Diagnostic{
					Kind:         DiagnosticDanglingConnection,
					NodeID:       nodeID,
					ConnectionID: c.ID,
					Message:      fmt.Sprintf("connection %s targets missing node %s", c.ID, c.ToNodeID),
				})

				continue
			}

			children = append(children, frame{
				node:  target,
				input: models.CopyValue(e.outputFor(current.node, c)),
				path:  path,
			})
		}

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return nil
}

// visit executes one node, converting a panic or a non-terminal status into Error.
func (e *Executor) visit(ctx context.Context, logger *slog.Logger, node protocol.Node, input any) (status models.NodeStatus, elapsed time.Duration) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "node.execute",
		attribute.String(otelhelper.NodeIDKey, node.ID()),
		attribute.String(otelhelper.NodeTypeKey, node.Type()),
	)
	defer span.End()

	node.SetStatus(models.NodeStatusRunning)

	began := time.Now()

	defer func() {
		elapsed = time.Since(began)

		if r := recover(); r != nil {
			logger.Error("node panicked", "node_id", node.ID(), "panic", r)

			status = models.NodeStatusError
		}

		if !status.IsTerminal() {
			logger.Warn("node returned a non-terminal status", "node_id", node.ID(), "status", status.String())

			status = models.NodeStatusError
		}

		node.SetStatus(status)
		span.SetAttributes(attribute.String(otelhelper.NodeStatusKey, status.String()))

		if status == models.NodeStatusError {
			logger.Warn("node execution failed", "node_id", node.ID(), "node_type", node.Type())
			otelhelper.SetFailed(span, "node execution failed", attribute.String(otelhelper.NodeIDKey, node.ID()))
		}
	}()

	return node.Execute(ctx, input), 0
}

// outputFor selects the value sent along c from a node that just completed.
func (e *Executor) outputFor(node protocol.Node, c models.Connection) any {
	outputs := node.Outputs()
	if len(outputs) == 0 {
		return models.EmptyObject()
	}

	port := outputs[0]

	if e.propagation == PropagatePerConnection {
		if named := findOutput(outputs, c.FromPort); named != nil {
			port = named
		}

		if port.Kind == models.PortKindFlow {
			if data := firstOutputOfKind(outputs, models.PortKindData); data != nil {
				port = data
			}
		}
	}

	if port.Value == nil {
		return models.EmptyObject()
	}

	return port.Value
}

// Stop asks the current run to end before its next node visit.
func (e *Executor) Stop() {
	e.stopped.Store(true)
}

// ExecutionLog returns the entries recorded by the last debug run.
func (e *Executor) ExecutionLog() []models.ExecutionLogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.log)
}

// ExecutionLogJSON encodes the execution log as a JSON array.
func (e *Executor) ExecutionLogJSON() ([]byte, error) {
	entries := e.ExecutionLog()
	if entries == nil {
		entries = []models.ExecutionLogEntry{}
	}

	return json.Marshal(entries)
}

func (e *Executor) resetLog() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log = nil
}

func (e *Executor) appendLog(entry models.ExecutionLogEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log = append(e.log, entry)
}

func (e *Executor) publish(ctx context.Context, runID string, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, runID, event); err != nil {
		e.logger.Warn("failed to publish event", "run_id", runID, "event_type", event.GetType(), "error", err)
	}
}

func firstDataOutput(node protocol.Node) any {
	port := firstOutputOfKind(node.Outputs(), models.PortKindData)
	if port == nil || port.Value == nil {
		return models.EmptyObject()
	}

	return port.Value
}

func firstOutputOfKind(ports []*models.Port, kind models.PortKind) *models.Port {
	for _, port := range ports {
		if port.Kind == kind {
			return port
		}
	}

	return nil
}

func findOutput(ports []*models.Port, name string) *models.Port {
	for _, port := range ports {
		if port.Name == name {
			return port
		}
	}

	return nil
}
