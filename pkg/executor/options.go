package executor

import (
	"fmt"
	"log/slog"

	"github.com/dukex/nodegraph/pkg/eventbus"
	"go.opentelemetry.io/otel/trace"
)

// PropagationMode selects the value handed to each downstream node.
type PropagationMode int

const (
	// PropagateFirstOutput sends the value of the executed node's first output
	// port along every outgoing connection.
	PropagateFirstOutput PropagationMode = iota
	// PropagatePerConnection sends the value of the connection's own source
	// port. A Flow port carries no payload, so the node's first Data output is
	// sent in its place.
	PropagatePerConnection
)

func (m PropagationMode) String() string {
	switch m {
	case PropagateFirstOutput:
		return "first"
	case PropagatePerConnection:
		return "per-connection"
	default:
		return fmt.Sprintf("propagation(%d)", int(m))
	}
}

// ParsePropagationMode accepts the names returned by PropagationMode.String.
func ParsePropagationMode(name string) (PropagationMode, error) {
	switch name {
	case "", "first":
		return PropagateFirstOutput, nil
	case "per-connection":
		return PropagatePerConnection, nil
	default:
		return PropagateFirstOutput, fmt.Errorf("unknown propagation mode %q", name)
	}
}

type Option func(*Executor)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger.With("module", "executor")
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Executor) {
		e.tracer = tracer
	}
}

// WithPublisher publishes run and node events. Publishing failures are logged
// and never fail a run.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *Executor) {
		e.publisher = publisher
	}
}

func WithPropagation(mode PropagationMode) Option {
	return func(e *Executor) {
		e.propagation = mode
	}
}

// WithGraphID tags events and spans with the id of the stored graph.
func WithGraphID(id string) Option {
	return func(e *Executor) {
		e.graphID = id
	}
}
