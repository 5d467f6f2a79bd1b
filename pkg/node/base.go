// Package node provides the building blocks shared by concrete node kinds: the
// embeddable Base with its property bag and ordered ports, and fail-soft typed
// property access.
package node

import (
	"fmt"
	"log/slog"

	"github.com/dukex/nodegraph/pkg/log"
	"github.com/dukex/nodegraph/pkg/models"
)

// Metadata is presentation-only information about a node kind.
type Metadata struct {
	Category    string
	Color       string
	Description string
}

// Base implements everything in protocol.Node except Execute. Concrete kinds
// embed it and declare their ports in their constructor.
type Base struct {
	id         string
	nodeType   string
	meta       Metadata
	status     models.NodeStatus
	properties map[string]any
	inputs     []*models.Port
	outputs    []*models.Port
	logger     *slog.Logger
}

func NewBase(id, nodeType string, meta Metadata) Base {
	return Base{
		id:         id,
		nodeType:   nodeType,
		meta:       meta,
		status:     models.NodeStatusIdle,
		properties: make(map[string]any),
		logger:     log.WithModule("node").With("node_id", id, "node_type", nodeType),
	}
}

func (b *Base) ID() string          { return b.id }
func (b *Base) Type() string        { return b.nodeType }
func (b *Base) Category() string    { return b.meta.Category }
func (b *Base) Color() string       { return b.meta.Color }
func (b *Base) Description() string { return b.meta.Description }

func (b *Base) Status() models.NodeStatus { return b.status }

func (b *Base) SetStatus(status models.NodeStatus) {
	b.status = status
}

// Finish records status and returns it, for use as the last statement of Execute.
func (b *Base) Finish(status models.NodeStatus) models.NodeStatus {
	b.status = status

	return status
}

// Logger returns a logger scoped to this node.
func (b *Base) Logger() *slog.Logger {
	return b.logger
}

func (b *Base) Properties() map[string]any {
	return b.properties
}

func (b *Base) Property(key string) (any, bool) {
	value, ok := b.properties[key]

	return value, ok
}

func (b *Base) SetProperty(key string, value any) {
	b.properties[key] = value
}

// AddInputPort declares an input port. Port sets are fixed after construction;
// declaring the same name twice is a programming error and panics.
func (b *Base) AddInputPort(name string, kind models.PortKind) *models.Port {
	if findPort(b.inputs, name) != nil {
		panic(fmt.Sprintf("node %s: duplicate input port %q", b.id, name))
	}

	port := models.NewInputPort(name, kind)
	b.inputs = append(b.inputs, port)

	return port
}

// AddOutputPort declares an output port. See AddInputPort.
func (b *Base) AddOutputPort(name string, kind models.PortKind) *models.Port {
	if findPort(b.outputs, name) != nil {
		panic(fmt.Sprintf("node %s: duplicate output port %q", b.id, name))
	}

	port := models.NewOutputPort(name, kind)
	b.outputs = append(b.outputs, port)

	return port
}

func (b *Base) Inputs() []*models.Port  { return b.inputs }
func (b *Base) Outputs() []*models.Port { return b.outputs }

func (b *Base) Input(name string) *models.Port  { return findPort(b.inputs, name) }
func (b *Base) Output(name string) *models.Port { return findPort(b.outputs, name) }

// SetOutput writes value to the named output port. It reports false when the
// node declares no such port.
func (b *Base) SetOutput(name string, value any) bool {
	port := findPort(b.outputs, name)
	if port == nil {
		b.logger.Warn("write to undeclared output port", "port", name)

		return false
	}

	port.Value = value

	return true
}

// Serialize returns a structural snapshot of the node.
func (b *Base) Serialize() models.SerializedNode {
	return models.SerializedNode{
		ID:          b.id,
		Type:        b.nodeType,
		Category:    b.meta.Category,
		Color:       b.meta.Color,
		Description: b.meta.Description,
		Properties:  models.CopyObject(b.properties),
		Status:      b.status,
		Inputs:      serializePorts(b.inputs),
		Outputs:     serializePorts(b.outputs),
	}
}

func findPort(ports []*models.Port, name string) *models.Port {
	for _, port := range ports {
		if port.Name == name {
			return port
		}
	}

	return nil
}

func serializePorts(ports []*models.Port) []models.SerializedPort {
	out := make([]models.SerializedPort, 0, len(ports))
	for _, port := range ports {
		out = append(out, port.Serialize())
	}

	return out
}
