// Package protocol defines the contracts between the engine and pluggable node kinds.
package protocol

import (
	"context"

	"github.com/dukex/nodegraph/pkg/models"
)

// Node is the capability every node kind implements. Execute is the only
// behavioral contract; the metadata getters are presentation-only.
type Node interface {
	ID() string
	Type() string
	Category() string
	Color() string
	Description() string

	Status() models.NodeStatus
	SetStatus(status models.NodeStatus)

	// Properties returns the node's property bag.
	Properties() map[string]any
	Property(key string) (any, bool)
	SetProperty(key string, value any)

	// Inputs and Outputs return ports in declaration order.
	Inputs() []*models.Port
	Outputs() []*models.Port

	// Execute reads input and the property bag, writes output port values and
	// returns Completed, Error or Skipped.
	Execute(ctx context.Context, input any) models.NodeStatus

	Serialize() models.SerializedNode
}

// NodeFactory creates node instances and provides metadata about the node type.
type NodeFactory interface {
	// Create creates a new node instance with the given id
	Create(ctx context.Context, id string) (Node, error)

	// ID returns the type name nodes of this kind are registered under
	ID() string

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Schema returns the JSON schema of the node's properties
	Schema() map[string]any
}
