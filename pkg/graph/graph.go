// Package graph holds nodes and the connections between their ports.
package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/protocol"
)

const connectionIDPrefix = "conn_"

var (
	ErrNilNode         = errors.New("node is nil")
	ErrDuplicateNodeID = errors.New("duplicate node id")
)

// Graph owns a set of nodes keyed by id and an ordered list of connections.
// Removing a node removes every connection that touches it. A Graph is not
// safe for concurrent use.
type Graph struct {
	logger      *slog.Logger
	nodes       map[string]protocol.Node
	order       []string
	connections []models.Connection
	nextConnID  int
}

func New(logger *slog.Logger) *Graph {
	return &Graph{
		logger:     logger.With("module", "graph"),
		nodes:      make(map[string]protocol.Node),
		nextConnID: 1,
	}
}

// AddNode takes ownership of node. Ids must be unique within the graph.
func (g *Graph) AddNode(node protocol.Node) error {
	if node == nil {
		return ErrNilNode
	}

	if _, exists := g.nodes[node.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, node.ID())
	}

	g.nodes[node.ID()] = node
	g.order = append(g.order, node.ID())

	return nil
}

// RemoveNode removes the node and every connection starting or ending at it.
func (g *Graph) RemoveNode(id string) bool {
	if _, exists := g.nodes[id]; !exists {
		return false
	}

	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(nodeID string) bool { return nodeID == id })

	before := len(g.connections)
	g.connections = slices.DeleteFunc(g.connections, func(c models.Connection) bool { return c.Touches(id) })

	g.logger.Debug("node removed", "node_id", id, "connections_removed", before-len(g.connections))

	return true
}

func (g *Graph) GetNode(id string) protocol.Node {
	return g.nodes[id]
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []protocol.Node {
	nodes := make([]protocol.Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}

	return nodes
}

// FirstNode returns the earliest inserted node still in the graph.
func (g *Graph) FirstNode() protocol.Node {
	if len(g.order) == 0 {
		return nil
	}

	return g.nodes[g.order[0]]
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

// Connect adds a connection and returns its id. Ports are not checked.
func (g *Graph) Connect(fromNodeID, fromPort, toNodeID, toPort string) string {
	id := connectionIDPrefix + strconv.Itoa(g.nextConnID)
	g.nextConnID++

	g.connections = append(g.connections, models.Connection{
		ID:         id,
		FromNodeID: fromNodeID,
		FromPort:   fromPort,
		ToNodeID:   toNodeID,
		ToPort:     toPort,
	})

	return id
}

func (g *Graph) RemoveConnection(id string) bool {
	index := slices.IndexFunc(g.connections, func(c models.Connection) bool { return c.ID == id })
	if index < 0 {
		return false
	}

	g.connections = slices.Delete(g.connections, index, index+1)

	return true
}

// GetConnections returns the connections leaving fromNodeID in creation order.
func (g *Graph) GetConnections(fromNodeID string) []models.Connection {
	var out []models.Connection

	for _, c := range g.connections {
		if c.FromNodeID == fromNodeID {
			out = append(out, c)
		}
	}

	return out
}

// Connections returns a copy of every connection in creation order.
func (g *Graph) Connections() []models.Connection {
	return slices.Clone(g.connections)
}

// Clear drops all nodes and connections and restarts connection ids.
func (g *Graph) Clear() {
	g.nodes = make(map[string]protocol.Node)
	g.order = nil
	g.connections = nil
	g.nextConnID = 1
}

// Serialize returns a snapshot of the graph.
func (g *Graph) Serialize() models.SerializedGraph {
	doc := models.SerializedGraph{
		Nodes:       make([]models.SerializedNode, 0, len(g.order)),
		Connections: g.Connections(),
	}

	if doc.Connections == nil {
		doc.Connections = []models.Connection{}
	}

	for _, id := range g.order {
		doc.Nodes = append(doc.Nodes, g.nodes[id].Serialize())
	}

	return doc
}

// reserveConnectionID moves the id counter past id so that Connect never
// hands it out again.
func (g *Graph) reserveConnectionID(id string) {
	suffix, found := strings.CutPrefix(id, connectionIDPrefix)
	if !found {
		return
	}

	if n, err := strconv.Atoi(suffix); err == nil && n >= g.nextConnID {
		g.nextConnID = n + 1
	}
}

// restoreConnection appends c, keeping its id unless the id is empty or
// already taken, in which case a fresh one is allocated. It returns the id the
// connection ended up with.
func (g *Graph) restoreConnection(c models.Connection) string {
	if c.ID == "" || slices.ContainsFunc(g.connections, func(existing models.Connection) bool { return existing.ID == c.ID }) {
		c.ID = connectionIDPrefix + strconv.Itoa(g.nextConnID)
		g.nextConnID++
	}

	g.connections = append(g.connections, c)

	return c.ID
}
