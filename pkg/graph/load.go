package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

// NodeCreator builds nodes by type name, usually a *registry.Registry.
type NodeCreator interface {
	CreateNode(ctx context.Context, typeName string, id string) (protocol.Node, error)
}

// SchemaProvider is implemented by creators that know the property schema of
// each node type. Deserialize validates restored properties against it.
type SchemaProvider interface {
	PropertySchema(typeName string) map[string]any
}

// SkippedNode is a node of a document that could not be loaded.
type SkippedNode struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// RenamedConnection is a connection whose id was missing or already used in
// the document and was given a fresh one.
type RenamedConnection struct {
	OriginalID string `json:"original_id"`
	ID         string `json:"id"`
}

// LoadReport lists what Deserialize could not restore faithfully.
type LoadReport struct {
	SkippedNodes        []SkippedNode       `json:"skipped_nodes"`
	Warnings            []string            `json:"warnings"`
	DanglingConnections []models.Connection `json:"dangling_connections"`
	RenamedConnections  []RenamedConnection `json:"renamed_connections"`
}

// Clean reports whether the document loaded without any finding.
func (r *LoadReport) Clean() bool {
	return len(r.SkippedNodes) == 0 &&
		len(r.Warnings) == 0 &&
		len(r.DanglingConnections) == 0 &&
		len(r.RenamedConnections) == 0
}

// Deserialize replaces the graph's contents with doc. Nodes are recreated via
// creator and their properties restored; nodes of unknown types are skipped.
// Connections are restored in document order, including ones whose endpoints
// are missing, which are listed in the report. A connection whose id is empty
// or repeats an earlier one gets a fresh id.
func (g *Graph) Deserialize(ctx context.Context, creator NodeCreator, doc models.SerializedGraph) (*LoadReport, error) {
	if creator == nil {
		return nil, errors.New("graph: nil node creator")
	}

	g.Clear()

	report := &LoadReport{}
	schemas, _ := creator.(SchemaProvider)

	for _, serialized := range doc.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("graph: load interrupted: %w", err)
		}

		node, err := creator.CreateNode(ctx, serialized.Type, serialized.ID)
		if err != nil {
			g.logger.Warn("skipping node", "node_id", serialized.ID, "type", serialized.Type, "error", err)
			report.SkippedNodes = append(report.SkippedNodes, SkippedNode{
				ID:     serialized.ID,
				Type:   serialized.Type,
				Reason: err.Error(),
			})

			continue
		}

		for key, value := range serialized.Properties {
			node.SetProperty(key, models.CopyValue(value))
		}

		if err := g.AddNode(node); err != nil {
			report.SkippedNodes = append(report.SkippedNodes, SkippedNode{
				ID:     serialized.ID,
				Type:   serialized.Type,
				Reason: err.Error(),
			})

			continue
		}

		if schemas != nil {
			report.Warnings = append(report.Warnings, validateProperties(node, schemas.PropertySchema(node.Type()))...)
		}
	}

	for _, c := range doc.Connections {
		g.reserveConnectionID(c.ID)
	}

	for _, c := range doc.Connections {
		id := g.restoreConnection(c)
		if id != c.ID {
			g.logger.Warn("renamed connection", "connection_id", c.ID, "new_id", id)
			report.RenamedConnections = append(report.RenamedConnections, RenamedConnection{OriginalID: c.ID, ID: id})
			c.ID = id
		}

		if g.GetNode(c.FromNodeID) == nil || g.GetNode(c.ToNodeID) == nil {
			report.DanglingConnections = append(report.DanglingConnections, c)
		}
	}

	if !report.Clean() {
		g.logger.Warn("graph loaded with findings",
			"skipped_nodes", len(report.SkippedNodes),
			"warnings", len(report.Warnings),
			"dangling_connections", len(report.DanglingConnections),
			"renamed_connections", len(report.RenamedConnections),
		)
	}

	return report, nil
}

func validateProperties(node protocol.Node, schema map[string]any) []string {
	if schema == nil {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(node.Properties()),
	)
	if err != nil {
		return []string{fmt.Sprintf("node %s: cannot validate properties: %v", node.ID(), err)}
	}

	if result.Valid() {
		return nil
	}

	warnings := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		warnings = append(warnings, fmt.Sprintf("node %s: %s", node.ID(), strings.TrimPrefix(resultErr.String(), "(root): ")))
	}

	return warnings
}
