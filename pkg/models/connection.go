package models

// Connection is a directed edge from one node's output port to another node's
// input port. Port names are not checked against the nodes when connecting.
type Connection struct {
	ID         string `json:"id"          validate:"required"`
	FromNodeID string `json:"from_node"   validate:"required"`
	FromPort   string `json:"from_output" validate:"required"`
	ToNodeID   string `json:"to_node"     validate:"required"`
	ToPort     string `json:"to_input"    validate:"required"`
}

// Touches reports whether the connection starts or ends at nodeID.
func (c Connection) Touches(nodeID string) bool {
	return c.FromNodeID == nodeID || c.ToNodeID == nodeID
}
