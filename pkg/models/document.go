package models

import "time"

// SerializedPort is the document form of a port.
type SerializedPort struct {
	Name     string   `json:"name"      validate:"required"`
	Type     PortKind `json:"type"      validate:"gte=0,lte=2"`
	IsOutput bool     `json:"is_output"`
}

// SerializedNode is the document form of a node.
type SerializedNode struct {
	ID          string           `json:"id"          validate:"required"`
	Type        string           `json:"type"        validate:"required"`
	Category    string           `json:"category"`
	Color       string           `json:"color"`
	Description string           `json:"description"`
	Properties  map[string]any   `json:"properties"`
	Status      NodeStatus       `json:"status"      validate:"gte=0,lte=4"`
	Inputs      []SerializedPort `json:"inputs"      validate:"dive"`
	Outputs     []SerializedPort `json:"outputs"     validate:"dive"`
}

// SerializedGraph is the whole-graph snapshot exchanged with storage and tools.
type SerializedGraph struct {
	Nodes       []SerializedNode `json:"nodes"       validate:"dive"`
	Connections []Connection     `json:"connections" validate:"dive"`
}

// GraphRecord is a stored graph document.
type GraphRecord struct {
	ID        string          `json:"id"         validate:"required,max=128,excludesall=/\\"`
	Name      string          `json:"name"       validate:"required,min=1,max=255"`
	Document  SerializedGraph `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
