package models

import "fmt"

// PortKind classifies what travels through a port.
type PortKind int

const (
	PortKindFlow  PortKind = iota // execution may continue to the connected node
	PortKindData                  // carries a value consumed downstream
	PortKindEvent                 // signals an occurrence
)

func (k PortKind) String() string {
	switch k {
	case PortKindFlow:
		return "flow"
	case PortKindData:
		return "data"
	case PortKindEvent:
		return "event"
	default:
		return fmt.Sprintf("port_kind(%d)", int(k))
	}
}

// PortDirection represents the direction of data flow for a port.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// Port is a named socket on a node. Name and direction are fixed when the
// port is declared; Value holds the last value produced or consumed.
type Port struct {
	Name      string
	Kind      PortKind
	Value     any
	direction PortDirection
}

// NewInputPort declares an input port.
func NewInputPort(name string, kind PortKind) *Port {
	return &Port{Name: name, Kind: kind, direction: PortDirectionInput}
}

// NewOutputPort declares an output port.
func NewOutputPort(name string, kind PortKind) *Port {
	return &Port{Name: name, Kind: kind, direction: PortDirectionOutput}
}

// Direction returns the direction fixed at construction.
func (p *Port) Direction() PortDirection {
	return p.direction
}

func (p *Port) IsOutput() bool {
	return p.direction == PortDirectionOutput
}

// Serialize returns the structural form of the port. The value is not part of it.
func (p *Port) Serialize() SerializedPort {
	return SerializedPort{
		Name:     p.Name,
		Type:     p.Kind,
		IsOutput: p.IsOutput(),
	}
}
