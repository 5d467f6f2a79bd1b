// Package conditional provides the branching node: the path continues only
// when its condition holds.
package conditional

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/node"
	"github.com/dukex/nodegraph/pkg/template"
	"github.com/spf13/cast"
)

const (
	TypeName = "conditional"

	InputPortMain     = "input"
	OutputPortResult  = "result"
	OutputPortOnTrue  = "on_true"
	PropertyCondition = "condition"
	PropertyField     = "field"
	PropertyOperator  = "operator"
	PropertyValue     = "value"
)

var (
	errNoCondition     = errors.New("neither condition nor field is set")
	errUnknownOperator = errors.New("unknown operator")
)

// ConditionalNode evaluates a condition against its input. A true condition
// completes and forwards the input; a false one skips, ending the path.
type ConditionalNode struct {
	node.Base
}

// NewConditionalNode creates a conditional node. Configure it with either a
// condition template or a field/operator/value comparison.
func NewConditionalNode(id string) *ConditionalNode {
	n := &ConditionalNode{
		Base: node.NewBase(id, TypeName, node.Metadata{
			Category:    "logic",
			Color:       "#2196F3",
			Description: "Continues only when a condition holds",
		}),
	}

	n.AddInputPort(InputPortMain, models.PortKindData)
	n.AddOutputPort(OutputPortResult, models.PortKindData)
	n.AddOutputPort(OutputPortOnTrue, models.PortKindFlow)

	return n
}

// Execute evaluates the condition.
func (n *ConditionalNode) Execute(_ context.Context, input any) models.NodeStatus {
	n.SetStatus(models.NodeStatusRunning)

	n.Input(InputPortMain).Value = input

	ok, err := n.evaluate(input)
	if err != nil {
		n.Logger().Warn("condition evaluation failed", "error", err)

		return n.Finish(models.NodeStatusError)
	}

	n.SetOutput(OutputPortResult, map[string]any{
		"condition_result": ok,
		"value":            models.CopyValue(input),
	})

	if !ok {
		n.SetOutput(OutputPortOnTrue, false)

		return n.Finish(models.NodeStatusSkipped)
	}

	n.SetOutput(OutputPortOnTrue, true)

	return n.Finish(models.NodeStatusCompleted)
}

func (n *ConditionalNode) evaluate(input any) (bool, error) {
	if condition := node.Property(n, PropertyCondition, ""); condition != "" {
		result, err := template.Render(condition, map[string]any{
			"input":      input,
			"properties": n.Properties(),
		})
		if err != nil {
			return false, err
		}

		return template.Truthy(result), nil
	}

	field := node.Property(n, PropertyField, "")
	if field == "" {
		return false, errNoCondition
	}

	object, _ := models.AsObject(input)
	actual, exists := object[field]
	expected, _ := n.Property(PropertyValue)

	return compare(actual, exists, node.Property(n, PropertyOperator, "=="), expected)
}

func compare(actual any, exists bool, operator string, expected any) (bool, error) {
	switch operator {
	case "==", "!=":
		equal := exists && equalValues(actual, expected)
		if operator == "!=" {
			return !equal, nil
		}

		return equal, nil
	case ">", ">=", "<", "<=":
		if !exists || !models.IsNumber(actual) || !models.IsNumber(expected) {
			return false, nil
		}

		a, b := cast.ToFloat64(actual), cast.ToFloat64(expected)

		switch operator {
		case ">":
			return a > b, nil
		case ">=":
			return a >= b, nil
		case "<":
			return a < b, nil
		default:
			return a <= b, nil
		}
	default:
		return false, fmt.Errorf("%w %q", errUnknownOperator, operator)
	}
}

func equalValues(a, b any) bool {
	if models.IsNumber(a) && models.IsNumber(b) {
		return cast.ToFloat64(a) == cast.ToFloat64(b)
	}

	return reflect.DeepEqual(a, b)
}
