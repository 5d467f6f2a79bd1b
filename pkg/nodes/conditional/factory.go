package conditional

import (
	"context"

	"github.com/dukex/nodegraph/pkg/protocol"
)

// ConditionalNodeFactory creates ConditionalNode instances.
type ConditionalNodeFactory struct{}

// Create creates a new ConditionalNode instance.
func (f *ConditionalNodeFactory) Create(_ context.Context, id string) (protocol.Node, error) {
	return NewConditionalNode(id), nil
}

// ID returns the factory ID.
func (f *ConditionalNodeFactory) ID() string {
	return TypeName
}

// Name returns the factory name.
func (f *ConditionalNodeFactory) Name() string {
	return "Conditional"
}

// Description returns the factory description.
func (f *ConditionalNodeFactory) Description() string {
	return "Evaluates a condition against its input. Execution continues only when it holds."
}

// Schema returns the JSON schema for Conditional node configuration.
func (f *ConditionalNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			PropertyCondition: map[string]any{
				"type":        "string",
				"description": "Template rendered with .input and .properties. Non-zero numbers and non-empty values are truthy.",
				"examples": []string{
					`{{ gt (float .input.wave_number) 2.0 }}`,
					`{{ eq .input.enemy_type "boss" }}`,
					`{{ .input.enemy_count }}`,
				},
			},
			PropertyField: map[string]any{
				"type":        "string",
				"description": "Input field compared against value",
			},
			PropertyOperator: map[string]any{
				"type":    "string",
				"enum":    []string{"==", "!=", ">", ">=", "<", "<="},
				"default": "==",
			},
			PropertyValue: map[string]any{
				"description": "Value the field is compared against",
			},
		},
		"examples": []map[string]any{
			{PropertyCondition: `{{ gt (float .input.wave_number) 2.0 }}`},
			{PropertyField: "wave_number", PropertyOperator: ">=", PropertyValue: 5},
		},
	}
}

// NewConditionalNodeFactory creates a new factory instance.
func NewConditionalNodeFactory() protocol.NodeFactory {
	return &ConditionalNodeFactory{}
}
