package enemyspawn

import (
	"context"

	"github.com/dukex/nodegraph/pkg/protocol"
)

// EnemySpawnNodeFactory creates EnemySpawnNode instances.
type EnemySpawnNodeFactory struct{}

// Create creates a new EnemySpawnNode instance.
func (f *EnemySpawnNodeFactory) Create(_ context.Context, id string) (protocol.Node, error) {
	return NewEnemySpawnNode(id), nil
}

// ID returns the factory ID.
func (f *EnemySpawnNodeFactory) ID() string {
	return TypeName
}

// Name returns the factory name.
func (f *EnemySpawnNodeFactory) Name() string {
	return "Enemy Spawn"
}

// Description returns the factory description.
func (f *EnemySpawnNodeFactory) Description() string {
	return "Spawns a group of enemies. Count and health follow the incoming wave data unless set on the node."
}

// Schema returns the JSON schema for enemy spawn properties.
func (f *EnemySpawnNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			PropertyEnemyType: map[string]any{
				"type":        "string",
				"description": "Kind of enemy to spawn",
				"default":     "basic",
				"examples":    []string{"basic", "fast", "tank", "boss"},
			},
			PropertyCount: map[string]any{
				"type":        "integer",
				"description": "Enemies to spawn. Defaults to the wave's enemy_count",
				"minimum":     0,
				"maximum":     MaxCount,
			},
			PropertyHealth: map[string]any{
				"type":        "number",
				"description": "Base health, scaled by the wave difficulty",
				"minimum":     0,
				"default":     100,
			},
		},
		"examples": []map[string]any{
			{PropertyEnemyType: "tank", PropertyCount: 2, PropertyHealth: 400},
		},
	}
}

// NewEnemySpawnNodeFactory creates a new factory instance.
func NewEnemySpawnNodeFactory() protocol.NodeFactory {
	return &EnemySpawnNodeFactory{}
}
