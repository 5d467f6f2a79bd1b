package registry

import (
	"github.com/dukex/nodegraph/pkg/nodes/conditional"
	"github.com/dukex/nodegraph/pkg/nodes/enemyspawn"
	"github.com/dukex/nodegraph/pkg/nodes/log"
	"github.com/dukex/nodegraph/pkg/nodes/wavestart"
)

// RegisterDefaultNodes registers all built-in node factories with the registry.
func (r *Registry) RegisterDefaultNodes() {
	r.RegisterNode(wavestart.NewWaveStartNodeFactory())
	r.RegisterNode(enemyspawn.NewEnemySpawnNodeFactory())
	r.RegisterNode(conditional.NewConditionalNodeFactory())
	r.RegisterNode(log.NewLogNodeFactory())
}
