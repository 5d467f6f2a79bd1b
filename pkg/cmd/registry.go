// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dukex/nodegraph/pkg/registry"
)

// NewRegistry registers the built-in node types, then any node plugins found
// under pluginsPath. An empty pluginsPath skips plugin loading.
func NewRegistry(log *slog.Logger, pluginsPath string) (*registry.Registry, error) {
	reg := registry.NewRegistry(log)
	reg.RegisterDefaultNodes()

	if pluginsPath == "" {
		return reg, nil
	}

	if _, err := reg.LoadNodePlugins(pluginsPath); err != nil {
		return nil, fmt.Errorf("failed to load node plugins: %w", err)
	}

	return reg, nil
}
