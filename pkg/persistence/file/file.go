// Package file provides file-based persistence for graph documents.
package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const graphsDir = "graphs"

// Persistence stores each graph as <root>/graphs/<id>.json.
type Persistence struct {
	root   string
	logger *slog.Logger

	// mu serializes Save so CreatedAt survives concurrent writers.
	mu sync.Mutex
}

// NewPersistence accepts a directory path, optionally prefixed with file://.
func NewPersistence(ctx context.Context, logger *slog.Logger, root string) (*Persistence, error) {
	root = strings.TrimPrefix(root, "file://")
	if root == "" {
		return nil, errors.New("file persistence requires a root directory")
	}

	err := os.MkdirAll(filepath.Join(root, graphsDir), 0o750)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphs directory: %w", err)
	}

	logger.InfoContext(ctx, "Using file persistence", "root", root)

	return &Persistence{
		root:   root,
		logger: logger,
	}, nil
}

// HealthCheck verifies the graphs directory is still reachable.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	info, err := os.Stat(filepath.Join(fp.root, graphsDir))
	if err != nil {
		return fmt.Errorf("file persistence unavailable: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("file persistence unavailable: %s is not a directory", info.Name())
	}

	return nil
}

func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

func (fp *Persistence) graphPath(id string) string {
	return filepath.Join(fp.root, graphsDir, id+".json")
}
