package file

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/persistence"
)

func (fp *Persistence) GetByID(_ context.Context, id string) (*models.GraphRecord, error) {
	if err := persistence.ValidateGraphID(id); err != nil {
		return nil, persistence.NewGraphError("GetByID", id, err)
	}

	return fp.read(fp.graphPath(id))
}

func (fp *Persistence) Save(_ context.Context, record *models.GraphRecord) error {
	if err := persistence.ValidateGraphID(record.ID); err != nil {
		return persistence.NewGraphError("Save", record.ID, err)
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	now := time.Now().UTC()

	existing, err := fp.read(fp.graphPath(record.ID))

	switch {
	case err == nil:
		record.CreatedAt = existing.CreatedAt
	case persistence.IsGraphNotFound(err):
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
	default:
		return err
	}

	record.UpdatedAt = now

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph %s: %w", record.ID, err)
	}

	// Write to a sibling temp file first so readers never see a torn document.
	tmp, err := os.CreateTemp(filepath.Join(fp.root, graphsDir), record.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for graph %s: %w", record.ID, err)
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write graph %s: %w", record.ID, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write graph %s: %w", record.ID, err)
	}

	if err := os.Rename(tmp.Name(), fp.graphPath(record.ID)); err != nil {
		return fmt.Errorf("failed to write graph %s: %w", record.ID, err)
	}

	fp.logger.Debug("graph saved", "graph_id", record.ID)

	return nil
}

func (fp *Persistence) List(_ context.Context) ([]*models.GraphRecord, error) {
	entries, err := os.ReadDir(filepath.Join(fp.root, graphsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to read graphs directory: %w", err)
	}

	records := make([]*models.GraphRecord, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		record, err := fp.read(filepath.Join(fp.root, graphsDir, entry.Name()))
		if err != nil {
			fp.logger.Warn("skipping unreadable graph file", "file", entry.Name(), "error", err)

			continue
		}

		records = append(records, record)
	}

	slices.SortFunc(records, func(a, b *models.GraphRecord) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})

	return records, nil
}

func (fp *Persistence) Delete(_ context.Context, id string) error {
	if err := persistence.ValidateGraphID(id); err != nil {
		return persistence.NewGraphError("Delete", id, err)
	}

	err := os.Remove(fp.graphPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return persistence.NewGraphError("Delete", id, persistence.ErrGraphNotFound)
	}

	if err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", id, err)
	}

	return nil
}

func (fp *Persistence) read(path string) (*models.GraphRecord, error) {
	id := strings.TrimSuffix(filepath.Base(path), ".json")

	data, err := os.ReadFile(path) //nolint:gosec // path is built from a validated id
	if errors.Is(err, os.ErrNotExist) {
		return nil, persistence.NewGraphError("GetByID", id, persistence.ErrGraphNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read graph %s: %w", id, err)
	}

	var record models.GraphRecord

	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode graph %s: %w", id, err)
	}

	return &record, nil
}
