package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/persistence"
)

// GraphRepository handles graph-related database operations.
type GraphRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewGraphRepository creates a new graph repository.
func NewGraphRepository(db *sql.DB, logger *slog.Logger) *GraphRepository {
	return &GraphRepository{db: db, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// GetAll returns all graphs, newest first.
func (r *GraphRepository) GetAll(ctx context.Context) ([]*models.GraphRecord, error) {
	query := `
		SELECT
			id
		  , name
		  , document
		  , created_at
		  , updated_at
		FROM graphs
		ORDER BY created_at DESC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query graphs: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	records := make([]*models.GraphRecord, 0)

	for rows.Next() {
		record, err := r.scanGraph(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan graph: %w", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating graphs: %w", err)
	}

	return records, nil
}

func (r *GraphRepository) GetByID(ctx context.Context, id string) (*models.GraphRecord, error) {
	query := `
		SELECT
			id
		  , name
		  , document
		  , created_at
		  , updated_at
		FROM graphs
		WHERE id = $1
	`

	record, err := r.scanGraph(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewGraphError("GetByID", id, persistence.ErrGraphNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to scan graph: %w", err)
	}

	return record, nil
}

// Save upserts a graph. An existing row keeps its created_at, which is
// copied back into record.
func (r *GraphRepository) Save(ctx context.Context, record *models.GraphRecord) error {
	if err := persistence.ValidateGraphID(record.ID); err != nil {
		return persistence.NewGraphError("Save", record.ID, err)
	}

	now := time.Now().UTC()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	record.UpdatedAt = now

	documentJSON, err := json.Marshal(record.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal graph document: %w", err)
	}

	query := `
		INSERT INTO graphs (id, name, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name
		  , document = EXCLUDED.document
		  , updated_at = EXCLUDED.updated_at
		RETURNING created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		record.ID, record.Name, documentJSON, record.CreatedAt, record.UpdatedAt,
	).Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}

	record.CreatedAt = record.CreatedAt.UTC()

	return nil
}

func (r *GraphRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM graphs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete graph: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete graph: %w", err)
	}

	if affected == 0 {
		return persistence.NewGraphError("Delete", id, persistence.ErrGraphNotFound)
	}

	return nil
}

func (r *GraphRepository) scanGraph(row rowScanner) (*models.GraphRecord, error) {
	var (
		record       models.GraphRecord
		documentJSON []byte
	)

	err := row.Scan(&record.ID, &record.Name, &documentJSON, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(documentJSON, &record.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph document: %w", err)
	}

	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()

	return &record, nil
}
