// Package persistence provides the storage abstraction for graph documents.
package persistence

import (
	"context"

	"github.com/dukex/nodegraph/pkg/models"
)

// GraphRepository stores graph records by id.
type GraphRepository interface {
	// Save creates or replaces a record. CreatedAt is kept from the first
	// save; UpdatedAt is set on every save.
	Save(ctx context.Context, record *models.GraphRecord) error
	// GetByID returns ErrGraphNotFound when no record has the id.
	GetByID(ctx context.Context, id string) (*models.GraphRecord, error)
	// List returns every record, most recently created first.
	List(ctx context.Context) ([]*models.GraphRecord, error)
	// Delete returns ErrGraphNotFound when no record has the id.
	Delete(ctx context.Context, id string) error
}

type Persistence interface {
	GraphRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
