// Package storage persists normalized datasets with full-replace semantics.
package storage

import (
	"context"

	"github.com/hyperjump/yomitori/internal/models"
)

// Store is the persistence collaborator for datasets. Every save discards
// whatever the named table held before; there is no merge or append.
type Store interface {
	// ReplaceAll overwrites the named table with the dataset. An empty
	// dataset clears the table.
	ReplaceAll(ctx context.Context, table string, ds *models.Dataset) error

	// ReadAll returns the dataset currently held by the named table. A
	// table that was never written reads as an empty dataset.
	ReadAll(ctx context.Context, table string) (*models.Dataset, error)

	Close() error
}
