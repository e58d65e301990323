package repository

import (
	"context"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/domain"
)

// SnapshotRepository defines the interface for persisting the cart's line
// collection to a single well-known durable slot.
type SnapshotRepository interface {
	// Load reads the persisted line collection. Returns an error wrapping
	// pkg/errors.ErrNotFound when no snapshot has ever been saved.
	Load(ctx context.Context) ([]domain.LineItem, error)

	// Save overwrites the slot with the given line collection.
	Save(ctx context.Context, lines []domain.LineItem) error

	// Delete removes the slot entirely.
	Delete(ctx context.Context) error
}
