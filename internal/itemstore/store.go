package itemstore

import (
	"context"

	"github.com/muurk/shoplist/internal/item"
)

// Store is the remote service of record for shopping list items.
type Store interface {
	// List fetches the current items.
	List(ctx context.Context) ([]item.Item, error)

	// Get fetches a single item by id.
	Get(ctx context.Context, id int) (item.Item, error)

	// Create stores a new item and returns it with its store-assigned id.
	Create(ctx context.Context, d item.Draft) (item.Item, error)

	// Update replaces the stored item with it and returns the stored version.
	Update(ctx context.Context, it item.Item) (item.Item, error)

	// Delete removes the item with the given id.
	Delete(ctx context.Context, id int) error
}
