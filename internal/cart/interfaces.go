package cart

import (
	"context"

	"github.com/shopexplorer/storefront/pkg/types"
)

// Repository is the durable storage surface the store depends on. The store
// defines it; implementations live with their backing medium.
type Repository interface {
	// Load returns the persisted items, or (nil, nil) when nothing was saved yet.
	Load(ctx context.Context) ([]types.CartItem, error)
	// Save overwrites the persisted state with the given items.
	Save(ctx context.Context, items []types.CartItem) error
}
