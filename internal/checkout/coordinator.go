package checkout

import (
	"context"
	"fmt"

	"github.com/shopexplorer/storefront/internal/alerts"
	"github.com/shopexplorer/storefront/pkg/logger"
	"github.com/shopexplorer/storefront/pkg/types"
)

const (
	msgAddSuccess = "Product added to cart successfully!"
	msgAddFailure = "Failed to add item to cart. Please try again."
)

type cartStore interface {
	AddItem(ctx context.Context, product types.Product)
	UpdateQuantity(ctx context.Context, productID, quantity int)
	GetItemQuantity(productID int) int
}

type confirmer interface {
	ConfirmAddToCart(ctx context.Context, productID int) error
}

// Coordinator runs the optimistic add-to-cart flow: the cart mutation lands
// before the remote confirmation round trip, and a failed confirmation
// triggers exactly one compensating mutation.
type Coordinator struct {
	store     cartStore
	confirmer confirmer
	notifier  alerts.Notifier
	logg      *logger.Logger
}

// CoordinatorParams collects the coordinator dependencies.
type CoordinatorParams struct {
	Store     cartStore
	Confirmer confirmer
	Notifier  alerts.Notifier
	Logger    *logger.Logger
}

// NewCoordinator wires the optimistic mutation flow.
func NewCoordinator(params CoordinatorParams) (*Coordinator, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("coordinator cart store required")
	}
	if params.Confirmer == nil {
		return nil, fmt.Errorf("coordinator confirmer required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("coordinator notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("coordinator logger required")
	}
	return &Coordinator{
		store:     params.Store,
		confirmer: params.Confirmer,
		notifier:  params.Notifier,
		logg:      params.Logger,
	}, nil
}

// AddToCart applies the increment immediately, then waits on the remote
// confirmation. On success the optimistic update stands; on failure the
// entry is restored to the quantity captured before the increment, so a
// pre-existing quantity survives a rejected confirmation.
func (c *Coordinator) AddToCart(ctx context.Context, product types.Product) error {
	ctx = c.logg.WithProductID(ctx, product.ID)

	prior := c.store.GetItemQuantity(product.ID)
	c.store.AddItem(ctx, product)

	if err := c.confirmer.ConfirmAddToCart(ctx, product.ID); err != nil {
		// Compensate: quantity 0 removes the entry entirely.
		c.store.UpdateQuantity(ctx, product.ID, prior)
		c.logg.Warn(ctx, "optimistic add rolled back")
		c.notifier.Notify(ctx, alerts.Alert{Level: alerts.LevelError, Message: msgAddFailure})
		return err
	}

	c.notifier.Notify(ctx, alerts.Alert{Level: alerts.LevelSuccess, Message: msgAddSuccess})
	return nil
}
