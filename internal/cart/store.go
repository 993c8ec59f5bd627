package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopexplorer/storefront/pkg/logger"
	"github.com/shopexplorer/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Store owns the canonical cart state for a session. It keeps an ordered
// collection with at most one entry per product id, recomputes totals on
// read, and mirrors every mutation to durable storage best-effort: a storage
// failure is logged, never surfaced, and never rolls back memory.
type Store struct {
	mu    sync.Mutex
	items []types.CartItem
	repo  Repository
	logg  *logger.Logger
}

// StoreParams collects the store dependencies.
type StoreParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// NewStore hydrates the cart from durable storage. Missing, malformed, or
// unreadable state degrades to an empty cart; hydration problems never fail
// construction.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("cart logger required")
	}

	s := &Store{repo: params.Repo, logg: params.Logger}

	items, err := params.Repo.Load(ctx)
	if err != nil {
		params.Logger.Warn(ctx, "cart state unreadable, starting empty")
	} else {
		s.items = sanitizeLoaded(items)
	}
	return s, nil
}

// sanitizeLoaded drops entries that violate the store invariants (duplicate
// product ids, non-positive quantities) so a tampered or stale snapshot can
// never poison the in-memory state.
func sanitizeLoaded(items []types.CartItem) []types.CartItem {
	seen := make(map[int]struct{}, len(items))
	kept := make([]types.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if _, dup := seen[item.Product.ID]; dup {
			continue
		}
		seen[item.Product.ID] = struct{}{}
		kept = append(kept, item)
	}
	return kept
}

// AddItem increments the quantity for an existing entry or appends a new one
// with quantity 1.
func (s *Store) AddItem(ctx context.Context, product types.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity++
			s.persistLocked(ctx)
			return
		}
	}
	s.items = append(s.items, types.CartItem{Product: product, Quantity: 1})
	s.persistLocked(ctx)
}

// RemoveItem deletes the entry for productID. Absent ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, productID)
}

func (s *Store) removeLocked(ctx context.Context, productID int) {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// UpdateQuantity sets the quantity for an existing entry. A quantity of zero
// or less removes the entry; an absent id is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(ctx, productID)
		return
	}
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
			s.persistLocked(ctx)
			return
		}
	}
}

// ClearCart empties the collection.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persistLocked(ctx)
}

// GetItemQuantity returns the current quantity for a product, or 0.
func (s *Store) GetItemQuantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			return s.items[i].Quantity
		}
	}
	return 0
}

// Items returns a copy of the collection in insertion order.
func (s *Store) Items() []types.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Subtotal is the sum of price times quantity over all entries.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, item := range s.items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Total equals the subtotal today; surcharges slot in here without touching
// callers.
func (s *Store) Total() decimal.Decimal {
	return s.Subtotal()
}

// ItemCount is the sum of quantities over all entries.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// persistLocked mirrors the current state to durable storage. Must be called
// with the mutex held so writes land in mutation order; failures only log.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, s.items); err != nil {
		s.logg.Error(ctx, "persisting cart state failed", err)
	}
}
