// Package cart holds the client-local shopping cart: an ordered list
// of line items keyed by a synthetic id. Adding the same product twice
// creates two distinct line items rather than merging quantities.
// Totals are always recomputed from the live items, never cached.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/agrokart/storefront/catalog"
	"github.com/agrokart/storefront/core"
)

// Item is one product-plus-quantity entry in the cart. The product is
// a snapshot taken at add time; later catalog changes do not reach
// into existing carts.
type Item struct {
	CartItemID string          `json:"cartItemId"`
	Product    catalog.Product `json:"product"`
	Quantity   int             `json:"quantity"`
}

// Store is the cart state and its mutations. It does no network I/O.
// All operations are synchronous, so callers observe them strictly in
// call order.
type Store struct {
	mu     sync.Mutex
	items  []Item
	idgen  IDGenerator
	logger core.Logger

	// optional persistence
	memory     core.Memory
	persistKey string
	persistTTL time.Duration
}

// Option configures a cart Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUID line-item id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.idgen = g
		}
	}
}

// WithPersistence snapshots the cart into a Memory store after every
// mutation so it survives restarts. Persistence is best effort: a
// failed write is logged and the in-memory cart stays authoritative.
func WithPersistence(m core.Memory, key string, ttl time.Duration) Option {
	return func(s *Store) {
		s.memory = m
		s.persistKey = key
		s.persistTTL = ttl
	}
}

// New creates an empty cart store.
func New(opts ...Option) *Store {
	s := &Store{
		items:  make([]Item, 0),
		idgen:  UUIDGenerator{},
		logger: &core.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetLogger configures the logger for this cart store
func (s *Store) SetLogger(logger core.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Add appends a new line item for the product. Each call creates a
// distinct item with a fresh id, even for a product already in the
// cart. A quantity below 1 is rejected before any state changes.
func (s *Store) Add(product catalog.Product, quantity int) (Item, error) {
	if quantity < 1 {
		return Item{}, fmt.Errorf("quantity must be at least 1: %w", core.ErrInvalidInput)
	}

	s.mu.Lock()
	item := Item{
		CartItemID: s.idgen.NewID(),
		Product:    product,
		Quantity:   quantity,
	}
	s.items = append(s.items, item)
	s.mu.Unlock()

	s.logger.Debug("Cart item added", map[string]interface{}{
		"cart_item_id": item.CartItemID,
		"product_id":   string(product.ID),
		"quantity":     quantity,
	})
	s.persist()
	return item, nil
}

// Remove deletes the line item with the given id. Removing an absent
// id is a no-op.
func (s *Store) Remove(cartItemID string) {
	s.mu.Lock()
	for i, item := range s.items {
		if item.CartItemID == cartItemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.persist()
}

// SetQuantity changes a line item's quantity. Quantities below 1 are
// rejected with no state change - decrementing to zero never removes
// an item; removal is always an explicit Remove. An unknown id is a
// no-op.
func (s *Store) SetQuantity(cartItemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", core.ErrInvalidInput)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].CartItemID == cartItemID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	s.persist()
	return nil
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the sum of quantities over the current items.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Total is the sum of price times quantity over the current items.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// Clear empties the cart. Used after a successful order submission and
// on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = s.items[:0]
	s.mu.Unlock()
	s.persist()
}

// Restore loads a previously persisted snapshot, replacing the current
// items. A missing snapshot leaves the cart empty and is not an error.
func (s *Store) Restore(ctx context.Context) error {
	if s.memory == nil {
		return nil
	}
	raw, err := s.memory.Get(ctx, s.persistKey)
	if err != nil {
		return fmt.Errorf("restoring cart snapshot: %w", err)
	}
	if raw == "" {
		return nil
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return fmt.Errorf("malformed cart snapshot: %w", core.ErrInvalidInput)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Info("Cart restored", map[string]interface{}{
		"items": len(items),
	})
	return nil
}

// persist writes the snapshot when persistence is configured.
func (s *Store) persist() {
	if s.memory == nil {
		return
	}

	s.mu.Lock()
	data, err := json.Marshal(s.items)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("Cart snapshot marshal failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.memory.Set(ctx, s.persistKey, string(data), s.persistTTL); err != nil {
		s.logger.Warn("Cart snapshot write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
