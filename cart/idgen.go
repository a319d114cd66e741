package cart

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces the synthetic identifier for each cart line
// item. Every call must yield a fresh value: timestamp-only ids
// collide when the same product is added twice in quick succession,
// which is exactly the case line items exist to distinguish.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the default generator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator yields prefix-1, prefix-2, ... It is handy in
// tests and anywhere deterministic ids matter; the atomic counter
// keeps it unique under rapid repeated calls.
type SequenceGenerator struct {
	Prefix string
	n      uint64
}

func (g *SequenceGenerator) NewID() string {
	n := atomic.AddUint64(&g.n, 1)
	prefix := g.Prefix
	if prefix == "" {
		prefix = "cart-item"
	}
	return fmt.Sprintf("%s-%d", prefix, n)
}
