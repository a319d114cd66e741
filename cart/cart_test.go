package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrokart/storefront/catalog"
	"github.com/agrokart/storefront/core"
)

func product(id string, price float64) catalog.Product {
	return catalog.Product{
		ID:       catalog.ProductID(id),
		Name:     "Product " + id,
		Category: "Fertilizers",
		Price:    price,
		Stock:    10,
	}
}

// Scenario: add product id "42" twice with quantities 1 and 2 - the
// cart holds two distinct line items and counts 3 units.
func TestAdd_SameProductTwiceKeepsDistinctItems(t *testing.T) {
	s := New()

	first, err := s.Add(product("42", 500), 1)
	require.NoError(t, err)
	second, err := s.Add(product("42", 500), 2)
	require.NoError(t, err)

	assert.NotEqual(t, first.CartItemID, second.CartItemID)
	assert.Equal(t, 3, s.Count())

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, items[0].Product.ID, items[1].Product.ID)
}

func TestAdd_RejectsZeroQuantity(t *testing.T) {
	s := New()
	_, err := s.Add(product("1", 100), 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Equal(t, 0, s.Count())
}

func TestAdd_UniqueIDsUnderRapidCalls(t *testing.T) {
	s := New()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		item, err := s.Add(product("p", 10), 1)
		require.NoError(t, err)
		if _, dup := seen[item.CartItemID]; dup {
			t.Fatalf("duplicate cart item id %s on iteration %d", item.CartItemID, i)
		}
		seen[item.CartItemID] = struct{}{}
	}
}

func TestSetQuantity_FloorOfOne(t *testing.T) {
	s := New()
	item, err := s.Add(product("1", 100), 2)
	require.NoError(t, err)

	// Decrement below 1 is rejected and never removes the item
	err = s.SetQuantity(item.CartItemID, 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 2, s.Items()[0].Quantity)

	require.NoError(t, s.SetQuantity(item.CartItemID, 5))
	assert.Equal(t, 5, s.Items()[0].Quantity)
}

func TestSetQuantity_UnknownIDIsNoOp(t *testing.T) {
	s := New()
	_, err := s.Add(product("1", 100), 1)
	require.NoError(t, err)

	require.NoError(t, s.SetQuantity("missing", 3))
	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestTotal_ReflectsMutations(t *testing.T) {
	s := New()

	before := s.Total()
	assert.Equal(t, float64(0), before)

	a, err := s.Add(product("1", 500), 1)
	require.NoError(t, err)
	_, err = s.Add(product("2", 800), 2)
	require.NoError(t, err)
	assert.Equal(t, float64(500+1600), s.Total())

	// Round trip: add then remove restores the pre-add total
	s.Remove(a.CartItemID)
	assert.Equal(t, float64(1600), s.Total())
	assert.Equal(t, 2, s.Count())
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	s := New()
	_, err := s.Add(product("1", 100), 1)
	require.NoError(t, err)

	s.Remove("never-existed")
	assert.Len(t, s.Items(), 1)
}

func TestClear(t *testing.T) {
	s := New()
	_, err := s.Add(product("1", 100), 2)
	require.NoError(t, err)

	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, float64(0), s.Total())
	assert.Empty(t, s.Items())
}

func TestSequenceGenerator(t *testing.T) {
	g := &SequenceGenerator{Prefix: "line"}
	assert.Equal(t, "line-1", g.NewID())
	assert.Equal(t, "line-2", g.NewID())
}

func TestPersistence_SnapshotAndRestore(t *testing.T) {
	mem := core.NewMemoryStore()

	s := New(
		WithIDGenerator(&SequenceGenerator{}),
		WithPersistence(mem, "agrokart:cart", 0),
	)
	_, err := s.Add(product("1", 500), 2)
	require.NoError(t, err)
	_, err = s.Add(product("2", 800), 1)
	require.NoError(t, err)

	// A fresh store over the same memory sees the snapshot
	restored := New(WithPersistence(mem, "agrokart:cart", 0))
	require.NoError(t, restored.Restore(context.Background()))
	assert.Equal(t, 3, restored.Count())
	assert.Equal(t, float64(1800), restored.Total())
}

func TestPersistence_ClearWipesSnapshot(t *testing.T) {
	mem := core.NewMemoryStore()
	s := New(WithPersistence(mem, "agrokart:cart", 0))
	_, err := s.Add(product("1", 100), 1)
	require.NoError(t, err)
	s.Clear()

	restored := New(WithPersistence(mem, "agrokart:cart", 0))
	require.NoError(t, restored.Restore(context.Background()))
	assert.Equal(t, 0, restored.Count())
}

func TestPersistence_RedisBacked(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := core.NewRedisStore(core.RedisStoreOptions{
		RedisURL: "redis://" + mr.Addr(),
	})
	require.NoError(t, err)
	defer store.Close()

	s := New(WithPersistence(store, "cart:user-1", 0))
	_, err = s.Add(product("1", 250), 4)
	require.NoError(t, err)

	restored := New(WithPersistence(store, "cart:user-1", 0))
	require.NoError(t, restored.Restore(context.Background()))
	assert.Equal(t, 4, restored.Count())
	assert.Equal(t, float64(1000), restored.Total())
}
