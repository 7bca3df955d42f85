package cartstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestItems_LazyCreatesEmptyCart(t *testing.T) {
	store := NewMemoryStore()

	items := store.Items("never-seen")

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAddItem_AppendsNewLine(t *testing.T) {
	store := NewMemoryStore()

	items := store.AddItem("c1", 1, nil, 2)

	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Nil(t, items[0].Variant)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItem_MergesSameKey(t *testing.T) {
	store := NewMemoryStore()

	store.AddItem("c1", 1, nil, 2)
	items := store.AddItem("c1", 1, nil, 3)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItem_DistinctVariantsAreDistinctLines(t *testing.T) {
	store := NewMemoryStore()

	store.AddItem("c1", 1, strPtr("M"), 1)
	store.AddItem("c1", 1, strPtr("L"), 1)
	items := store.AddItem("c1", 1, nil, 1)

	// Same product, three merge keys, insertion order kept.
	require.Len(t, items, 3)
	assert.Equal(t, "M", *items[0].Variant)
	assert.Equal(t, "L", *items[1].Variant)
	assert.Nil(t, items[2].Variant)
}

func TestAddItem_VariantAbsentDoesNotMatchVariantPresent(t *testing.T) {
	store := NewMemoryStore()

	store.AddItem("c1", 1, nil, 1)
	items := store.AddItem("c1", 1, strPtr(""), 1)

	require.Len(t, items, 2)
}

func TestRemoveItem_Decrements(t *testing.T) {
	store := NewMemoryStore()
	store.AddItem("c1", 1, nil, 5)

	items, err := store.RemoveItem("c1", 1, nil, 2)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestRemoveItem_QuantityAtOrAboveStored_RemovesLine(t *testing.T) {
	store := NewMemoryStore()
	store.AddItem("c1", 1, nil, 3)

	items, err := store.RemoveItem("c1", 1, nil, 3)
	require.NoError(t, err)
	assert.Empty(t, items)

	store.AddItem("c1", 1, nil, 3)
	items, err = store.RemoveItem("c1", 1, nil, 99)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveItem_NoQuantity_RemovesWholeLine(t *testing.T) {
	store := NewMemoryStore()
	store.AddItem("c1", 1, nil, 7)

	items, err := store.RemoveItem("c1", 1, nil, 0)

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveItem_KeepsOtherLinesInOrder(t *testing.T) {
	store := NewMemoryStore()
	store.AddItem("c1", 1, nil, 1)
	store.AddItem("c1", 2, nil, 1)
	store.AddItem("c1", 3, nil, 1)

	items, err := store.RemoveItem("c1", 2, nil, 0)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, int64(3), items[1].ProductID)
}

func TestRemoveItem_NotFound(t *testing.T) {
	store := NewMemoryStore()
	store.AddItem("c1", 1, strPtr("M"), 1)

	_, err := store.RemoveItem("c1", 2, nil, 0)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Same product id, different variant key.
	_, err = store.RemoveItem("c1", 1, strPtr("L"), 0)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Failed remove does not mutate the cart.
	items := store.Items("c1")
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestClear_ResetsToEmpty(t *testing.T) {
	store := NewMemoryStore()
	store.AddItem("c1", 1, nil, 5)

	items := store.Clear("c1")

	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Empty(t, store.Items("c1"))
}

func TestClear_CartThatNeverExisted(t *testing.T) {
	store := NewMemoryStore()

	items := store.Clear("ghost")

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCarts_AreIsolated(t *testing.T) {
	store := NewMemoryStore()

	store.AddItem("alice", 1, nil, 1)
	store.AddItem("bob", 2, nil, 2)

	aliceItems := store.Items("alice")
	bobItems := store.Items("bob")

	require.Len(t, aliceItems, 1)
	assert.Equal(t, int64(1), aliceItems[0].ProductID)
	require.Len(t, bobItems, 1)
	assert.Equal(t, int64(2), bobItems[0].ProductID)
}

func TestSnapshot_DoesNotAliasStoredItems(t *testing.T) {
	store := NewMemoryStore()
	store.AddItem("c1", 1, nil, 1)

	items := store.Items("c1")
	items[0].Quantity = 999

	assert.Equal(t, 1, store.Items("c1")[0].Quantity)
}

func TestConcurrentAdds_AreAtomicPerCart(t *testing.T) {
	store := NewMemoryStore()

	const workers = 100
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem("c1", 1, nil, 1)
		}()
	}
	wg.Wait()

	items := store.Items("c1")
	require.Len(t, items, 1)
	assert.Equal(t, workers, items[0].Quantity)
}

func TestConcurrentRemoves_NeverGoNegative(t *testing.T) {
	store := NewMemoryStore()
	store.AddItem("c1", 1, nil, 50)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.RemoveItem("c1", 1, nil, 1)
		}()
	}
	wg.Wait()

	assert.Empty(t, store.Items("c1"))
}
