package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// LineKey Tests
// ============================================================================

func TestLineKey_WithSize(t *testing.T) {
	assert.Equal(t, "p1:Familiar", LineKey("p1", "Familiar"))
}

func TestLineKey_WithoutSize(t *testing.T) {
	assert.Equal(t, "p1:default", LineKey("p1", ""))
}

// ============================================================================
// ResolveAdd Tests
// ============================================================================

func TestResolveAdd_AppendsNewLine(t *testing.T) {
	next, qty := ResolveAdd(nil, AddCandidate{
		ProductID: "p1",
		Name:      "Margarita",
		Size:      "M",
		UnitPrice: 1000,
		Quantity:  1,
	})

	require.Len(t, next, 1)
	assert.Equal(t, 1, qty)
	assert.Equal(t, "p1:M", next[0].ID)
	assert.Equal(t, "Margarita", next[0].Name)
	assert.Equal(t, int64(1000), next[0].UnitPrice)
}

func TestResolveAdd_MergesSameProductAndSize(t *testing.T) {
	lines, _ := ResolveAdd(nil, AddCandidate{ProductID: "p1", Size: "M", UnitPrice: 1000, Quantity: 1})
	next, qty := ResolveAdd(lines, AddCandidate{ProductID: "p1", Size: "M", UnitPrice: 1000, Quantity: 1})

	require.Len(t, next, 1)
	assert.Equal(t, 2, qty)
	assert.Equal(t, 2, next[0].Quantity)

	cart := Cart{Lines: next}
	assert.Equal(t, int64(2000), cart.TotalAmount())
}

func TestResolveAdd_DifferentSizesStayDistinct(t *testing.T) {
	lines, _ := ResolveAdd(nil, AddCandidate{ProductID: "p1", Size: "M", UnitPrice: 1000, Quantity: 1})
	next, _ := ResolveAdd(lines, AddCandidate{ProductID: "p1", Size: "L", UnitPrice: 1500, Quantity: 1})

	require.Len(t, next, 2)
	assert.Equal(t, "p1:M", next[0].ID)
	assert.Equal(t, "p1:L", next[1].ID)
}

func TestResolveAdd_QuantityAccumulatesRegardlessOfOrder(t *testing.T) {
	// q1 then q2
	a, _ := ResolveAdd(nil, AddCandidate{ProductID: "p1", Size: "M", Quantity: 3})
	a, qtyA := ResolveAdd(a, AddCandidate{ProductID: "p1", Size: "M", Quantity: 4})

	// q2 then q1
	b, _ := ResolveAdd(nil, AddCandidate{ProductID: "p1", Size: "M", Quantity: 4})
	b, qtyB := ResolveAdd(b, AddCandidate{ProductID: "p1", Size: "M", Quantity: 3})

	assert.Equal(t, 7, qtyA)
	assert.Equal(t, 7, qtyB)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
}

func TestResolveAdd_FirstWriteWinsForPriceAndName(t *testing.T) {
	lines, _ := ResolveAdd(nil, AddCandidate{ProductID: "p1", Size: "M", Name: "Margarita", UnitPrice: 1000, Quantity: 1})

	// Re-adding the same product at a different catalog price must not touch
	// the stored snapshot of price or name.
	next, _ := ResolveAdd(lines, AddCandidate{ProductID: "p1", Size: "M", Name: "Margherita NEW", UnitPrice: 1200, Quantity: 2})

	require.Len(t, next, 1)
	assert.Equal(t, int64(1000), next[0].UnitPrice)
	assert.Equal(t, "Margarita", next[0].Name)
	assert.Equal(t, 3, next[0].Quantity)
}

func TestResolveAdd_PreservesInsertionOrder(t *testing.T) {
	var lines []LineItem
	for _, id := range []string{"a", "b", "c"} {
		lines, _ = ResolveAdd(lines, AddCandidate{ProductID: id, Quantity: 1})
	}

	next, _ := ResolveAdd(lines, AddCandidate{ProductID: "d", Quantity: 1})

	require.Len(t, next, 4)
	assert.Equal(t, "a:default", next[0].ID)
	assert.Equal(t, "b:default", next[1].ID)
	assert.Equal(t, "c:default", next[2].ID)
	assert.Equal(t, "d:default", next[3].ID)
}

func TestResolveAdd_DoesNotMutateInput(t *testing.T) {
	lines, _ := ResolveAdd(nil, AddCandidate{ProductID: "p1", Size: "M", Quantity: 2})
	snapshot := make([]LineItem, len(lines))
	copy(snapshot, lines)

	_, _ = ResolveAdd(lines, AddCandidate{ProductID: "p1", Size: "M", Quantity: 5})
	_, _ = ResolveAdd(lines, AddCandidate{ProductID: "p2", Quantity: 1})

	assert.Equal(t, snapshot, lines)
}

// ============================================================================
// Cart Tests
// ============================================================================

func TestCart_TotalItemsAndAmount(t *testing.T) {
	cart := Cart{Lines: []LineItem{
		{ID: "a:default", UnitPrice: 1000, Quantity: 2},
		{ID: "b:default", UnitPrice: 500, Quantity: 1},
	}}

	assert.Equal(t, 3, cart.TotalItems())
	assert.Equal(t, int64(2500), cart.TotalAmount())
}

func TestCart_Empty(t *testing.T) {
	cart := Cart{}
	assert.Equal(t, 0, cart.TotalItems())
	assert.Equal(t, int64(0), cart.TotalAmount())
	assert.Equal(t, -1, cart.FindLineIndex("anything"))
}

func TestCart_FindLineIndex(t *testing.T) {
	cart := Cart{Lines: []LineItem{
		{ID: "p1:M"},
		{ID: "p1:L"},
	}}

	assert.Equal(t, 0, cart.FindLineIndex("p1:M"))
	assert.Equal(t, 1, cart.FindLineIndex("p1:L"))
	assert.Equal(t, -1, cart.FindLineIndex("p2:M"))
}

// ============================================================================
// SanitizeLines Tests
// ============================================================================

func TestSanitizeLines_DropsNonPositiveQuantities(t *testing.T) {
	clean := SanitizeLines([]LineItem{
		{ID: "a:default", ProductID: "a", Quantity: 2},
		{ID: "b:default", ProductID: "b", Quantity: 0},
		{ID: "c:default", ProductID: "c", Quantity: -1},
	})

	require.Len(t, clean, 1)
	assert.Equal(t, "a:default", clean[0].ID)
}

func TestSanitizeLines_DropsDuplicateIDs(t *testing.T) {
	clean := SanitizeLines([]LineItem{
		{ID: "a:default", ProductID: "a", Quantity: 1},
		{ID: "a:default", ProductID: "a", Quantity: 5},
	})

	require.Len(t, clean, 1)
	assert.Equal(t, 1, clean[0].Quantity)
}

func TestSanitizeLines_RecomputesMissingID(t *testing.T) {
	clean := SanitizeLines([]LineItem{
		{ProductID: "p1", Size: "M", Quantity: 1},
	})

	require.Len(t, clean, 1)
	assert.Equal(t, "p1:M", clean[0].ID)
}

func TestSanitizeLines_Empty(t *testing.T) {
	assert.Empty(t, SanitizeLines(nil))
}
