package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

func apples() entity.Product {
	return entity.Product{ID: 1, Name: "Royal Delicious Apples", PricePerKg: 2}
}

func plums() entity.Product {
	return entity.Product{ID: 2, Name: "Santa Rosa Plums", PricePerKg: 3}
}

func TestAddMergesSameProductAndSize(t *testing.T) {
	c := New()

	require.NoError(t, c.Add(apples(), 5))
	require.NoError(t, c.Add(apples(), 5))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddKeepsDifferentPackageSizesSeparate(t *testing.T) {
	c := New()

	require.NoError(t, c.Add(apples(), 5))
	require.NoError(t, c.Add(apples(), 10))

	assert.Len(t, c.Lines(), 2)
}

func TestAddRejectsUnknownPackageSize(t *testing.T) {
	c := New()

	err := c.Add(apples(), 7)
	assert.ErrorIs(t, err, ErrInvalidPackageSize)
	assert.Empty(t, c.Lines())
}

func TestUpdateQuantitySetsExactValue(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(apples(), 5))

	c.UpdateQuantity(1, 5, 4)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(apples(), 5))

	c.UpdateQuantity(1, 5, 0)

	assert.Empty(t, c.Lines())
}

func TestRemoveDropsOnlyMatchingLine(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(apples(), 5))
	require.NoError(t, c.Add(plums(), 10))

	c.Remove(1, 5)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Product.ID)
}

func TestTotals(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(apples(), 5)) // 2 * 5 = 10
	c.UpdateQuantity(1, 5, 2)              // 20
	require.NoError(t, c.Add(plums(), 10)) // 3 * 10 = 30

	assert.InDelta(t, 50, c.TotalPrice(), 1e-9)
	assert.Equal(t, 3, c.TotalItems())
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(apples(), 5))

	c.Clear()

	assert.Empty(t, c.Lines())
	assert.Zero(t, c.TotalPrice())
	assert.Zero(t, c.TotalItems())
}

func TestSnapshotFreezesItemsAndTotal(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(apples(), 5))
	c.UpdateQuantity(1, 5, 2)

	items, total := c.Snapshot()

	require.Len(t, items, 1)
	assert.Equal(t, entity.OrderItem{
		ProductID:   1,
		ProductName: "Royal Delicious Apples",
		PricePerKg:  2,
		PackageSize: 5,
		Quantity:    2,
		Subtotal:    20,
	}, items[0])
	assert.InDelta(t, 20, total, 1e-9)
}

func TestRegistrySessions(t *testing.T) {
	r := NewRegistry()

	token, c := r.GetOrCreate("")
	require.NotEmpty(t, token)
	require.NoError(t, c.Add(apples(), 5))

	again, ok := r.Get(token)
	require.True(t, ok)
	assert.Equal(t, 1, again.TotalItems())

	sameToken, same := r.GetOrCreate(token)
	assert.Equal(t, token, sameToken)
	assert.Same(t, c, same)

	r.Drop(token)
	_, ok = r.Get(token)
	assert.False(t, ok)
}
