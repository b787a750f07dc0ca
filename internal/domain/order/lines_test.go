package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendita/orders-api/internal/domain/product"
)

type mockProductSource struct {
	products []product.Product
	err      error
	gotIDs   []int64
}

func newProductSource(products ...product.Product) *mockProductSource {
	return &mockProductSource{products: products}
}

func (m *mockProductSource) ProductsForUpdate(_ context.Context, ids []int64) ([]product.Product, error) {
	m.gotIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]product.Product, 0, len(ids))
	for _, p := range m.products {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestLineResolver_PreservesItemOrder(t *testing.T) {
	src := newProductSource(
		newTestProduct(1, "Widget", "10.00", 5),
		newTestProduct(2, "Gadget", "20.00", 5),
	)
	req := &CreateOrderRequest{Items: []ItemRequest{
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 3},
	}}

	lines, err := NewLineResolver().Resolve(context.Background(), src, req)

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), lines[0].Product.ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(1), lines[1].Product.ID)
	assert.Equal(t, 3, lines[1].Quantity)
}

func TestLineResolver_DuplicateItemsShareInstance(t *testing.T) {
	src := newProductSource(newTestProduct(1, "Widget", "10.00", 5))
	req := &CreateOrderRequest{Items: []ItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 3},
	}}

	lines, err := NewLineResolver().Resolve(context.Background(), src, req)

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Same(t, lines[0].Product, lines[1].Product)
	assert.Equal(t, []int64{1}, src.gotIDs)
}

func TestLineResolver_ProductNotFound(t *testing.T) {
	src := newProductSource(newTestProduct(1, "Widget", "10.00", 5))
	req := &CreateOrderRequest{Items: []ItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 42, Quantity: 1},
	}}

	_, err := NewLineResolver().Resolve(context.Background(), src, req)

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, int64(42), pnfErr.ProductID)
}

func TestLineResolver_SourceError(t *testing.T) {
	src := newProductSource()
	src.err = errors.New("connection reset")
	req := &CreateOrderRequest{Items: []ItemRequest{{ProductID: 1, Quantity: 1}}}

	_, err := NewLineResolver().Resolve(context.Background(), src, req)

	require.Error(t, err)
	assert.ErrorIs(t, err, src.err)
}
