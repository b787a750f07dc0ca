package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/tiendita/orders-api/internal/domain/product"
)

// ProductSource loads row-locked products for line resolution. Inside the
// creation pipeline this is the transaction's TxStore.
type ProductSource interface {
	ProductsForUpdate(ctx context.Context, ids []int64) ([]product.Product, error)
}

// LineResolver turns request items into priced, stock-aware order lines.
type LineResolver struct{}

// NewLineResolver returns a LineResolver.
func NewLineResolver() *LineResolver {
	return &LineResolver{}
}

// Resolve fetches every referenced product in one batch and pairs it with the
// requested quantity, preserving the request's item order. It fails with
// *ProductNotFoundError for the first reference that has no matching product.
//
// Items referencing the same product resolve to the same *product.Product
// instance, so a stock decrement applied through one line is observed by the
// subsequent lines for that product.
func (r *LineResolver) Resolve(ctx context.Context, src ProductSource, req *CreateOrderRequest) ([]Line, error) {
	ids := make([]int64, 0, len(req.Items))
	seen := make(map[int64]struct{}, len(req.Items))
	for _, item := range req.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	fetched, err := src.ProductsForUpdate(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "load products")
	}

	byID := make(map[int64]*product.Product, len(fetched))
	for i := range fetched {
		byID[fetched[i].ID] = &fetched[i]
	}

	lines := make([]Line, 0, len(req.Items))
	for _, item := range req.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		lines = append(lines, Line{Product: p, Quantity: item.Quantity})
	}

	return lines, nil
}
