package order

import (
	"context"

	"github.com/go-faster/errors"
)

// StockWriter persists updated stock levels. Inside the creation pipeline
// this is the transaction's TxStore.
type StockWriter interface {
	UpdateStock(ctx context.Context, productID int64, stock int) error
}

// InventoryMutator decrements product stock for resolved order lines. It
// must only run after StockValidator approved the lines, and within the same
// transaction as the order insert.
type InventoryMutator struct{}

// NewInventoryMutator returns an InventoryMutator.
func NewInventoryMutator() *InventoryMutator {
	return &InventoryMutator{}
}

// Apply subtracts each line's quantity from its product's stock and persists
// the new level. Lines for the same product share one product instance, so
// decrements accumulate across duplicate lines: the second line subtracts
// from the already-reduced level and the last write carries the summed
// reduction.
func (m *InventoryMutator) Apply(ctx context.Context, store StockWriter, lines []Line) error {
	for _, line := range lines {
		line.Product.Stock -= line.Quantity
		if err := store.UpdateStock(ctx, line.Product.ID, line.Product.Stock); err != nil {
			return errors.Wrapf(err, "update stock for product %d", line.Product.ID)
		}
	}
	return nil
}
