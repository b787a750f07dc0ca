package order

import (
	"context"

	"github.com/tiendita/orders-api/internal/domain/product"
)

// TxStore is the storage view available inside one order-creation unit of
// work. All three operations share a single transaction: either the order
// insert and every stock update commit together, or none of them do.
type TxStore interface {
	// ProductsForUpdate loads the products with the given ids and locks their
	// rows for the remainder of the transaction, serializing concurrent stock
	// decrements per product.
	ProductsForUpdate(ctx context.Context, ids []int64) ([]product.Product, error)

	// UpdateStock persists a product's new stock level.
	UpdateStock(ctx context.Context, productID int64, stock int) error

	// CreateOrder inserts the order and its items, filling in the assigned id
	// and creation timestamp.
	CreateOrder(ctx context.Context, o *Order) error
}

// Store opens order-creation transactions.
type Store interface {
	// InTx runs fn inside a storage transaction. fn returning an error rolls
	// back every write made through the TxStore; nil commits them all.
	InTx(ctx context.Context, fn func(tx TxStore) error) error
}
