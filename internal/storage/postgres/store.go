package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendita/orders-api/internal/domain/order"
	"github.com/tiendita/orders-api/internal/domain/product"
)

const (
	productsForUpdateSQL = `SELECT id, name, price, stock FROM products
	WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	updateStockSQL = `UPDATE products SET stock = $2 WHERE id = $1`

	insertOrderSQL = `INSERT INTO orders (customer_name, customer_email, total, status)
	VALUES ($1, $2, $3, $4) RETURNING id, created_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
	VALUES ($1, $2, $3, $4, $5)`
)

var _ order.Store = (*Store)(nil)

// Store implements order.Store on top of a pgx connection pool. Each InTx
// call maps to one database transaction; the FOR UPDATE product load inside
// it serializes concurrent order creations touching the same products.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store that uses the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InTx runs fn inside a database transaction, committing when fn returns nil
// and rolling back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx order.TxStore) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&txStore{tx: tx})
	})
}

var _ order.TxStore = (*txStore)(nil)

type txStore struct {
	tx pgx.Tx
}

// ProductsForUpdate loads the products with the given ids, locking their rows
// in ascending id order so concurrent transactions acquire them consistently.
func (t *txStore) ProductsForUpdate(ctx context.Context, ids []int64) ([]product.Product, error) {
	rows, err := t.tx.Query(ctx, productsForUpdateSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("locking products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("scanning locked products: %w", err)
	}
	return products, nil
}

// UpdateStock persists a product's new stock level.
func (t *txStore) UpdateStock(ctx context.Context, productID int64, stock int) error {
	if _, err := t.tx.Exec(ctx, updateStockSQL, productID, stock); err != nil {
		return fmt.Errorf("updating stock for product %d: %w", productID, err)
	}
	return nil
}

// CreateOrder inserts the order row and its items, filling in the assigned id
// and creation timestamp.
func (t *txStore) CreateOrder(ctx context.Context, o *order.Order) error {
	err := t.tx.QueryRow(ctx, insertOrderSQL,
		o.CustomerName, o.CustomerEmail, o.Total, string(o.Status),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(insertOrderItemSQL,
			o.ID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity,
		)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting order items: %w", err)
	}
	return nil
}
