package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/tiendita/orders-api/internal/domain/product"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status is the lifecycle state of an order. Order creation only ever
// produces StatusConfirmed; the type exists so future states (shipped,
// cancelled) can be added without touching the pipeline.
type Status string

// StatusConfirmed marks an order that passed the full creation pipeline.
const StatusConfirmed Status = "CONFIRMED"

// Order is a persisted customer order. Total and Items are set exactly once
// by the orchestrator before the order is stored and never mutated afterward.
type Order struct {
	ID            int64
	CustomerName  string
	CustomerEmail string
	Items         []Item
	Total         decimal.Decimal
	Status        Status
	CreatedAt     time.Time
}

// Item is the persisted snapshot of one ordered product. Name and unit price
// are copied from the product at order-build time so later catalog edits do
// not rewrite order history.
type Item struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Line pairs a loaded product with the requested quantity. Lines are
// pipeline-internal: they exist between resolution and order construction
// and are discarded afterward. Lines referencing the same product share a
// single *product.Product instance, so stock mutations applied through one
// line are visible to the others.
type Line struct {
	Product  *product.Product
	Quantity int
}

// Repository defines read operations for persisted orders. Writes go through
// the transactional Store instead.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
}
