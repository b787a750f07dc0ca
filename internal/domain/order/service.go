package order

import (
	"context"

	"github.com/go-faster/errors"
)

// Service orchestrates order creation and lookups. Creation runs the full
// pipeline inside one storage transaction: resolve lines, check stock, price,
// discount, decrement inventory, persist.
type Service struct {
	store     Store
	orders    Repository
	validator *RequestValidator
	resolver  *LineResolver
	stock     *StockValidator
	pricing   *PriceCalculator
	discount  DiscountPolicy
	inventory *InventoryMutator
}

// NewService builds a Service around the given store and order repository.
func NewService(store Store, orders Repository, discount DiscountPolicy) *Service {
	return &Service{
		store:     store,
		orders:    orders,
		validator: NewRequestValidator(),
		resolver:  NewLineResolver(),
		stock:     NewStockValidator(),
		pricing:   NewPriceCalculator(),
		discount:  discount,
		inventory: NewInventoryMutator(),
	}
}

// Create validates the request, then runs the creation pipeline in a single
// transaction. On success the returned order carries its assigned id, the
// discounted total and confirmed status. On any pipeline failure the
// transaction rolls back and neither the order nor any stock change persists.
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var created *Order
	err := s.store.InTx(ctx, func(tx TxStore) error {
		lines, err := s.resolver.Resolve(ctx, tx, req)
		if err != nil {
			return err
		}
		if err := s.stock.Validate(lines); err != nil {
			return err
		}

		subtotal := s.pricing.Subtotal(lines)
		total := s.discount.Apply(subtotal, lines)

		items := make([]Item, len(lines))
		for i, line := range lines {
			items[i] = Item{
				ProductID:   line.Product.ID,
				ProductName: line.Product.Name,
				UnitPrice:   line.Product.Price,
				Quantity:    line.Quantity,
			}
		}

		if err := s.inventory.Apply(ctx, tx, lines); err != nil {
			return err
		}

		o := &Order{
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			Items:         items,
			Total:         total,
			Status:        StatusConfirmed,
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return errors.Wrap(err, "persist order")
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Get returns the order with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}
