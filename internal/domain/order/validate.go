package order

import (
	"fmt"
	"strings"
)

// CreateOrderRequest holds the input for placing an order.
type CreateOrderRequest struct {
	CustomerName  string
	CustomerEmail string
	Items         []ItemRequest
}

// ItemRequest references one product and the quantity to order.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// RequestValidator performs structural validation of a CreateOrderRequest.
// It has no side effects and touches no storage; it must run before any
// product lookup so malformed requests never reach the catalog.
type RequestValidator struct{}

// NewRequestValidator returns a RequestValidator.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

// Validate returns *InvalidRequestError describing the first violation found,
// or nil when the request is structurally sound.
func (v *RequestValidator) Validate(req *CreateOrderRequest) error {
	if req == nil {
		return &InvalidRequestError{Reason: "request is required"}
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return &InvalidRequestError{Reason: "customer name is required"}
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return &InvalidRequestError{Reason: "customer email is required"}
	}
	if len(req.Items) == 0 {
		return &InvalidRequestError{Reason: "order items are required"}
	}

	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return &InvalidRequestError{
				Reason: fmt.Sprintf("item %d: product id is required", i),
			}
		}
		if item.Quantity <= 0 {
			return &InvalidRequestError{
				Reason: fmt.Sprintf("item %d: quantity must be greater than 0", i),
			}
		}
	}

	return nil
}
