package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tiendita/orders-api/internal/domain/order"
)

// createOrderRequest is the JSON body for POST /api/orders.
type createOrderRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Items         []struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	} `json:"items"`
}

type orderResponse struct {
	ID            int64           `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Items         []order.Item    `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        order.Status    `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Items:         o.Items,
		Total:         o.Total,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var body createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	req := &order.CreateOrderRequest{
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		Items:         make([]order.ItemRequest, len(body.Items)),
	}
	for i, item := range body.Items {
		req.Items[i] = order.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	o, err := h.orders.Create(r.Context(), req)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = toOrderResponse(&orders[i])
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// writeOrderError maps domain errors to HTTP responses: structural problems
// are 400, unknown products 422, stock shortages 409 and missing orders 404.
// Anything else is an internal error and gets logged with its cause.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		irErr  *order.InvalidRequestError
		pnfErr *order.ProductNotFoundError
		isErr  *order.InsufficientStockError
	)
	switch {
	case errors.As(err, &irErr):
		writeError(w, r, http.StatusBadRequest, irErr.Error())
	case errors.As(err, &pnfErr):
		writeError(w, r, http.StatusUnprocessableEntity, pnfErr.Error())
	case errors.As(err, &isErr):
		writeError(w, r, http.StatusConflict, isErr.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "order not found")
	default:
		zctx.From(r.Context()).Error("order request failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
