package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type OrdersHandler struct {
	sf      Storefront
	timeout time.Duration
}

func NewOrdersHandler(sf Storefront, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{sf: sf, timeout: timeout}
}

type OrderResponseDTO struct {
	domain.Order
	TotalFormatted string `json:"total_formatted"`
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !await(ctx, w, h.sf.LoadUserOrders()) {
		return
	}

	orders := h.sf.Orders()
	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, OrderResponseDTO{Order: o, TotalFormatted: domain.FormatCLP(o.Total)})
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}/items
func (h *OrdersHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := pathID(r, "order_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return
	}

	if !await(ctx, w, h.sf.LoadOrderItems(orderID)) {
		return
	}
	items := h.sf.OrderItems(orderID)
	if items == nil {
		items = []domain.OrderItem{}
	}
	respondJSON(w, http.StatusOK, items)
}
