package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/controller"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

type CheckoutHandler struct {
	sf      Storefront
	timeout time.Duration
}

func NewCheckoutHandler(sf Storefront, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{sf: sf, timeout: timeout}
}

type CheckoutResponseDTO struct {
	domain.OrderResponse
	TotalFormatted string `json:"total_formatted"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !await(ctx, w, h.sf.ProcessPurchase(controller.Callbacks{})) {
		return
	}
	order, _ := h.sf.LastOrder()
	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderResponse:  order,
		TotalFormatted: domain.FormatCLP(order.Total),
	})
}

// GET /api/v1/checkout/last
func (h *CheckoutHandler) LastOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.sf.LastOrder()
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no order placed in this session")
		return
	}
	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		OrderResponse:  order,
		TotalFormatted: domain.FormatCLP(order.Total),
	})
}
