package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type SalesHandler struct {
	sf      Storefront
	timeout time.Duration
}

func NewSalesHandler(sf Storefront, timeout time.Duration) *SalesHandler {
	return &SalesHandler{sf: sf, timeout: timeout}
}

// GET /api/v1/sales
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !await(ctx, w, h.sf.LoadSales()) {
		return
	}
	sales := h.sf.Sales()
	if sales == nil {
		sales = []domain.Sale{}
	}
	respondJSON(w, http.StatusOK, sales)
}

// GET /api/v1/sales/mine
func (h *SalesHandler) Mine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !await(ctx, w, h.sf.LoadUserSoldProducts()) {
		return
	}
	respondJSON(w, http.StatusOK, toProductsResponse(h.sf.SoldProducts()))
}
