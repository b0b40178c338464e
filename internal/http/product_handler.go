package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/controller"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

type ProductHandler struct {
	sf      Storefront
	timeout time.Duration
}

func NewProductHandler(sf Storefront, timeout time.Duration) *ProductHandler {
	return &ProductHandler{sf: sf, timeout: timeout}
}

type ProductResponse struct {
	domain.Product
	PriceFormatted string `json:"price_formatted"`
	ImageKind      string `json:"image_kind"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		Product:        p,
		PriceFormatted: domain.FormatCLP(p.Price),
		ImageKind:      p.Image().String(),
	}
}

func toProductsResponse(products []domain.Product) ProductsResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return ProductsResponse{Products: out}
}

// GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !await(ctx, w, h.sf.LoadProducts()) {
		return
	}
	respondJSON(w, http.StatusOK, toProductsResponse(h.sf.Products()))
}

// GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	p, err := h.sf.Product(ctx, id)
	if err != nil {
		handleTaskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

// POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	// New listings belong to whoever is signed in.
	if user := h.sf.CurrentUser(); user != nil && !p.SellerName.IsSome() {
		p.SellerName = domain.Some(user.Username)
	}

	if !await(ctx, w, h.sf.CreateProduct(p, controller.Callbacks{})) {
		return
	}
	respondJSON(w, http.StatusCreated, toProductsResponse(h.sf.Products()))
}

// PUT /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	p.ID = id

	if !await(ctx, w, h.sf.UpdateProduct(id, p, controller.Callbacks{})) {
		return
	}
	respondJSON(w, http.StatusOK, toProductsResponse(h.sf.Products()))
}

// DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	if !await(ctx, w, h.sf.DeleteProduct(id, controller.Callbacks{})) {
		return
	}
	respondJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (domain.Product, bool) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return p, false
	}
	if strings.TrimSpace(p.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return p, false
	}
	if p.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return p, false
	}
	if stock, ok := p.Stock.Get(); ok && stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_stock", "stock must not be negative")
		return p, false
	}
	return p, true
}
