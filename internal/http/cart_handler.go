package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type CartHandler struct {
	sf      Storefront
	timeout time.Duration
}

func NewCartHandler(sf Storefront, timeout time.Duration) *CartHandler {
	return &CartHandler{sf: sf, timeout: timeout}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartItemDTO struct {
	domain.CartItem
	Subtotal          domain.Money `json:"subtotal"`
	SubtotalFormatted string       `json:"subtotal_formatted"`
}

type CartResponse struct {
	Items          []CartItemDTO `json:"items"`
	Count          int           `json:"count"`
	Total          domain.Money  `json:"total"`
	TotalFormatted string        `json:"total_formatted"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart())
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.sf.Product(ctx, req.ProductID)
	if err != nil {
		handleTaskError(w, err)
		return
	}
	if !await(ctx, w, h.sf.AddToCart(product)) {
		return
	}
	respondJSON(w, http.StatusCreated, h.cart())
}

// PUT /api/v1/cart/items/{cart_item_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartItemID, ok := pathID(r, "cart_item_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_cart_item_id", "cart_item_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	// Zero or less removes the row.
	if !await(ctx, w, h.sf.UpdateQuantity(cartItemID, req.Quantity)) {
		return
	}
	respondJSON(w, http.StatusOK, h.cart())
}

// DELETE /api/v1/cart/items/{cart_item_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartItemID, ok := pathID(r, "cart_item_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_cart_item_id", "cart_item_id must be a positive integer")
		return
	}

	if !await(ctx, w, h.sf.RemoveFromCart(cartItemID)) {
		return
	}
	respondJSON(w, http.StatusOK, h.cart())
}

func (h *CartHandler) cart() CartResponse {
	items := h.sf.Cart()
	dtos := make([]CartItemDTO, len(items))
	for i, item := range items {
		sub := item.Subtotal()
		dtos[i] = CartItemDTO{CartItem: item, Subtotal: sub, SubtotalFormatted: domain.FormatCLP(sub)}
	}
	total := h.sf.CartTotal()
	return CartResponse{
		Items:          dtos,
		Count:          h.sf.CartItemsCount(),
		Total:          total,
		TotalFormatted: domain.FormatCLP(total),
	}
}
