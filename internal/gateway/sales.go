package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

var (
	opGetCart        = op{"get_cart", "Error al cargar carrito"}
	opAddCartItem    = op{"add_cart_item", "Error al agregar al carrito"}
	opUpdateCartItem = op{"update_cart_item", "Error al actualizar carrito"}
	opDeleteCartItem = op{"delete_cart_item", "Error al eliminar del carrito"}
	opClearCart      = op{"clear_cart", "Error al limpiar carrito"}
	opCreateOrder    = op{"create_order", "Error al crear orden"}
	opUserOrders     = op{"list_user_orders", "Error al cargar órdenes"}
	opOrderItems     = op{"list_order_items", "Error al cargar items de la orden"}
	opCreateSale     = op{"create_sale", "Error al registrar venta"}
	opListSales      = op{"list_sales", "Error al cargar ventas"}
	opUserSales      = op{"list_user_sales", "Error al cargar ventas del usuario"}
)

// GetCart returns the server-held cart rows of a user.
func (c *Client) GetCart(ctx context.Context, userID int64) ([]domain.CartRow, error) {
	return call[[]domain.CartRow](ctx, c, c.sales, opGetCart, http.MethodGet, fmt.Sprintf("/cart/%d", userID), nil)
}

func (c *Client) AddCartItem(ctx context.Context, req domain.CartRequest) (Status, error) {
	return call[Status](ctx, c, c.sales, opAddCartItem, http.MethodPost, "/cart", req)
}

func (c *Client) UpdateCartItem(ctx context.Context, cartItemID int64, quantity int) (Status, error) {
	path := fmt.Sprintf("/cart/%d", cartItemID)
	return call[Status](ctx, c, c.sales, opUpdateCartItem, http.MethodPut, path, domain.CartUpdateRequest{Quantity: quantity})
}

func (c *Client) DeleteCartItem(ctx context.Context, cartItemID int64) (Status, error) {
	return call[Status](ctx, c, c.sales, opDeleteCartItem, http.MethodDelete, fmt.Sprintf("/cart/%d", cartItemID), nil)
}

func (c *Client) ClearCart(ctx context.Context, userID int64) (Status, error) {
	return call[Status](ctx, c, c.sales, opClearCart, http.MethodDelete, fmt.Sprintf("/cart/user/%d", userID), nil)
}

// CreateOrder checks out the user's server cart. The service empties that
// cart itself.
func (c *Client) CreateOrder(ctx context.Context, userID int64) (domain.OrderResponse, error) {
	return call[domain.OrderResponse](ctx, c, c.sales, opCreateOrder, http.MethodPost, "/orders", domain.OrderRequest{UserID: userID})
}

func (c *Client) ListUserOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return call[[]domain.Order](ctx, c, c.sales, opUserOrders, http.MethodGet, fmt.Sprintf("/orders/user/%d", userID), nil)
}

func (c *Client) ListOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	return call[[]domain.OrderItem](ctx, c, c.sales, opOrderItems, http.MethodGet, fmt.Sprintf("/orders/%d/items", orderID), nil)
}

func (c *Client) CreateSale(ctx context.Context, req domain.SaleRequest) (domain.SaleResponse, error) {
	return call[domain.SaleResponse](ctx, c, c.sales, opCreateSale, http.MethodPost, "/sales", req)
}

func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return call[[]domain.Sale](ctx, c, c.sales, opListSales, http.MethodGet, "/sales", nil)
}

func (c *Client) ListUserSales(ctx context.Context, userID int64) ([]domain.UserSale, error) {
	return call[[]domain.UserSale](ctx, c, c.sales, opUserSales, http.MethodGet, fmt.Sprintf("/sales/user/%d", userID), nil)
}
