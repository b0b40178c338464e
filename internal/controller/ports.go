package controller

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
)

// Gateway is the subset of the service gateway the controller calls.
type Gateway interface {
	Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (gateway.Status, error)

	GetCart(ctx context.Context, userID int64) ([]domain.CartRow, error)
	AddCartItem(ctx context.Context, req domain.CartRequest) (gateway.Status, error)
	UpdateCartItem(ctx context.Context, cartItemID int64, quantity int) (gateway.Status, error)
	DeleteCartItem(ctx context.Context, cartItemID int64) (gateway.Status, error)
	ClearCart(ctx context.Context, userID int64) (gateway.Status, error)

	CreateOrder(ctx context.Context, userID int64) (domain.OrderResponse, error)
	ListUserOrders(ctx context.Context, userID int64) ([]domain.Order, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)

	ListSales(ctx context.Context) ([]domain.Sale, error)
	ListUserSales(ctx context.Context, userID int64) ([]domain.UserSale, error)
}

// SessionStore persists the signed-in user and the cart mirror.
type SessionStore interface {
	SaveUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context) *domain.User
	IsLoggedIn(ctx context.Context) bool
	ClearSession(ctx context.Context) error
	SaveCart(ctx context.Context, items []domain.CartItem) error
	GetCart(ctx context.Context) []domain.CartItem
	ClearCart(ctx context.Context) error
}
