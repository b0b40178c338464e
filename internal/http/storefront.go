package http

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/controller"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

// Storefront is what the handlers need from the state controller.
type Storefront interface {
	Snapshot() controller.Snapshot
	CurrentUser() *domain.User

	Register(req domain.RegisterRequest, cb controller.Callbacks) *controller.Task
	Login(req domain.LoginRequest, cb controller.Callbacks) *controller.Task
	Logout() *controller.Task
	CartReload() *controller.Task

	LoadProducts() *controller.Task
	Products() []domain.Product
	Product(ctx context.Context, id int64) (domain.Product, error)
	CreateProduct(p domain.Product, cb controller.Callbacks) *controller.Task
	UpdateProduct(id int64, p domain.Product, cb controller.Callbacks) *controller.Task
	DeleteProduct(id int64, cb controller.Callbacks) *controller.Task

	Cart() []domain.CartItem
	CartTotal() domain.Money
	CartItemsCount() int
	AddToCart(p domain.Product) *controller.Task
	UpdateQuantity(cartItemID int64, quantity int) *controller.Task
	RemoveFromCart(cartItemID int64) *controller.Task

	ProcessPurchase(cb controller.Callbacks) *controller.Task
	LastOrder() (domain.OrderResponse, bool)
	LoadUserOrders() *controller.Task
	Orders() []domain.Order
	LoadOrderItems(orderID int64) *controller.Task
	OrderItems(orderID int64) []domain.OrderItem

	LoadSales() *controller.Task
	Sales() []domain.Sale
	LoadUserSoldProducts() *controller.Task
	SoldProducts() []domain.Product
}
