package controller

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
)

// mockGateway answers from canned data and records every call.
type mockGateway struct {
	mu sync.RWMutex

	calls []call
	errs  map[string]error
	// gate blocks ListProducts until closed or the context ends.
	gate chan struct{}

	loginResp  domain.LoginResponse
	products   []domain.Product
	product    domain.Product
	created    domain.Product
	updated    domain.Product
	cartRows   map[int64][]domain.CartRow
	orderResp  domain.OrderResponse
	orders     []domain.Order
	orderItems []domain.OrderItem
	sales      []domain.Sale
	userSales  []domain.UserSale
}

type call struct {
	name string
	args []any
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		errs:     make(map[string]error),
		cartRows: make(map[int64][]domain.CartRow),
	}
}

func (m *mockGateway) record(name string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{name: name, args: args})
	return m.errs[name]
}

func (m *mockGateway) setErr(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[name] = err
}

func (m *mockGateway) setCart(userID int64, rows []domain.CartRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cartRows[userID] = rows
}

func (m *mockGateway) callsTo(name string) []call {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []call
	for _, c := range m.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockGateway) callCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

func protocolErr(msg string) error {
	return &gateway.Error{Op: "test", Kind: gateway.KindProtocol, StatusCode: 400, Message: msg}
}

func (m *mockGateway) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if err := m.record("Register", req); err != nil {
		return domain.RegisterResponse{}, err
	}
	return domain.RegisterResponse{Message: "Usuario registrado", User: domain.User{Username: req.Username}}, nil
}

func (m *mockGateway) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	if err := m.record("Login", req); err != nil {
		return domain.LoginResponse{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loginResp, nil
}

func (m *mockGateway) ListProducts(ctx context.Context) ([]domain.Product, error) {
	err := m.record("ListProducts")
	m.mu.RLock()
	gate := m.gate
	m.mu.RUnlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Product{}, m.products...), nil
}

func (m *mockGateway) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if err := m.record("GetProduct", id); err != nil {
		return domain.Product{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.product, nil
}

func (m *mockGateway) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := m.record("CreateProduct", p); err != nil {
		return domain.Product{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.created, nil
}

func (m *mockGateway) UpdateProduct(ctx context.Context, id int64, p domain.Product) (domain.Product, error) {
	if err := m.record("UpdateProduct", id, p); err != nil {
		return domain.Product{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updated, nil
}

func (m *mockGateway) DeleteProduct(ctx context.Context, id int64) (gateway.Status, error) {
	if err := m.record("DeleteProduct", id); err != nil {
		return nil, err
	}
	return gateway.Status{"message": "Producto eliminado correctamente"}, nil
}

func (m *mockGateway) GetCart(ctx context.Context, userID int64) ([]domain.CartRow, error) {
	if err := m.record("GetCart", userID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CartRow{}, m.cartRows[userID]...), nil
}

func (m *mockGateway) AddCartItem(ctx context.Context, req domain.CartRequest) (gateway.Status, error) {
	if err := m.record("AddCartItem", req); err != nil {
		return nil, err
	}
	return gateway.Status{"message": "Item agregado al carrito"}, nil
}

func (m *mockGateway) UpdateCartItem(ctx context.Context, cartItemID int64, quantity int) (gateway.Status, error) {
	if err := m.record("UpdateCartItem", cartItemID, quantity); err != nil {
		return nil, err
	}
	return gateway.Status{"message": "Carrito actualizado"}, nil
}

func (m *mockGateway) DeleteCartItem(ctx context.Context, cartItemID int64) (gateway.Status, error) {
	if err := m.record("DeleteCartItem", cartItemID); err != nil {
		return nil, err
	}
	return gateway.Status{"message": "Item eliminado del carrito"}, nil
}

func (m *mockGateway) ClearCart(ctx context.Context, userID int64) (gateway.Status, error) {
	if err := m.record("ClearCart", userID); err != nil {
		return nil, err
	}
	return gateway.Status{"message": "Carrito limpiado"}, nil
}

func (m *mockGateway) CreateOrder(ctx context.Context, userID int64) (domain.OrderResponse, error) {
	if err := m.record("CreateOrder", userID); err != nil {
		return domain.OrderResponse{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orderResp, nil
}

func (m *mockGateway) ListUserOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	if err := m.record("ListUserOrders", userID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders, nil
}

func (m *mockGateway) ListOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	if err := m.record("ListOrderItems", orderID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orderItems, nil
}

func (m *mockGateway) ListSales(ctx context.Context) ([]domain.Sale, error) {
	if err := m.record("ListSales"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sales, nil
}

func (m *mockGateway) ListUserSales(ctx context.Context, userID int64) ([]domain.UserSale, error) {
	if err := m.record("ListUserSales", userID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userSales, nil
}
