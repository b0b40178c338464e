package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_cart/storefront/internal/controller"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

var ana = domain.User{ID: 7, Username: "ana", Name: "Ana", LastName: "Rojas", Email: "ana@example.com"}

// fakeBackend plays the users, products and sales services on one server.
type fakeBackend struct {
	mu         sync.Mutex
	products   []domain.Product
	cart       []domain.CartRow
	orders     []domain.Order
	orderItems map[int64][]domain.OrderItem
	sales      []domain.Sale
	nextID     int64
	down       bool
	// salesGate, when set, holds GET /sales until it is closed.
	salesGate chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: []domain.Product{
			{ID: 1, Name: "Polera", Price: domain.MoneyFromInt(12990), Stock: domain.Some(5), SellerName: domain.Some("bruno")},
			{ID: 2, Name: "Taza", Price: domain.MoneyFromInt(4500), Stock: domain.Some(10), SellerName: domain.Some("ana")},
		},
		orderItems: map[int64][]domain.OrderItem{},
		nextID:     100,
	}
}

func (b *fakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			down := b.down
			b.mu.Unlock()
			if down {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Servicio no disponible"})
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/register", func(w http.ResponseWriter, r *http.Request) {
		var req domain.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusCreated, domain.RegisterResponse{
			Message: "Usuario registrado",
			User:    domain.User{ID: 8, Username: req.Username, Name: req.Name, Email: req.Email},
		})
	})
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciales inválidas"})
			return
		}
		writeJSON(w, http.StatusOK, domain.LoginResponse{Message: "Login exitoso", ID: ana.ID, User: ana})
	})

	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.products)
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		idx := b.productIndex(urlID(r, "id"))
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Producto no encontrado"})
			return
		}
		writeJSON(w, http.StatusOK, b.products[idx])
	})
	r.Post("/products", func(w http.ResponseWriter, r *http.Request) {
		var p domain.Product
		_ = json.NewDecoder(r.Body).Decode(&p)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.nextID++
		p.ID = b.nextID
		b.products = append(b.products, p)
		writeJSON(w, http.StatusCreated, p)
	})
	r.Put("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		var p domain.Product
		_ = json.NewDecoder(r.Body).Decode(&p)
		b.mu.Lock()
		defer b.mu.Unlock()
		idx := b.productIndex(urlID(r, "id"))
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Producto no encontrado"})
			return
		}
		p.ID = b.products[idx].ID
		b.products[idx] = p
		writeJSON(w, http.StatusOK, p)
	})
	r.Delete("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id := urlID(r, "id")
		b.products = slices.DeleteFunc(b.products, func(p domain.Product) bool { return p.ID == id })
		writeJSON(w, http.StatusOK, map[string]string{"message": "Producto eliminado"})
	})

	r.Get("/cart/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		userID := urlID(r, "user_id")
		rows := []domain.CartRow{}
		for _, row := range b.cart {
			if row.UserID == userID {
				rows = append(rows, row)
			}
		}
		writeJSON(w, http.StatusOK, rows)
	})
	r.Post("/cart", func(w http.ResponseWriter, r *http.Request) {
		var req domain.CartRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		idx := b.productIndex(req.ProductID)
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Producto no encontrado"})
			return
		}
		for i := range b.cart {
			if b.cart[i].UserID == req.UserID && b.cart[i].ProductID == req.ProductID {
				b.cart[i].Quantity += req.Quantity
				writeJSON(w, http.StatusOK, map[string]string{"message": "Carrito actualizado"})
				return
			}
		}
		p := b.products[idx]
		b.nextID++
		b.cart = append(b.cart, domain.CartRow{
			ID:           b.nextID,
			UserID:       req.UserID,
			ProductID:    p.ID,
			Quantity:     req.Quantity,
			ProductName:  p.Name,
			ProductPrice: p.Price,
		})
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Producto agregado"})
	})
	r.Put("/cart/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req domain.CartUpdateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		id := urlID(r, "id")
		for i := range b.cart {
			if b.cart[i].ID == id {
				b.cart[i].Quantity = req.Quantity
				writeJSON(w, http.StatusOK, map[string]string{"message": "Cantidad actualizada"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item no encontrado"})
	})
	r.Delete("/cart/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id := urlID(r, "id")
		b.cart = slices.DeleteFunc(b.cart, func(row domain.CartRow) bool { return row.ID == id })
		writeJSON(w, http.StatusOK, map[string]string{"message": "Item eliminado"})
	})
	r.Delete("/cart/user/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		userID := urlID(r, "user_id")
		b.cart = slices.DeleteFunc(b.cart, func(row domain.CartRow) bool { return row.UserID == userID })
		writeJSON(w, http.StatusOK, map[string]string{"message": "Carrito vaciado"})
	})

	r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		var req domain.OrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.nextID++
		orderID := b.nextID
		var total domain.Money
		count := 0
		for _, row := range b.cart {
			if row.UserID != req.UserID {
				continue
			}
			sub := row.ProductPrice.Mul(row.Quantity)
			total = total.Add(sub)
			count += row.Quantity
			b.orderItems[orderID] = append(b.orderItems[orderID], domain.OrderItem{
				OrderID:     orderID,
				ProductID:   row.ProductID,
				ProductName: row.ProductName,
				Quantity:    row.Quantity,
				Price:       row.ProductPrice,
				Subtotal:    sub,
			})
			b.sales = append(b.sales, domain.Sale{
				UserID:    req.UserID,
				ProductID: row.ProductID,
				Quantity:  row.Quantity,
				Total:     sub,
				OrderID:   domain.Some(orderID),
			})
		}
		b.cart = slices.DeleteFunc(b.cart, func(row domain.CartRow) bool { return row.UserID == req.UserID })
		b.orders = append(b.orders, domain.Order{
			ID:         orderID,
			UserID:     req.UserID,
			Total:      total,
			Status:     domain.OrderStatusCompleted,
			ItemsCount: count,
			CreatedAt:  time.Now().Format(time.RFC3339),
		})
		writeJSON(w, http.StatusCreated, domain.OrderResponse{Message: "Orden creada", OrderID: orderID, Total: total})
	})
	r.Get("/orders/user/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		userID := urlID(r, "user_id")
		out := []domain.Order{}
		for _, o := range b.orders {
			if o.UserID == userID {
				out = append(out, o)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Get("/orders/{id}/items", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		items := b.orderItems[urlID(r, "id")]
		if items == nil {
			items = []domain.OrderItem{}
		}
		writeJSON(w, http.StatusOK, items)
	})

	r.Get("/sales", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		gate := b.salesGate
		b.mu.Unlock()
		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		sales := b.sales
		if sales == nil {
			sales = []domain.Sale{}
		}
		writeJSON(w, http.StatusOK, sales)
	})
	r.Get("/sales/user/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.UserSale{{
			SaleID:       1,
			ProductID:    2,
			Quantity:     3,
			Total:        domain.MoneyFromInt(13500),
			ProductName:  "Taza",
			ProductPrice: domain.MoneyFromInt(4500),
			SellerName:   "ana",
			ProductStock: 7,
		}})
	})
	return r
}

func (b *fakeBackend) productIndex(id int64) int {
	return slices.IndexFunc(b.products, func(p domain.Product) bool { return p.ID == id })
}

func (b *fakeBackend) setDown(down bool) {
	b.mu.Lock()
	b.down = down
	b.mu.Unlock()
}

func (b *fakeBackend) holdSales() chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.salesGate = make(chan struct{})
	return b.salesGate
}

func (b *fakeBackend) addCartRow(userID, productID int64, quantity int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.products[b.productIndex(productID)]
	b.nextID++
	b.cart = append(b.cart, domain.CartRow{
		ID:           b.nextID,
		UserID:       userID,
		ProductID:    p.ID,
		Quantity:     quantity,
		ProductName:  p.Name,
		ProductPrice: p.Price,
	})
}

func (b *fakeBackend) cartRows() []domain.CartRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.cart)
}

func urlID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// setupStorefront wires the real gateway and controller against a fake
// backend and returns the storefront router.
func setupStorefront(t *testing.T) (http.Handler, *controller.Controller, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.routes())
	t.Cleanup(srv.Close)

	gw, err := gateway.New(gateway.Config{
		UsersURL:        srv.URL,
		ProductsURL:     srv.URL,
		SalesURL:        srv.URL,
		Timeout:         5 * time.Second,
		BreakerFailures: 100,
	})
	require.NoError(t, err)

	store := session.NewStore(session.NewMemoryKV(), nil)
	ctrl := controller.New(gw, store, controller.WithLogger(logger.Discard()))
	t.Cleanup(ctrl.Close)

	router := NewRouter(ctrl, RouterConfig{HandlerTimeout: 5 * time.Second, Logger: logger.Discard()})
	return router, ctrl, backend
}
