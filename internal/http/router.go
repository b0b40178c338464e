package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	HandlerTimeout time.Duration
	Logger         logrus.FieldLogger
}

// NewRouter wires every storefront handler under /api/v1.
func NewRouter(sf Storefront, cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	sessionHandler := NewSessionHandler(sf, cfg.HandlerTimeout)
	productHandler := NewProductHandler(sf, cfg.HandlerTimeout)
	cartHandler := NewCartHandler(sf, cfg.HandlerTimeout)
	checkoutHandler := NewCheckoutHandler(sf, cfg.HandlerTimeout)
	ordersHandler := NewOrdersHandler(sf, cfg.HandlerTimeout)
	salesHandler := NewSalesHandler(sf, cfg.HandlerTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(log))
	r.Use(middleware.Timeout(cfg.HandlerTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", sessionHandler.State)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Post("/register", sessionHandler.Register)
			r.Post("/login", sessionHandler.Login)
			r.Post("/logout", sessionHandler.Logout)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{cart_item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{cart_item_id}", cartHandler.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Checkout)
			r.Get("/last", checkoutHandler.LastOrder)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_id}/items", ordersHandler.ListItems)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", salesHandler.List)
			r.Get("/mine", salesHandler.Mine)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
