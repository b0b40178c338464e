package controller

import (
	"context"
	"slices"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/sirupsen/logrus"
)

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Callbacks report the outcome of a form operation. Either may be nil.
type Callbacks struct {
	OnSuccess func()
	OnError   func(msg string)
}

func (cb Callbacks) success() {
	if cb.OnSuccess != nil {
		cb.OnSuccess()
	}
}

func (cb Callbacks) fail(msg string) {
	if cb.OnError != nil {
		cb.OnError(msg)
	}
}

type options struct {
	log            logrus.FieldLogger
	preloadCatalog bool
}

type Option func(*options)

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithCatalogPreload starts a catalog load as part of New.
func WithCatalogPreload() Option {
	return func(o *options) { o.preloadCatalog = true }
}

// Controller owns the storefront view state: catalog, cart, session,
// orders and sales. Every mutation goes through the gateway and is applied
// under one mutex. Operations that touch the network return a *Task;
// results of tasks still running when Close is called are dropped.
type Controller struct {
	gw    Gateway
	store SessionStore
	tasks *TaskGroup
	log   logrus.FieldLogger

	// persistMu orders store writes against Logout's clears.
	persistMu sync.Mutex

	mu           sync.RWMutex
	state        State
	user         *domain.User
	products     []domain.Product
	cart         []domain.CartItem
	orders       []domain.Order
	orderItems   map[int64][]domain.OrderItem
	sales        []domain.Sale
	soldProducts []domain.Product
	lastOrder    *domain.OrderResponse
	cartReload   *Task
	loading      int
	errMsg       string
}

// New builds the controller and restores a persisted session. When the
// store holds a signed-in user, the mirrored cart is shown right away and
// a reload from the server is started.
func New(gw Gateway, store SessionStore, opts ...Option) *Controller {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Discard()
	}
	log := o.log.WithField("component", "controller")

	c := &Controller{
		gw:         gw,
		store:      store,
		tasks:      NewTaskGroup(log),
		log:        log,
		orderItems: make(map[int64][]domain.OrderItem),
	}

	if o.preloadCatalog {
		c.LoadProducts()
	}
	c.restoreSession(c.tasks.Context())
	return c
}

// Close cancels in-flight operations and waits for them. The controller
// rejects new operations afterwards.
func (c *Controller) Close() {
	c.tasks.Close()
}

// Wait blocks until no operation is in flight or ctx ends.
func (c *Controller) Wait(ctx context.Context) error {
	return c.tasks.Wait(ctx)
}

// apply runs fn under the state lock unless ctx was cancelled, which only
// happens when the controller closes.
func (c *Controller) apply(ctx context.Context, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// goLoading runs fn as a task with the loading flag raised until it ends.
// The flag is dropped again when the group has been closed.
func (c *Controller) goLoading(name string, resetError bool, fn func(ctx context.Context) error) *Task {
	c.startLoading(resetError)
	t, ok := c.tasks.start(name, func(ctx context.Context) error {
		defer c.stopLoading()
		return fn(ctx)
	})
	if !ok {
		c.stopLoading()
	}
	return t
}

// startLoading marks a loading operation and optionally clears the shared
// error message. stopLoading must follow exactly once.
func (c *Controller) startLoading(resetError bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading++
	if resetError {
		c.errMsg = ""
	}
}

func (c *Controller) stopLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading > 0 {
		c.loading--
	}
}

// fail records a gateway failure in the shared message and reports it to
// cb. Nothing is recorded once the controller is closed.
func (c *Controller) fail(ctx context.Context, op string, cb Callbacks, err error) error {
	msg := gateway.Message(err)
	logger.WithContext(ctx, c.log).WithError(err).WithField("op", op).Warn("operation failed")
	if !c.apply(ctx, func() { c.errMsg = msg }) {
		return ErrClosed
	}
	cb.fail(msg)
	return err
}

// persist runs write against the store unless userID has signed out in the
// meantime. Logout holds persistMu too, so a write never lands after the
// clear it races with.
func (c *Controller) persist(ctx context.Context, userID int64, what string, write func(ctx context.Context) error) {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.RLock()
	current := c.user != nil && c.user.ID == userID
	c.mu.RUnlock()
	if !current {
		return
	}
	if err := write(ctx); err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warnf("%s failed", what)
	}
}

// currentUserID returns 0 when nobody is signed in.
func (c *Controller) currentUserID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return 0
	}
	return c.user.ID
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) IsLoggedIn() bool {
	return c.State() == LoggedIn
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (c *Controller) CurrentUser() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Controller) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

func (c *Controller) Cart() []domain.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.cart)
}

func (c *Controller) Orders() []domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.orders)
}

func (c *Controller) OrderItems(orderID int64) []domain.OrderItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.orderItems[orderID])
}

func (c *Controller) Sales() []domain.Sale {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.sales)
}

// SoldProducts are the signed-in user's sales shaped as product cards.
func (c *Controller) SoldProducts() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.soldProducts)
}

// LastOrder is the result of the most recent successful checkout.
func (c *Controller) LastOrder() (domain.OrderResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastOrder == nil {
		return domain.OrderResponse{}, false
	}
	return *c.lastOrder, true
}

func (c *Controller) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading > 0
}

// ErrorMessage is the shared diagnostic of the last failed operation.
func (c *Controller) ErrorMessage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// CartTotal is the sum of price times quantity over the cart.
func (c *Controller) CartTotal() domain.Money {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CartTotal(c.cart)
}

// CartItemsCount is the sum of quantities over the cart.
func (c *Controller) CartItemsCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CartCount(c.cart)
}

// Snapshot is a consistent copy of the whole view state.
type Snapshot struct {
	State        State                 `json:"state"`
	User         *domain.User          `json:"user"`
	Products     []domain.Product      `json:"products"`
	Cart         []domain.CartItem     `json:"cart"`
	CartTotal    domain.Money          `json:"cart_total"`
	CartCount    int                   `json:"cart_count"`
	Orders       []domain.Order        `json:"orders"`
	Sales        []domain.Sale         `json:"sales"`
	SoldProducts []domain.Product      `json:"sold_products"`
	LastOrder    *domain.OrderResponse `json:"last_order,omitempty"`
	Loading      bool                  `json:"loading"`
	Error        string                `json:"error,omitempty"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		State:        c.state,
		Products:     nonNil(c.products),
		Cart:         nonNil(c.cart),
		CartTotal:    domain.CartTotal(c.cart),
		CartCount:    domain.CartCount(c.cart),
		Orders:       nonNil(c.orders),
		Sales:        nonNil(c.sales),
		SoldProducts: nonNil(c.soldProducts),
		Loading:      c.loading > 0,
		Error:        c.errMsg,
	}
	if c.user != nil {
		u := *c.user
		s.User = &u
	}
	if c.lastOrder != nil {
		o := *c.lastOrder
		s.LastOrder = &o
	}
	return s
}

// nonNil copies s so that an empty list encodes as [] instead of null.
func nonNil[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
