package controller

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

func (c *Controller) restoreSession(ctx context.Context) {
	if !c.store.IsLoggedIn(ctx) {
		return
	}
	user := c.store.GetUser(ctx)
	if user == nil {
		return
	}

	c.mu.Lock()
	c.state = LoggedIn
	c.user = user
	c.cart = c.store.GetCart(ctx)
	c.mu.Unlock()

	c.log.WithField("user_id", user.ID).Info("session restored")
	c.reloadCart()
}

// Register creates an account. It does not sign the user in.
func (c *Controller) Register(req domain.RegisterRequest, cb Callbacks) *Task {
	return c.goLoading("register", true, func(ctx context.Context) error {
		if _, err := c.gw.Register(ctx, req); err != nil {
			return c.fail(ctx, "register", cb, err)
		}
		if ctx.Err() != nil {
			return ErrClosed
		}
		cb.success()
		return nil
	})
}

// Login signs the user in, persists the session and starts a cart reload
// from the server.
func (c *Controller) Login(req domain.LoginRequest, cb Callbacks) *Task {
	return c.goLoading("login", true, func(ctx context.Context) error {
		resp, err := c.gw.Login(ctx, req)
		if err != nil {
			return c.fail(ctx, "login", cb, err)
		}

		user := resp.User
		if user.ID == 0 {
			user.ID = resp.ID
		}
		user.Password = domain.None[string]()

		applied := c.apply(ctx, func() {
			c.state = LoggedIn
			c.user = &user
		})
		if !applied {
			return ErrClosed
		}
		c.persist(ctx, user.ID, "persist session", func(ctx context.Context) error {
			return c.store.SaveUser(ctx, user)
		})

		c.reloadCart()
		cb.success()
		return nil
	})
}

// Logout clears the session in memory and in the store right away, then
// asks the server to clear the user's cart in the background. It never
// fails; the background result is only logged.
func (c *Controller) Logout() *Task {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	var userID int64
	if c.user != nil {
		userID = c.user.ID
	}
	c.state = LoggedOut
	c.user = nil
	c.cart = nil
	c.orders = nil
	c.orderItems = make(map[int64][]domain.OrderItem)
	c.soldProducts = nil
	c.lastOrder = nil
	c.cartReload = nil
	c.mu.Unlock()

	// The clears must land even after Close.
	ctx := context.WithoutCancel(c.tasks.Context())
	if err := c.store.ClearSession(ctx); err != nil {
		c.log.WithError(err).Warn("clear persisted session failed")
	}
	if err := c.store.ClearCart(ctx); err != nil {
		c.log.WithError(err).Warn("clear persisted cart failed")
	}

	if userID == 0 {
		return doneTask("clear_server_cart", nil)
	}
	return c.tasks.Go("clear_server_cart", func(ctx context.Context) error {
		if _, err := c.gw.ClearCart(ctx, userID); err != nil {
			c.log.WithError(err).WithField("user_id", userID).Debug("server cart clear failed")
		}
		return nil
	})
}
