package controller

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// AddToCart adds one unit of product to the server cart and then reloads
// the cart. It fails without a network call when nobody is signed in or
// when the signed-in user is the product's seller.
func (c *Controller) AddToCart(product domain.Product) *Task {
	c.mu.Lock()
	if c.user == nil {
		c.errMsg = MsgLoginRequired
		c.mu.Unlock()
		return doneTask("add_to_cart", ErrNotLoggedIn)
	}
	if product.SoldBy(c.user.Username) {
		c.errMsg = MsgSelfPurchase
		c.mu.Unlock()
		return doneTask("add_to_cart", ErrSelfPurchase)
	}
	userID := c.user.ID
	c.mu.Unlock()

	if userID == 0 || product.ID == 0 {
		return doneTask("add_to_cart", ErrMissingID)
	}

	return c.tasks.Go("add_to_cart", func(ctx context.Context) error {
		req := domain.CartRequest{UserID: userID, ProductID: product.ID, Quantity: 1}
		if _, err := c.gw.AddCartItem(ctx, req); err != nil {
			return c.fail(ctx, "add_to_cart", Callbacks{}, err)
		}
		c.syncCart(ctx, c.currentUserID())
		return nil
	})
}

// UpdateQuantity sets the quantity of a cart row. A quantity of zero or
// less removes the row instead.
func (c *Controller) UpdateQuantity(cartItemID int64, quantity int) *Task {
	if quantity <= 0 {
		return c.RemoveFromCart(cartItemID)
	}
	return c.tasks.Go("update_quantity", func(ctx context.Context) error {
		if _, err := c.gw.UpdateCartItem(ctx, cartItemID, quantity); err != nil {
			return c.fail(ctx, "update_quantity", Callbacks{}, err)
		}
		c.syncCart(ctx, c.currentUserID())
		return nil
	})
}

func (c *Controller) RemoveFromCart(cartItemID int64) *Task {
	return c.tasks.Go("remove_from_cart", func(ctx context.Context) error {
		if _, err := c.gw.DeleteCartItem(ctx, cartItemID); err != nil {
			return c.fail(ctx, "remove_from_cart", Callbacks{}, err)
		}
		c.syncCart(ctx, c.currentUserID())
		return nil
	})
}

// reloadCart starts a cart reload for whoever is signed in now and records
// it as the latest one.
func (c *Controller) reloadCart() *Task {
	userID := c.currentUserID()
	if userID == 0 {
		return doneTask("reload_cart", nil)
	}
	t := c.tasks.Go("reload_cart", func(ctx context.Context) error {
		c.syncCart(ctx, userID)
		return nil
	})
	c.mu.Lock()
	c.cartReload = t
	c.mu.Unlock()
	return t
}

// CartReload returns the reload started by the latest login or session
// restore. It is already done when none was started.
func (c *Controller) CartReload() *Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cartReload == nil {
		return doneTask("reload_cart", nil)
	}
	return c.cartReload
}

// syncCart replaces the cart with the server's rows for userID and mirrors
// it to the store. Failures leave the cart as it was and are only logged.
// Rows are dropped when userID is no longer signed in.
func (c *Controller) syncCart(ctx context.Context, userID int64) {
	if userID == 0 {
		return
	}
	rows, err := c.gw.GetCart(ctx, userID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", userID).Debug("cart reload failed")
		return
	}

	items := make([]domain.CartItem, len(rows))
	for i, row := range rows {
		items[i] = row.CartItem()
	}

	current := false
	applied := c.apply(ctx, func() {
		if c.user != nil && c.user.ID == userID {
			c.cart = items
			current = true
		}
	})
	if !applied || !current {
		return
	}
	c.persist(ctx, userID, "mirror cart", func(ctx context.Context) error {
		return c.store.SaveCart(ctx, items)
	})
}
