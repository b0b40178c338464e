package controller

import "context"

// ProcessPurchase checks out the signed-in user's cart. The sales service
// empties the server cart itself, so only the local cart and its mirror
// are cleared here.
func (c *Controller) ProcessPurchase(cb Callbacks) *Task {
	c.mu.RLock()
	var userID int64
	if c.user != nil {
		userID = c.user.ID
	}
	empty := len(c.cart) == 0
	c.mu.RUnlock()

	if userID == 0 || empty {
		cb.fail(MsgCheckoutPrecondition)
		return doneTask("process_purchase", ErrCheckoutPrecondition)
	}

	return c.goLoading("process_purchase", true, func(ctx context.Context) error {
		resp, err := c.gw.CreateOrder(ctx, userID)
		if err != nil {
			return c.fail(ctx, "process_purchase", cb, err)
		}
		applied := c.apply(ctx, func() {
			c.cart = nil
			c.lastOrder = &resp
		})
		if !applied {
			return ErrClosed
		}
		c.persist(ctx, userID, "clear cart mirror", c.store.ClearCart)
		c.log.WithField("order_id", resp.OrderID).Info("order created")
		cb.success()
		return nil
	})
}

// LoadUserOrders replaces the signed-in user's order history. It does
// nothing when nobody is signed in.
func (c *Controller) LoadUserOrders() *Task {
	userID := c.currentUserID()
	if userID == 0 {
		return doneTask("load_user_orders", ErrNotLoggedIn)
	}

	return c.goLoading("load_user_orders", true, func(ctx context.Context) error {
		orders, err := c.gw.ListUserOrders(ctx, userID)
		if err != nil {
			return c.fail(ctx, "load_user_orders", Callbacks{}, err)
		}
		if !c.apply(ctx, func() { c.orders = orders }) {
			return ErrClosed
		}
		return nil
	})
}

// LoadOrderItems fetches the lines of one order.
func (c *Controller) LoadOrderItems(orderID int64) *Task {
	return c.goLoading("load_order_items", true, func(ctx context.Context) error {
		items, err := c.gw.ListOrderItems(ctx, orderID)
		if err != nil {
			return c.fail(ctx, "load_order_items", Callbacks{}, err)
		}
		if !c.apply(ctx, func() { c.orderItems[orderID] = items }) {
			return ErrClosed
		}
		return nil
	})
}
