package controller

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

func (c *Controller) LoadSales() *Task {
	return c.goLoading("load_sales", true, func(ctx context.Context) error {
		sales, err := c.gw.ListSales(ctx)
		if err != nil {
			return c.fail(ctx, "load_sales", Callbacks{}, err)
		}
		if !c.apply(ctx, func() { c.sales = sales }) {
			return ErrClosed
		}
		return nil
	})
}

// LoadUserSoldProducts loads what the signed-in user has sold, shaped as
// product cards whose description carries the sold quantity. A failure
// empties the list and leaves the error message alone.
func (c *Controller) LoadUserSoldProducts() *Task {
	userID := c.currentUserID()
	if userID == 0 {
		return doneTask("load_user_sold_products", ErrNotLoggedIn)
	}

	return c.goLoading("load_user_sold_products", false, func(ctx context.Context) error {
		sales, err := c.gw.ListUserSales(ctx, userID)
		if err != nil {
			c.log.WithError(err).WithField("user_id", userID).Warn("load sold products failed")
			if !c.apply(ctx, func() { c.soldProducts = []domain.Product{} }) {
				return ErrClosed
			}
			return err
		}

		products := make([]domain.Product, len(sales))
		for i, s := range sales {
			products[i] = s.SoldProduct()
		}
		if !c.apply(ctx, func() { c.soldProducts = products }) {
			return ErrClosed
		}
		return nil
	})
}
