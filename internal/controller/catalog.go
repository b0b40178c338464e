package controller

import (
	"context"
	"slices"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// LoadProducts replaces the catalog with the server's list. On failure the
// previous catalog stays and the error message is set.
func (c *Controller) LoadProducts() *Task {
	return c.goLoading("load_products", true, func(ctx context.Context) error {
		products, err := c.gw.ListProducts(ctx)
		if err != nil {
			return c.fail(ctx, "load_products", Callbacks{}, err)
		}
		if !c.apply(ctx, func() { c.products = products }) {
			return ErrClosed
		}
		return nil
	})
}

// Product looks id up in the catalog and falls back to the products
// service. The catalog is not modified.
func (c *Controller) Product(ctx context.Context, id int64) (domain.Product, error) {
	c.mu.RLock()
	idx := slices.IndexFunc(c.products, func(p domain.Product) bool { return p.ID == id })
	if idx >= 0 {
		p := c.products[idx]
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	return c.gw.GetProduct(ctx, id)
}

// CreateProduct lists a new product, then reloads the catalog. If that
// reload fails the created product is appended locally.
func (c *Controller) CreateProduct(p domain.Product, cb Callbacks) *Task {
	return c.goLoading("create_product", true, func(ctx context.Context) error {
		created, err := c.gw.CreateProduct(ctx, p)
		if err != nil {
			return c.fail(ctx, "create_product", cb, err)
		}

		products, err := c.gw.ListProducts(ctx)
		applied := c.apply(ctx, func() {
			if err != nil {
				c.products = append(slices.Clone(c.products), created)
				return
			}
			c.products = products
		})
		if !applied {
			return ErrClosed
		}
		if err != nil {
			c.log.WithError(err).Warn("catalog reload after create failed")
		}
		cb.success()
		return nil
	})
}

// UpdateProduct replaces the catalog entry with the server's version.
func (c *Controller) UpdateProduct(id int64, p domain.Product, cb Callbacks) *Task {
	return c.goLoading("update_product", true, func(ctx context.Context) error {
		updated, err := c.gw.UpdateProduct(ctx, id, p)
		if err != nil {
			return c.fail(ctx, "update_product", cb, err)
		}
		applied := c.apply(ctx, func() {
			next := slices.Clone(c.products)
			for i := range next {
				if next[i].ID == id {
					next[i] = updated
				}
			}
			c.products = next
		})
		if !applied {
			return ErrClosed
		}
		cb.success()
		return nil
	})
}

// DeleteProduct removes the product on the server and from the catalog.
func (c *Controller) DeleteProduct(id int64, cb Callbacks) *Task {
	return c.goLoading("delete_product", true, func(ctx context.Context) error {
		if _, err := c.gw.DeleteProduct(ctx, id); err != nil {
			return c.fail(ctx, "delete_product", cb, err)
		}
		applied := c.apply(ctx, func() {
			c.products = slices.DeleteFunc(slices.Clone(c.products), func(p domain.Product) bool {
				return p.ID == id
			})
		})
		if !applied {
			return ErrClosed
		}
		cb.success()
		return nil
	})
}
