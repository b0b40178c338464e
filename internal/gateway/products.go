package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

var (
	opListProducts  = op{"list_products", "Error al cargar productos"}
	opGetProduct    = op{"get_product", "Producto no encontrado"}
	opCreateProduct = op{"create_product", "Error al crear producto"}
	opUpdateProduct = op{"update_product", "Error al actualizar producto"}
	opDeleteProduct = op{"delete_product", "Error al eliminar producto"}
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return call[[]domain.Product](ctx, c, c.products, opListProducts, http.MethodGet, "/products", nil)
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return call[domain.Product](ctx, c, c.products, opGetProduct, http.MethodGet, productPath(id), nil)
}

func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	return call[domain.Product](ctx, c, c.products, opCreateProduct, http.MethodPost, "/products", p)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, p domain.Product) (domain.Product, error) {
	return call[domain.Product](ctx, c, c.products, opUpdateProduct, http.MethodPut, productPath(id), p)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) (Status, error) {
	return call[Status](ctx, c, c.products, opDeleteProduct, http.MethodDelete, productPath(id), nil)
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}
