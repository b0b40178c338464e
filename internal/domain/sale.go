package domain

import "fmt"

type Sale struct {
	ID        int64       `json:"id,omitempty"`
	UserID    int64       `json:"user_id"`
	ProductID int64       `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Total     Money       `json:"total"`
	OrderID   Opt[int64]  `json:"order_id,omitzero"`
	CreatedAt Opt[string] `json:"created_at,omitzero"`
}

type SaleRequest struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Total     Money `json:"total"`
}

type SaleResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Sale    Sale   `json:"sale"`
}

// UserSale is a seller-facing row from GET /sales/user/{user_id}.
type UserSale struct {
	SaleID       int64       `json:"sale_id"`
	ProductID    int64       `json:"product_id"`
	Quantity     int         `json:"quantity"`
	Total        Money       `json:"total"`
	CreatedAt    string      `json:"created_at"`
	ProductName  string      `json:"product_name"`
	ProductPrice Money       `json:"product_price"`
	ProductImage Opt[string] `json:"product_image,omitzero"`
	SellerName   string      `json:"seller_name"`
	ProductStock int         `json:"product_stock"`
}

// SoldProduct reshapes the sale into a product card. The description carries
// the sold quantity.
func (s UserSale) SoldProduct() Product {
	return Product{
		ID:          s.ProductID,
		Name:        s.ProductName,
		Description: Some(fmt.Sprintf("Vendido: %d unidades", s.Quantity)),
		Price:       s.ProductPrice,
		Stock:       Some(s.ProductStock),
		Category:    Some(""),
		ImageURL:    s.ProductImage,
		SellerName:  Some(s.SellerName),
	}
}
