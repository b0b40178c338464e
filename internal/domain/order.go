package domain

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

type Order struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	Total      Money       `json:"total"`
	Status     OrderStatus `json:"status"`
	ItemsCount int         `json:"items_count"`
	CreatedAt  string      `json:"created_at"`
}

type OrderItem struct {
	ID              int64       `json:"id"`
	OrderID         int64       `json:"order_id"`
	ProductID       int64       `json:"product_id"`
	ProductName     string      `json:"product_name"`
	ProductImageURL Opt[string] `json:"product_image_url,omitzero"`
	Quantity        int         `json:"quantity"`
	Price           Money       `json:"price"`
	Subtotal        Money       `json:"subtotal"`
}

type OrderRequest struct {
	UserID int64 `json:"user_id"`
}

type OrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
	Total   Money  `json:"total"`
}
