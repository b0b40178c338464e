package domain

// CartItem is the local view of one cart row. CartItemID is absent until the
// item has been synced with the sales service.
type CartItem struct {
	CartItemID Opt[int64] `json:"cart_item_id,omitzero"`
	Product    Product    `json:"product"`
	Quantity   int        `json:"quantity"`
}

func (i CartItem) Subtotal() Money {
	return i.Product.Price.Mul(i.Quantity)
}

// CartRow is the server-side projection returned by GET /cart/{user_id}.
type CartRow struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	ProductID       int64       `json:"product_id"`
	Quantity        int         `json:"quantity"`
	ProductName     string      `json:"product_name"`
	ProductPrice    Money       `json:"product_price"`
	ProductImageURL Opt[string] `json:"product_image_url,omitzero"`
}

// CartItem rebuilds a cart item from the row. The projection carries no
// description, stock or category, so those fall back to "" and 0.
func (r CartRow) CartItem() CartItem {
	return CartItem{
		CartItemID: Some(r.ID),
		Product: Product{
			ID:          r.ProductID,
			Name:        r.ProductName,
			Description: Some(""),
			Price:       r.ProductPrice,
			Stock:       Some(0),
			Category:    Some(""),
			ImageURL:    Some(r.ProductImageURL.Or("")),
		},
		Quantity: r.Quantity,
	}
}

type CartRequest struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

// CartTotal sums price times quantity over items.
func CartTotal(items []CartItem) Money {
	var total Money
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// CartCount sums quantities over items.
func CartCount(items []CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
