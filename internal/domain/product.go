package domain

// Product is a catalog entry. ID is zero until the products service assigns one.
type Product struct {
	ID          int64       `json:"id,omitempty"`
	Name        string      `json:"name"`
	Description Opt[string] `json:"description,omitzero"`
	Price       Money       `json:"price"`
	Stock       Opt[int]    `json:"stock,omitzero"`
	Category    Opt[string] `json:"category,omitzero"`
	ImageURL    Opt[string] `json:"image_url,omitzero"`
	SellerName  Opt[string] `json:"seller_name,omitzero"`
}

// Seller returns the owning username, or "" when the product has none.
func (p Product) Seller() string {
	return p.SellerName.Or("")
}

// SoldBy reports whether username listed this product. Products without a
// seller are never owned by anyone.
func (p Product) SoldBy(username string) bool {
	seller := p.Seller()
	return seller != "" && seller == username
}

func (p Product) Image() ImageKind {
	return ClassifyImage(p.ImageURL.Or(""))
}
