package domain

import "github.com/shopspring/decimal"

// Product is a purchasable catalog item. IDs are assigned by the catalog
// store and never reused.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=2000"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required,max=100"`
	ImageURL    string          `json:"image_url,omitempty" validate:"omitempty,url"`
}

// IsNew reports whether the product has not been stored yet.
func (p *Product) IsNew() bool {
	return p.ID == 0
}
