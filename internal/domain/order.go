package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingDetails is the address block of the checkout form.
type ShippingDetails struct {
	Name     string `json:"name" form:"name" validate:"required,max=200"`
	Line1    string `json:"line1" form:"line1" validate:"required,max=200"`
	Line2    string `json:"line2,omitempty" form:"line2" validate:"max=200"`
	Line3    string `json:"line3,omitempty" form:"line3" validate:"max=200"`
	City     string `json:"city" form:"city" validate:"required,max=100"`
	State    string `json:"state" form:"state" validate:"required,max=100"`
	Zip      string `json:"zip,omitempty" form:"zip" validate:"max=20"`
	Country  string `json:"country" form:"country" validate:"required,max=100"`
	GiftWrap bool   `json:"giftwrap" form:"giftwrap"`
}

// OrderLine is an immutable snapshot of one cart line at checkout time.
type OrderLine struct {
	ID          int64           `json:"id,omitempty"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Total returns price × quantity.
func (l OrderLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is created only by a successful checkout.
type Order struct {
	ID int64 `json:"id"`
	ShippingDetails
	Lines     []OrderLine `json:"lines"`
	Shipped   bool        `json:"shipped"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewOrder snapshots lines so later cart changes cannot reach the order.
func NewOrder(lines []CartLine, shipping ShippingDetails) *Order {
	snapshot := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		snapshot = append(snapshot, OrderLine{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Price:       l.Product.Price,
			Quantity:    l.Quantity,
		})
	}
	return &Order{
		ShippingDetails: shipping,
		Lines:           snapshot,
		Shipped:         false,
		CreatedAt:       time.Now().UTC(),
	}
}

// Total sums the line totals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Total())
	}
	return total
}
