package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartLine is N units of one product within a cart.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Total returns price × quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines with at most one line per product ID.
// Lines keep the order in which their products were first added.
//
// Cart knows nothing about where it is stored; see service.SessionCart.
type Cart struct {
	lines []CartLine
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem increments the line for product.ID by quantity, or appends a new
// line when the product is not in the cart yet. Quantity is not validated here.
func (c *Cart) AddItem(product Product, quantity int) {
	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		return
	}
	c.lines = append(c.lines, CartLine{Product: product, Quantity: quantity})
}

// RemoveLine drops the line for product.ID. Removing an absent product is a no-op.
func (c *Cart) RemoveLine(product Product) {
	i := c.indexOf(product.ID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// ComputeTotalValue sums every line total exactly.
func (c *Cart) ComputeTotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Clear removes all lines.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

type cartJSON struct {
	Lines []CartLine `json:"lines"`
}

// MarshalJSON encodes the cart as {"lines":[...]}; this is the stored session format.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartJSON{Lines: c.Lines()})
}

// UnmarshalJSON restores a cart produced by MarshalJSON.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var v cartJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.lines = v.Lines
	return nil
}
