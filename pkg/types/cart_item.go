package types

import "github.com/shopspring/decimal"

// CartItem pairs a product snapshot with its quantity. Quantity is always
// positive; an item that would drop to zero is removed instead of stored.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price multiplied by quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
