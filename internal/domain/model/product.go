package model

import "github.com/shopspring/decimal"

// Product is a catalog entry that can be placed in a cart.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
}
