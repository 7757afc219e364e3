package model

import "github.com/shopspring/decimal"

// LineItem is a product and quantity held by a cart. A zero quantity is
// never stored.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PricingPolicy configures the delivery fee rule.
type PricingPolicy struct {
	FreeDeliveryAbove decimal.Decimal
	DeliveryFee       decimal.Decimal
}

// DefaultPricingPolicy charges 5.00 unless the subtotal exceeds 50.00.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		FreeDeliveryAbove: decimal.NewFromInt(50),
		DeliveryFee:       decimal.NewFromInt(5),
	}
}

// Cart holds line items unique by product id. Operations never fail; bad
// quantities are clamped.
type Cart struct {
	Items []LineItem `json:"items"`
}

// AddItem increments the quantity of an existing line or appends a new one.
// Non-positive quantities count as one.
func (c *Cart) AddItem(p Product, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	if idx := c.indexOf(p.ID); idx >= 0 {
		c.Items[idx].Quantity += quantity
		return
	}
	c.Items = append(c.Items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
	})
}

// UpdateQuantity replaces the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if idx := c.indexOf(productID); idx >= 0 {
		c.Items[idx].Quantity = quantity
	}
}

// RemoveItem drops the line for productID if present.
func (c *Cart) RemoveItem(productID string) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalUnits sums quantities across all lines.
func (c Cart) TotalUnits() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums the line totals.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// DeliveryFee is free when the subtotal is strictly above the threshold.
func (c Cart) DeliveryFee(policy PricingPolicy) decimal.Decimal {
	if c.Subtotal().GreaterThan(policy.FreeDeliveryAbove) {
		return decimal.Zero
	}
	return policy.DeliveryFee
}

// Total is subtotal plus delivery fee.
func (c Cart) Total(policy PricingPolicy) decimal.Decimal {
	return c.Subtotal().Add(c.DeliveryFee(policy))
}

// Snapshot returns a copy of the lines that is not affected by later cart
// mutations.
func (c Cart) Snapshot() []LineItem {
	if len(c.Items) == 0 {
		return nil
	}
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c Cart) indexOf(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// CartSession is the per-company checkout draft persisted between requests.
type CartSession struct {
	Cart    Cart    `json:"cart"`
	Address Address `json:"address"`
	Notes   string  `json:"notes"`

	// AutoFilled holds the address fields the last lookup filled in.
	AutoFilled Address `json:"autoFilled"`
}
