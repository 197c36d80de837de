package models

import "time"

// CartItem is a single line item in a shopper's cart.
type CartItem struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Currency  string  `json:"currency"`
}

// Cart is the ephemeral cart state for a shopper, stored in Redis
// under cart:{shopper_id}. The subtotal is maintained by the cart
// operations that mutate it; this subsystem only reads and clears it.
type Cart struct {
	ShopperID string     `json:"shopper_id"`
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Currency  string     `json:"currency"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ItemCount returns the total quantity across all line items.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
