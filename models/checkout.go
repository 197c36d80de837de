package models

import "time"

// Checkout result statuses.
const (
	CheckoutStatusSuccess   = "SUCCESS"
	CheckoutStatusEmptyCart = "EMPTY_CART"
	CheckoutStatusFailed    = "FAILED"
)

// CheckoutToken is the ephemeral record of a generated checkout, stored in
// Redis under checkout_token:{shopper_id}. It is deleted when the order is
// confirmed as paid.
type CheckoutToken struct {
	Token       string    `json:"token"`
	CheckoutURL string    `json:"checkout_url"`
	ShopperID   string    `json:"shopper_id"`
	ItemCount   int       `json:"item_count"`
	Subtotal    float64   `json:"subtotal"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

// CheckoutResult is returned by CheckoutService.GenerateCheckoutURL.
// RetryCount is the number of retries spent on URL-validation failures;
// non-validation errors abort without spending the retry budget.
type CheckoutResult struct {
	Status        string `json:"status"`
	CheckoutURL   string `json:"checkout_url,omitempty"`
	CheckoutToken string `json:"checkout_token,omitempty"`
	Message       string `json:"message"`
	RetryCount    int    `json:"retry_count"`
}
