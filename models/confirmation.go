package models

import "time"

// Confirmation result statuses.
const (
	ConfirmationStatusConfirmed = "CONFIRMED"
	ConfirmationStatusSkipped   = "SKIPPED"
	ConfirmationStatusFailed    = "FAILED"
)

// ConfirmationResult is the outcome of processing one order webhook
// delivery. CONFIRMED results are cached in Redis under
// order_confirmation:{shopper_id}:{order_id} and replayed verbatim on
// webhook redelivery.
type ConfirmationResult struct {
	Status      string    `json:"status"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ShopperID   string    `json:"shopper_id"`
	Message     string    `json:"message"`
	CartCleared bool      `json:"cart_cleared"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// OrderReference is a shopper-to-order pointer kept independently of the
// confirmation cache, for support and audit lookups.
type OrderReference struct {
	ShopperID   string    `json:"shopper_id"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CreatedAt   time.Time `json:"created_at"`
}
