package models

import "time"

// Lifecycle events published best-effort to Kafka/SNS. Consumers downstream
// (analytics, support tooling) must tolerate missing events.

type CheckoutCreatedEvent struct {
	EventType string    `json:"event_type"`
	ShopperID string    `json:"shopper_id"`
	Token     string    `json:"token"`
	ItemCount int       `json:"item_count"`
	Subtotal  float64   `json:"subtotal"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderConfirmedEvent struct {
	EventType   string    `json:"event_type"`
	ShopperID   string    `json:"shopper_id"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Timestamp   time.Time `json:"timestamp"`
}

type ShippingNotifiedEvent struct {
	EventType      string    `json:"event_type"`
	ShopperID      string    `json:"shopper_id"`
	OrderNumber    string    `json:"order_number"`
	TrackingNumber string    `json:"tracking_number"`
	Timestamp      time.Time `json:"timestamp"`
}
