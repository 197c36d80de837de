package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fulfillment and financial status values used by the commerce platform.
const (
	FinancialStatusPaid        = "paid"
	FulfillmentStatusFulfilled = "fulfilled"
)

// Order is the durable order row reconciled from both the webhook and the
// polling path. PlatformOrderID is the natural key; PlatformUpdatedAt is the
// reconciliation watermark and the row is only updated when it advances.
type Order struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlatformOrderID   int64     `gorm:"uniqueIndex;not null" json:"platform_order_id"`
	OrderNumber       string    `gorm:"index" json:"order_number"`
	MerchantID        string    `gorm:"index;not null" json:"merchant_id"`
	ShopperID         string    `gorm:"index" json:"shopper_id"`
	FinancialStatus   string    `json:"financial_status"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	TrackingNumber    string    `json:"tracking_number"`
	TrackingURL       string    `json:"tracking_url"`
	PlatformUpdatedAt time.Time `json:"platform_updated_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// NoteAttribute is the {name, value} custom-attribute shape on webhook
// payloads.
type NoteAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CustomAttribute is the alternative {key, value} shape some platform
// versions send instead of note_attributes.
type CustomAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fulfillment is a single fulfillment event attached to an order payload.
type Fulfillment struct {
	ID             int64  `json:"id"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
	Status         string `json:"status"`
}

// OrderPayload is the canonical order object, as delivered by the webhook
// and returned by the admin order-listing API.
type OrderPayload struct {
	ID                int64             `json:"id"`
	OrderNumber       string            `json:"order_number"`
	FinancialStatus   string            `json:"financial_status"`
	FulfillmentStatus string            `json:"fulfillment_status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	NoteAttributes    []NoteAttribute   `json:"note_attributes"`
	Attributes        []CustomAttribute `json:"attributes"`
	Fulfillments      []Fulfillment     `json:"fulfillments"`
}

// Attribute names the platform uses to carry the shopper id.
var shopperIDAttributeNames = []string{"psid", "shopify_sender_id"}

// ShopperID scans both known custom-attribute shapes for the shopper id.
// The second return is false when no attribute carries one, in which case
// the order cannot be routed to a shopper.
func (p *OrderPayload) ShopperID() (string, bool) {
	for _, name := range shopperIDAttributeNames {
		for _, attr := range p.NoteAttributes {
			if attr.Name == name && attr.Value != "" {
				return attr.Value, true
			}
		}
		for _, attr := range p.Attributes {
			if attr.Key == name && attr.Value != "" {
				return attr.Value, true
			}
		}
	}
	return "", false
}

// PrimaryFulfillment returns the first fulfillment on the payload, if any.
func (p *OrderPayload) PrimaryFulfillment() (Fulfillment, bool) {
	if len(p.Fulfillments) == 0 {
		return Fulfillment{}, false
	}
	return p.Fulfillments[0], true
}
