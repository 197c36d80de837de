package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shipping notification statuses, in evaluation order.
const (
	NotificationStatusSkippedNoConsent   = "SKIPPED_NO_CONSENT"
	NotificationStatusSkippedDuplicate   = "SKIPPED_DUPLICATE"
	NotificationStatusSkippedRateLimited = "SKIPPED_RATE_LIMITED"
	NotificationStatusSuccess            = "SUCCESS"
	NotificationStatusFailed             = "FAILED"
)

// Notification error codes surfaced on FAILED results.
const (
	NotificationErrorSendFailed  = "SEND_FAILED"
	NotificationErrorStateFailed = "STATE_UNAVAILABLE"
)

// NotificationResult is the contained outcome of a shipping notification
// attempt. It never carries an error value: send failures are absorbed
// here so they cannot abort the webhook or polling cycle that triggered
// the notification.
type NotificationResult struct {
	Status      string `json:"status"`
	ShopperID   string `json:"shopper_id"`
	OrderNumber string `json:"order_number"`
	ErrorCode   string `json:"error_code,omitempty"`
}

// ConsentRecord is the durable per-conversation flag granting shipping
// notifications. This subsystem only reads it.
type ConsentRecord struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShopperID            string    `gorm:"uniqueIndex;not null" json:"shopper_id"`
	NotificationsGranted bool      `json:"notifications_granted"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (c *ConsentRecord) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NotificationLog records one delivery attempt for operational audit.
type NotificationLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShopperID   string    `gorm:"index" json:"shopper_id"`
	OrderNumber string    `json:"order_number"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (n *NotificationLog) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
