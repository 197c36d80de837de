package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Polling result statuses.
const (
	PollingStatusSuccess     = "SUCCESS"
	PollingStatusErrorAPI    = "ERROR_API"
	PollingStatusSkippedLock = "SKIPPED_LOCK_EXISTS"
)

// PollingResult summarizes one reconciliation cycle for a merchant.
type PollingResult struct {
	Status            string `json:"status"`
	MerchantID        string `json:"merchant_id"`
	OrdersPolled      int    `json:"orders_polled"`
	OrdersCreated     int    `json:"orders_created"`
	OrdersUpdated     int    `json:"orders_updated"`
	NotificationsSent int    `json:"notifications_sent"`
}

// Merchant holds a merchant's commerce-platform credentials and message
// personality. The wider merchant/auth layer owns these rows; polling only
// reads them.
type Merchant struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MerchantID  string    `gorm:"uniqueIndex;not null" json:"merchant_id"`
	ShopDomain  string    `gorm:"not null" json:"shop_domain"`
	AccessToken string    `gorm:"not null" json:"-"`
	Personality string    `json:"personality"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *Merchant) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// PollingHealth is a point-in-time snapshot of the polling scheduler,
// exposed by the health endpoint.
type PollingHealth struct {
	SchedulerRunning bool      `json:"scheduler_running"`
	LastPollAt       time.Time `json:"last_poll_at"`
	OrdersSynced     int64     `json:"orders_synced"`
	ErrorsLastHour   int       `json:"errors_last_hour"`
}
