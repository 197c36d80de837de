package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hazlamahedich/shop-sub002/models"
)

// ConsentRepository reads the per-conversation notification consent flag.
type ConsentRepository interface {
	HasNotificationConsent(ctx context.Context, shopperID string) (bool, error)
}

// GormConsentRepository implements ConsentRepository using GORM
type GormConsentRepository struct {
	db *gorm.DB
}

func NewGormConsentRepository(db *gorm.DB) ConsentRepository {
	return &GormConsentRepository{db: db}
}

// HasNotificationConsent returns whether the shopper granted shipping
// notifications. A missing record means no consent.
func (r *GormConsentRepository) HasNotificationConsent(ctx context.Context, shopperID string) (bool, error) {
	var record models.ConsentRecord
	err := r.db.WithContext(ctx).
		Where("shopper_id = ?", shopperID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return record.NotificationsGranted, nil
}
