package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hazlamahedich/shop-sub002/models"
)

// MerchantRepository resolves merchant credentials and message personality.
// The merchant onboarding layer owns these rows; this subsystem reads them.
type MerchantRepository interface {
	FindByMerchantID(ctx context.Context, merchantID string) (*models.Merchant, error)
	ListMerchantIDs(ctx context.Context) ([]string, error)
}

// GormMerchantRepository implements MerchantRepository using GORM
type GormMerchantRepository struct {
	db *gorm.DB
}

func NewGormMerchantRepository(db *gorm.DB) MerchantRepository {
	return &GormMerchantRepository{db: db}
}

func (r *GormMerchantRepository) FindByMerchantID(ctx context.Context, merchantID string) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		First(&merchant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

// ListMerchantIDs returns every onboarded merchant id, for the polling
// scheduler.
func (r *GormMerchantRepository) ListMerchantIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Pluck("merchant_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
