package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hazlamahedich/shop-sub002/models"
)

// NotificationLogRepository persists delivery-attempt audit rows.
type NotificationLogRepository interface {
	SaveLog(ctx context.Context, entry *models.NotificationLog) error
}

// GormNotificationLogRepository implements NotificationLogRepository using GORM
type GormNotificationLogRepository struct {
	db *gorm.DB
}

func NewGormNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &GormNotificationLogRepository{db: db}
}

func (r *GormNotificationLogRepository) SaveLog(ctx context.Context, entry *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
