package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hazlamahedich/shop-sub002/models"
)

// OrderRepository defines the data access surface for durable order rows.
type OrderRepository interface {
	FindByPlatformID(ctx context.Context, platformOrderID int64) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByPlatformID retrieves the order row for a commerce-platform order
// id, or nil when the order has not been sighted yet.
func (r *GormOrderRepository) FindByPlatformID(ctx context.Context, platformOrderID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("platform_order_id = ?", platformOrderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts a new order row
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update persists changes to an existing order row
func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}
