package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"omshree-backend/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByNumber(ctx context.Context, number string) (*model.Order, error)
	GetOrderItems(ctx context.Context, orderID uint) ([]*model.OrderItem, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, number string, from, to model.OrderStatus) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("order_number = ?", number).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, orderID uint) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus moves an order between lifecycle states. The from-status is
// part of the WHERE clause so concurrent admin updates cannot race past the
// transition check.
func (r *orderRepoImpl) UpdateStatus(ctx context.Context, number string, from, to model.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_number = ? AND status = ?", number, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
