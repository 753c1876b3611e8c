package repository

import (
	"context"

	"gorm.io/gorm"

	"omshree-backend/internal/model"
)

type PaymentEventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *model.PaymentEvent) error
	ExistsForPayment(ctx context.Context, paymentID string) (bool, error)
}

type paymentEventRepoImpl struct {
	db *gorm.DB
}

func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepoImpl{
		db: db,
	}
}

func (r *paymentEventRepoImpl) Create(ctx context.Context, tx *gorm.DB, event *model.PaymentEvent) error {
	return tx.WithContext(ctx).Create(event).Error
}

func (r *paymentEventRepoImpl) ExistsForPayment(ctx context.Context, paymentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PaymentEvent{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error

	return count > 0, err
}
