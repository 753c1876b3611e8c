package repository

import (
	"context"

	"gorm.io/gorm"

	"omshree-backend/internal/model"
)

type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	FindByID(ctx context.Context, id uint) (*model.Address, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Address, error)
}

type addressRepoImpl struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepoImpl{
		db: db,
	}
}

func (r *addressRepoImpl) Create(ctx context.Context, address *model.Address) error {
	if address.IsDefault {
		// Only one default per user and type.
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.Model(&model.Address{}).
				Where("user_id = ? AND type = ?", address.UserID, address.Type).
				Update("is_default", false).Error
			if err != nil {
				return err
			}
			return tx.Create(address).Error
		})
	}
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *addressRepoImpl) FindByID(ctx context.Context, id uint) (*model.Address, error) {
	var address model.Address
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&address).Error

	if err != nil {
		return nil, err
	}

	return &address, nil
}

func (r *addressRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Address, error) {
	var addresses []*model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id ASC").
		Find(&addresses).Error

	if err != nil {
		return nil, err
	}

	return addresses, nil
}
