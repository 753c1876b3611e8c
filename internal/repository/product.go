package repository

import (
	"context"

	"gorm.io/gorm"

	"omshree-backend/internal/model"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindMany(ctx context.Context, ids []uint) ([]*model.Product, error)
	List(ctx context.Context, category string) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, ids []uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context, category string) ([]*model.Product, error) {
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var products []*model.Product
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}
