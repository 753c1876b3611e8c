package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"omshree-backend/internal/model"
	"omshree-backend/internal/repository"
)

type CatalogService interface {
	List(ctx context.Context, category string) ([]*model.Product, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
	}
}

func (s *catalogServiceImpl) List(ctx context.Context, category string) ([]*model.Product, error) {
	return s.productRepo.List(ctx, category)
}

func (s *catalogServiceImpl) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return product, nil
}
