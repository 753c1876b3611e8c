package service

import (
	"context"
	"fmt"

	"omshree-backend/internal/dto"
	"omshree-backend/internal/model"
	"omshree-backend/internal/repository"
)

type AddressService interface {
	Create(ctx context.Context, userID uint, req *dto.CreateAddressRequest) (*model.Address, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Address, error)
}

type addressServiceImpl struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressServiceImpl{
		addressRepo: addressRepo,
	}
}

func (s *addressServiceImpl) Create(ctx context.Context, userID uint, req *dto.CreateAddressRequest) (*model.Address, error) {
	addrType := model.AddressType(req.Type)
	if !addrType.Valid() {
		return nil, ErrInvalidAddressType
	}

	address := &model.Address{
		UserID:     userID,
		Type:       addrType,
		IsDefault:  req.IsDefault,
		Name:       req.Name,
		Company:    req.Company,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	return address, nil
}

func (s *addressServiceImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Address, error) {
	return s.addressRepo.ListByUser(ctx, userID)
}
