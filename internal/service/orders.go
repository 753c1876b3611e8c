package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"omshree-backend/internal/model"
	"omshree-backend/internal/repository"
)

// OrderService covers the read and admin surfaces of orders. Creation goes
// through the checkout pipeline only.
type OrderService interface {
	ListByUser(ctx context.Context, userID uint) ([]*model.Order, error)
	GetByNumber(ctx context.Context, userID uint, number string) (*model.Order, []*model.OrderItem, error)
	UpdateStatus(ctx context.Context, number string, to model.OrderStatus) (*model.Order, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
	}
}

func (s *orderServiceImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderServiceImpl) GetByNumber(ctx context.Context, userID uint, number string) (*model.Order, []*model.OrderItem, error) {
	order, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	// Guest orders have no owner and are not retrievable through the
	// account surface.
	if order.UserID == nil || *order.UserID != userID {
		return nil, nil, ErrNotFound
	}

	items, err := s.orderRepo.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load order items: %w", err)
	}

	return order, items, nil
}

// UpdateStatus applies an admin lifecycle change. The transition table is
// checked here and again in the repository's guarded UPDATE, so a stale
// read cannot skip a state.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, number string, to model.OrderStatus) (*model.Order, error) {
	if !to.Valid() {
		return nil, ErrIllegalTransition
	}

	order, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !order.Status.CanTransition(to) {
		return nil, ErrIllegalTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, number, order.Status, to); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIllegalTransition
		}
		return nil, err
	}

	order.Status = to
	return order, nil
}
