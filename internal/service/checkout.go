package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"omshree-backend/internal/dto"
	"omshree-backend/internal/model"
	"omshree-backend/internal/repository"
)

type CheckoutService interface {
	VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
}

type checkoutServiceImpl struct {
	verifier       *SignatureVerifier
	addressRepo    repository.AddressRepository
	eventRepo      repository.PaymentEventRepository
	orderWriter    OrderCreator
	notifier       *Notifier
	log            *slog.Logger
	persistTimeout time.Duration
}

func NewCheckoutService(
	verifier *SignatureVerifier,
	addressRepo repository.AddressRepository,
	eventRepo repository.PaymentEventRepository,
	orderWriter OrderCreator,
	notifier *Notifier,
	log *slog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		verifier:       verifier,
		addressRepo:    addressRepo,
		eventRepo:      eventRepo,
		orderWriter:    orderWriter,
		notifier:       notifier,
		log:            log,
		persistTimeout: 5 * time.Second,
	}
}

// VerifyPayment runs the checkout pipeline: authenticate the gateway
// callback, then (when an order summary accompanies it) snapshot the
// addresses, persist the order, and fire the confirmation email. A request
// without order_data is a valid verification-only call.
func (s *checkoutServiceImpl) VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return nil, ErrMissingVerificationData
	}

	if !s.verifier.Verify(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		return nil, ErrVerificationFailed
	}

	if req.OrderData == nil {
		return &dto.VerifyPaymentResponse{
			Success:   true,
			PaymentID: req.RazorpayPaymentID,
		}, nil
	}

	// The gateway retries callbacks; a payment that already produced an
	// order must not produce a second one. This pre-check answers the
	// common replay cheaply; the writer's transactional event insert is
	// what actually closes the race between concurrent callbacks.
	processed, err := s.eventRepo.ExistsForPayment(ctx, req.RazorpayPaymentID)
	if err != nil {
		return nil, fmt.Errorf("check payment events: %w", err)
	}
	if processed {
		return nil, ErrDuplicatePayment
	}

	billing, shipping, err := s.resolveAddresses(ctx, req.OrderData)
	if err != nil {
		return nil, err
	}

	draft := &OrderDraft{
		UserID:           req.OrderData.UserID,
		Email:            req.OrderData.Email,
		Phone:            req.OrderData.Phone,
		GatewayOrderID:   req.RazorpayOrderID,
		Billing:          model.SnapshotOf(billing),
		Shipping:         model.SnapshotOf(shipping),
		Subtotal:         req.OrderData.Subtotal,
		ShippingCost:     req.OrderData.ShippingCost,
		Tax:              req.OrderData.Tax,
		Discount:         req.OrderData.Discount,
		Total:            req.OrderData.Total,
		PaymentMethod:    req.OrderData.PaymentMethod,
		PaymentReference: req.RazorpayPaymentID,
		Items:            req.OrderData.Items,
	}
	if draft.Phone == "" {
		draft.Phone = billing.Phone
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	order, items, err := s.orderWriter.CreateOrder(writeCtx, draft)
	if err != nil {
		if errors.Is(err, ErrOrderNotSaved) {
			// Money has moved but no order exists. Log loudly so it can
			// be reconciled by hand.
			s.log.Error("payment captured but order not saved",
				"payment_id", req.RazorpayPaymentID,
				"error", err,
			)
		}
		return nil, err
	}

	s.notifier.OrderConfirmed(order, items)

	return &dto.VerifyPaymentResponse{
		Success:     true,
		PaymentID:   req.RazorpayPaymentID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Message:     "Payment verified and order placed",
	}, nil
}

// resolveAddresses loads both saved addresses or fails the whole request.
// A miss on either side must not leak a half-resolved order forward.
func (s *checkoutServiceImpl) resolveAddresses(ctx context.Context, data *dto.OrderData) (*model.Address, *model.Address, error) {
	billing, err := s.addressRepo.FindByID(ctx, data.BillingAddressID)
	if err != nil {
		return nil, nil, ErrInvalidAddress
	}

	shipping, err := s.addressRepo.FindByID(ctx, data.ShippingAddressID)
	if err != nil {
		return nil, nil, ErrInvalidAddress
	}

	if data.UserID != nil {
		if billing.UserID != *data.UserID || shipping.UserID != *data.UserID {
			return nil, nil, ErrInvalidAddress
		}
	}

	return billing, shipping, nil
}
