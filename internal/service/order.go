package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"omshree-backend/internal/dto"
	"omshree-backend/internal/model"
	"omshree-backend/internal/repository"
)

// priceTolerance is the maximum deviation allowed between a submitted item
// price and the live catalog price. Anything larger rejects the write.
var priceTolerance = decimal.RequireFromString("0.01")

// OrderDraft carries everything the writer needs to persist a confirmed,
// paid order: verified payment info, address snapshots, and the checkout
// summary.
type OrderDraft struct {
	UserID           *uint
	Email            string
	Phone            string
	GatewayOrderID   string
	Billing          model.AddressSnapshot
	Shipping         model.AddressSnapshot
	Subtotal         decimal.Decimal
	ShippingCost     decimal.Decimal
	Tax              decimal.Decimal
	Discount         decimal.Decimal
	Total            decimal.Decimal
	PaymentMethod    string
	PaymentReference string
	Items            []dto.OrderItemData
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, draft *OrderDraft) (*model.Order, []*model.OrderItem, error)
}

type orderWriterImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	eventRepo   repository.PaymentEventRepository
}

func NewOrderWriter(db *gorm.DB, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, eventRepo repository.PaymentEventRepository) OrderCreator {
	return &orderWriterImpl{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		eventRepo:   eventRepo,
	}
}

// CreateOrder validates the draft, snapshots the line items, and persists
// header plus items in a single transaction. Validation failures return
// sentinel errors before any write; storage failures are wrapped in
// ErrOrderNotSaved because at that point the payment is already captured.
func (w *orderWriterImpl) CreateOrder(ctx context.Context, draft *OrderDraft) (*model.Order, []*model.OrderItem, error) {
	if err := w.validate(ctx, draft); err != nil {
		return nil, nil, err
	}

	number, err := GenerateOrderNumber()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOrderNotSaved, err)
	}

	order := &model.Order{
		OrderNumber:      number,
		UserID:           draft.UserID,
		Email:            draft.Email,
		Phone:            draft.Phone,
		Billing:          draft.Billing,
		Shipping:         draft.Shipping,
		Subtotal:         draft.Subtotal,
		ShippingCost:     draft.ShippingCost,
		TaxAmount:        draft.Tax,
		DiscountAmount:   draft.Discount,
		TotalAmount:      draft.Total,
		Status:           model.OrderConfirmed,
		PaymentStatus:    model.PaymentPaid,
		PaymentMethod:    draft.PaymentMethod,
		PaymentReference: draft.PaymentReference,
	}

	items := make([]*model.OrderItem, len(draft.Items))
	for i, item := range draft.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		items[i] = &model.OrderItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			UnitPrice:   item.Price,
			Quantity:    item.Quantity,
			TotalPrice:  item.Price.Mul(qty),
		}
	}

	err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := w.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		for _, item := range items {
			item.OrderID = order.ID
		}

		if err := w.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		// The event row rides in the same transaction: its unique index
		// on payment_id aborts a second order for a replayed callback
		// that slipped past the pre-check.
		event := &model.PaymentEvent{
			EventID:        uuid.NewString(),
			PaymentID:      draft.PaymentReference,
			GatewayOrderID: draft.GatewayOrderID,
			Result:         "order_created",
		}
		if err := w.eventRepo.Create(ctx, tx, event); err != nil {
			return fmt.Errorf("record payment event: %w", err)
		}

		return nil
	})
	if err != nil {
		if processed, checkErr := w.eventRepo.ExistsForPayment(ctx, draft.PaymentReference); checkErr == nil && processed {
			return nil, nil, ErrDuplicatePayment
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrOrderNotSaved, err)
	}

	return order, items, nil
}

func (w *orderWriterImpl) validate(ctx context.Context, draft *OrderDraft) error {
	if len(draft.Items) == 0 {
		return ErrNoItems
	}

	for _, amount := range []decimal.Decimal{
		draft.Subtotal, draft.ShippingCost, draft.Tax, draft.Discount, draft.Total,
	} {
		if amount.IsNegative() {
			return ErrNegativeAmount
		}
	}

	expected := draft.Subtotal.Add(draft.ShippingCost).Add(draft.Tax).Sub(draft.Discount)
	if !draft.Total.Equal(expected) {
		return ErrTotalMismatch
	}

	ids := make([]uint, len(draft.Items))
	lineSum := decimal.Zero
	for i, item := range draft.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.Price.IsNegative() {
			return ErrNegativeAmount
		}
		ids[i] = item.ID
		lineSum = lineSum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if !lineSum.Equal(draft.Subtotal) {
		return ErrSubtotalMismatch
	}

	products, err := w.productRepo.FindMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	byID := make(map[uint]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range draft.Items {
		product, ok := byID[item.ID]
		if !ok {
			return ErrUnknownProduct
		}
		if item.Price.Sub(product.Price).Abs().Cmp(priceTolerance) > 0 {
			return ErrPriceMismatch
		}
	}

	return nil
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber builds a human-legible order number of the form
// ORD-<epoch millis>-<9 random base36 chars>. A unique index on the column
// backstops the negligible collision probability.
func GenerateOrderNumber() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}

	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), buf), nil
}
