package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"omshree-backend/internal/dto"
	"omshree-backend/internal/model"
)

type mockAddressRepo struct {
	findByIDFn func(ctx context.Context, id uint) (*model.Address, error)
}

func (m *mockAddressRepo) Create(ctx context.Context, a *model.Address) error { return nil }
func (m *mockAddressRepo) FindByID(ctx context.Context, id uint) (*model.Address, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockAddressRepo) ListByUser(ctx context.Context, userID uint) ([]*model.Address, error) {
	return nil, nil
}

type mockEventRepo struct {
	created  []*model.PaymentEvent
	existsFn func(ctx context.Context, paymentID string) (bool, error)
}

func (m *mockEventRepo) Create(ctx context.Context, tx *gorm.DB, e *model.PaymentEvent) error {
	m.created = append(m.created, e)
	return nil
}
func (m *mockEventRepo) ExistsForPayment(ctx context.Context, paymentID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, paymentID)
	}
	return false, nil
}

type mockOrderCreator struct {
	createFn func(ctx context.Context, draft *OrderDraft) (*model.Order, []*model.OrderItem, error)
	calls    int
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, draft *OrderDraft) (*model.Order, []*model.OrderItem, error) {
	m.calls++
	return m.createFn(ctx, draft)
}

type mockMail struct {
	confirmErr error
	failureErr error
	confirmed  chan *model.Order
}

func newMockMail() *mockMail {
	return &mockMail{confirmed: make(chan *model.Order, 1)}
}

func (m *mockMail) SendOrderConfirmation(ctx context.Context, order *model.Order, items []*model.OrderItem) error {
	m.confirmed <- order
	return m.confirmErr
}

func (m *mockMail) SendPaymentFailure(ctx context.Context, email, name, errorMessage string, orderData []byte) error {
	return m.failureErr
}

const testSecret = "test-secret"

func testAddress(id, userID uint) *model.Address {
	return &model.Address{
		ID:      id,
		UserID:  userID,
		Type:    model.AddressBilling,
		Name:    "Asha Iyer",
		Line1:   "12 Temple Road",
		City:    "Pune",
		Country: "IN",
		Phone:   "+91 90000 00000",
	}
}

func newCheckout(addrRepo *mockAddressRepo, eventRepo *mockEventRepo, writer *mockOrderCreator, mail *mockMail) CheckoutService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCheckoutService(
		NewSignatureVerifier(testSecret),
		addrRepo,
		eventRepo,
		writer,
		NewNotifier(mail, log),
		log,
	)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validOrderData() *dto.OrderData {
	uid := uint(7)
	return &dto.OrderData{
		BillingAddressID:  1,
		ShippingAddressID: 2,
		Subtotal:          dec("300"),
		ShippingCost:      dec("0"),
		Tax:               dec("54"),
		Discount:          dec("0"),
		Total:             dec("354"),
		PaymentMethod:     "razorpay",
		UserID:            &uid,
		Email:             "asha@example.com",
		Items: []dto.OrderItemData{
			{ID: 1, Name: "Brass Diya", Price: dec("100"), Quantity: 2},
			{ID: 2, Name: "Sandalwood Mala", Price: dec("100"), Quantity: 1},
		},
	}
}

func TestVerifyPaymentMissingFields(t *testing.T) {
	svc := newCheckout(&mockAddressRepo{}, &mockEventRepo{}, &mockOrderCreator{}, newMockMail())

	for _, req := range []*dto.VerifyPaymentRequest{
		{RazorpayPaymentID: "pay_xyz", RazorpaySignature: "sig"},
		{RazorpayOrderID: "order_abc", RazorpaySignature: "sig"},
		{RazorpayOrderID: "order_abc", RazorpayPaymentID: "pay_xyz"},
	} {
		_, err := svc.VerifyPayment(context.Background(), req)
		assert.ErrorIs(t, err, ErrMissingVerificationData)
	}
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	writer := &mockOrderCreator{}
	svc := newCheckout(&mockAddressRepo{}, &mockEventRepo{}, writer, newMockMail())

	_, err := svc.VerifyPayment(context.Background(), &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "deadbeef",
		OrderData:         validOrderData(),
	})
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Zero(t, writer.calls)
}

func TestVerifyPaymentVerificationOnly(t *testing.T) {
	writer := &mockOrderCreator{}
	events := &mockEventRepo{}
	svc := newCheckout(&mockAddressRepo{}, events, writer, newMockMail())

	resp, err := svc.VerifyPayment(context.Background(), &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayload(testSecret, "order_abc", "pay_xyz"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "pay_xyz", resp.PaymentID)
	assert.Zero(t, resp.OrderID)
	assert.Empty(t, resp.OrderNumber)
	assert.Zero(t, writer.calls)
	assert.Empty(t, events.created)
}

func TestVerifyPaymentUnknownBillingAddress(t *testing.T) {
	addrRepo := &mockAddressRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Address, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	writer := &mockOrderCreator{}
	svc := newCheckout(addrRepo, &mockEventRepo{}, writer, newMockMail())

	_, err := svc.VerifyPayment(context.Background(), &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayload(testSecret, "order_abc", "pay_xyz"),
		OrderData:         validOrderData(),
	})
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Zero(t, writer.calls)
}

func TestVerifyPaymentForeignAddressRejected(t *testing.T) {
	addrRepo := &mockAddressRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Address, error) {
			return testAddress(id, 99), nil // belongs to another user
		},
	}
	writer := &mockOrderCreator{}
	svc := newCheckout(addrRepo, &mockEventRepo{}, writer, newMockMail())

	_, err := svc.VerifyPayment(context.Background(), &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayload(testSecret, "order_abc", "pay_xyz"),
		OrderData:         validOrderData(),
	})
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Zero(t, writer.calls)
}

func TestVerifyPaymentPersistenceFailure(t *testing.T) {
	addrRepo := &mockAddressRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Address, error) {
			return testAddress(id, 7), nil
		},
	}
	writer := &mockOrderCreator{
		createFn: func(ctx context.Context, draft *OrderDraft) (*model.Order, []*model.OrderItem, error) {
			return nil, nil, ErrOrderNotSaved
		},
	}
	svc := newCheckout(addrRepo, &mockEventRepo{}, writer, newMockMail())

	_, err := svc.VerifyPayment(context.Background(), &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayload(testSecret, "order_abc", "pay_xyz"),
		OrderData:         validOrderData(),
	})
	assert.ErrorIs(t, err, ErrOrderNotSaved)
}

func TestVerifyPaymentDuplicate(t *testing.T) {
	writer := &mockOrderCreator{}
	events := &mockEventRepo{
		existsFn: func(ctx context.Context, paymentID string) (bool, error) {
			return true, nil
		},
	}
	svc := newCheckout(&mockAddressRepo{}, events, writer, newMockMail())

	_, err := svc.VerifyPayment(context.Background(), &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayload(testSecret, "order_abc", "pay_xyz"),
		OrderData:         validOrderData(),
	})
	assert.ErrorIs(t, err, ErrDuplicatePayment)
	assert.Zero(t, writer.calls)
}

func TestVerifyPaymentFullCheckout(t *testing.T) {
	addrRepo := &mockAddressRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Address, error) {
			return testAddress(id, 7), nil
		},
	}
	var captured *OrderDraft
	writer := &mockOrderCreator{
		createFn: func(ctx context.Context, draft *OrderDraft) (*model.Order, []*model.OrderItem, error) {
			captured = draft
			number, err := GenerateOrderNumber()
			if err != nil {
				return nil, nil, err
			}
			order := &model.Order{
				ID:          42,
				OrderNumber: number,
				TotalAmount: draft.Total,
				Email:       draft.Email,
				Billing:     draft.Billing,
			}
			return order, []*model.OrderItem{{OrderID: 42}, {OrderID: 42}}, nil
		},
	}
	events := &mockEventRepo{}
	mail := newMockMail()
	svc := newCheckout(addrRepo, events, writer, mail)

	resp, err := svc.VerifyPayment(context.Background(), &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayload(testSecret, "order_abc", "pay_xyz"),
		OrderData:         validOrderData(),
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, uint(42), resp.OrderID)
	assert.Equal(t, "pay_xyz", resp.PaymentID)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d+-[A-Z0-9]{9}$`), resp.OrderNumber)

	require.NotNil(t, captured)
	assert.Equal(t, "pay_xyz", captured.PaymentReference)
	assert.Equal(t, "order_abc", captured.GatewayOrderID)
	assert.True(t, captured.Total.Equal(dec("354")))
	assert.Equal(t, "Asha Iyer", captured.Billing.Name)
	assert.Equal(t, "+91 90000 00000", captured.Shipping.Phone)

	select {
	case order := <-mail.confirmed:
		assert.Equal(t, resp.OrderNumber, order.OrderNumber)
	case <-time.After(time.Second):
		t.Fatal("confirmation email was never dispatched")
	}
}

func TestVerifyPaymentReplayedCallbackCreatesOneOrder(t *testing.T) {
	db := newTestDB(t)
	seedProducts(t, db)

	addrRepo := &mockAddressRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Address, error) {
			return testAddress(id, 7), nil
		},
	}
	// A pre-check that never sees the other callback, as when two
	// retries interleave before either commits.
	events := &mockEventRepo{
		existsFn: func(ctx context.Context, paymentID string) (bool, error) {
			return false, nil
		},
	}
	writer := newWriter(t, db)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewCheckoutService(NewSignatureVerifier(testSecret), addrRepo, events, writer, NewNotifier(newMockMail(), log), log)

	uid := uint(7)
	req := &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayload(testSecret, "order_abc", "pay_xyz"),
		OrderData: &dto.OrderData{
			BillingAddressID:  1,
			ShippingAddressID: 2,
			Subtotal:          dec("250.00"),
			ShippingCost:      dec("20.00"),
			Tax:               dec("25.00"),
			Discount:          dec("10.00"),
			Total:             dec("285.00"),
			PaymentMethod:     "razorpay",
			UserID:            &uid,
			Email:             "asha@example.com",
			Items: []dto.OrderItemData{
				{ID: 1, Name: "Brass Diya", Price: dec("100.00"), Quantity: 2},
				{ID: 2, Name: "Sandalwood Mala", Price: dec("50.00"), Quantity: 1},
			},
		},
	}

	resp, err := svc.VerifyPayment(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	_, err = svc.VerifyPayment(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicatePayment)

	var orders int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestVerifyPaymentNotificationFailureIsSwallowed(t *testing.T) {
	addrRepo := &mockAddressRepo{
		findByIDFn: func(ctx context.Context, id uint) (*model.Address, error) {
			return testAddress(id, 7), nil
		},
	}
	writer := &mockOrderCreator{
		createFn: func(ctx context.Context, draft *OrderDraft) (*model.Order, []*model.OrderItem, error) {
			return &model.Order{ID: 1, OrderNumber: "ORD-1-AAAAAAAAA"}, nil, nil
		},
	}
	mail := newMockMail()
	mail.confirmErr = errors.New("smtp: provider down")
	svc := newCheckout(addrRepo, &mockEventRepo{}, writer, mail)

	resp, err := svc.VerifyPayment(context.Background(), &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: signPayload(testSecret, "order_abc", "pay_xyz"),
		OrderData:         validOrderData(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.OrderID)

	// The send was attempted even though it failed.
	select {
	case <-mail.confirmed:
	case <-time.After(time.Second):
		t.Fatal("confirmation email was never dispatched")
	}
}
