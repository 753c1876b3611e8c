package service

import (
	"context"
	"log/slog"
	"time"

	"omshree-backend/internal/model"
)

// MailSender is the outbound email transport. Implementations may fail
// freely; the dispatcher decides whether a failure matters.
type MailSender interface {
	SendOrderConfirmation(ctx context.Context, order *model.Order, items []*model.OrderItem) error
	SendPaymentFailure(ctx context.Context, email, name, errorMessage string, orderData []byte) error
}

// Notifier dispatches customer emails around the checkout pipeline.
// Confirmation mail is best-effort: the order is already durable when it
// fires, so transport failures are logged and swallowed.
type Notifier struct {
	mail    MailSender
	log     *slog.Logger
	timeout time.Duration
}

func NewNotifier(mail MailSender, log *slog.Logger) *Notifier {
	return &Notifier{
		mail:    mail,
		log:     log,
		timeout: 10 * time.Second,
	}
}

// OrderConfirmed fires the confirmation email on a background goroutine
// with its own context, detached from the request that created the order.
func (n *Notifier) OrderConfirmed(order *model.Order, items []*model.OrderItem) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.mail.SendOrderConfirmation(ctx, order, items); err != nil {
			n.log.Error("order confirmation email failed",
				"order_number", order.OrderNumber,
				"error", err,
			)
		}
	}()
}

// PaymentFailed sends a payment-failure notice. Unlike OrderConfirmed this
// is the caller's whole job, so the transport error is returned.
func (n *Notifier) PaymentFailed(ctx context.Context, email, name, errorMessage string, orderData []byte) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	return n.mail.SendPaymentFailure(ctx, email, name, errorMessage, orderData)
}
