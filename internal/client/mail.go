package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"omshree-backend/internal/config"
	"omshree-backend/internal/model"
)

// SMTPSender sends the transactional storefront emails over plain SMTP
// with AUTH. It satisfies service.MailSender.
type SMTPSender struct {
	addr string
	host string
	auth smtp.Auth
	from string
}

func NewSMTPSender(cfg *config.SMTP) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPSender{
		addr: cfg.Host + ":" + cfg.Port,
		host: cfg.Host,
		auth: auth,
		from: cfg.From,
	}
}

func (s *SMTPSender) SendOrderConfirmation(ctx context.Context, order *model.Order, items []*model.OrderItem) error {
	if order.Email == "" {
		return fmt.Errorf("order %s has no contact email", order.OrderNumber)
	}

	var lines strings.Builder
	for _, item := range items {
		fmt.Fprintf(&lines, "  %s x%d @ %s\r\n", item.ProductName, item.Quantity, item.TotalPrice.StringFixed(2))
	}

	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	body := fmt.Sprintf(
		"Namaste %s,\r\n\r\nYour order %s is confirmed.\r\n\r\n%s\r\nTotal: %s\r\n\r\nOm Shree Store\r\n",
		order.Billing.Name, order.OrderNumber, lines.String(), order.TotalAmount.StringFixed(2),
	)

	return s.send(ctx, order.Email, subject, body)
}

func (s *SMTPSender) SendPaymentFailure(ctx context.Context, email, name, errorMessage string, orderData []byte) error {
	subject := "Payment failed"
	body := fmt.Sprintf(
		"Namaste %s,\r\n\r\nYour payment could not be completed: %s\r\nNo money has been captured for this attempt.\r\n\r\nOm Shree Store\r\n",
		name, errorMessage,
	)

	return s.send(ctx, email, subject, body)
}

// send speaks SMTP over a connection whose deadline comes from ctx, so a
// hung server cannot hold the caller past its timeout.
func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.from, to, subject, body)

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", s.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("smtp set deadline: %w", err)
		}
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("smtp handshake with %s: %w", s.addr, err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if s.auth != nil {
		if err := c.Auth(s.auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(s.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to %s: %w", to, err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close message: %w", err)
	}

	return c.Quit()
}
