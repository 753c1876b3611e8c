package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// AddressSnapshot is the point-in-time copy of a saved address embedded
// into the order row at checkout.
type AddressSnapshot struct {
	Name       string `gorm:"size:128"`
	Company    string `gorm:"size:128"`
	Line1      string `gorm:"size:255"`
	Line2      string `gorm:"size:255"`
	City       string `gorm:"size:64"`
	State      string `gorm:"size:64"`
	PostalCode string `gorm:"size:16"`
	Country    string `gorm:"size:64"`
	Phone      string `gorm:"size:32"`
}

func SnapshotOf(a *Address) AddressSnapshot {
	return AddressSnapshot{
		Name:       a.Name,
		Company:    a.Company,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

type Order struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNumber string `gorm:"size:32;uniqueIndex;not null"`
	UserID      *uint  `gorm:"index"` // nil for guest checkout
	Email       string `gorm:"size:255"`
	Phone       string `gorm:"size:32"`

	Billing  AddressSnapshot `gorm:"embedded;embeddedPrefix:billing_"`
	Shipping AddressSnapshot `gorm:"embedded;embeddedPrefix:shipping_"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Status           OrderStatus   `gorm:"size:16;index;not null"`
	PaymentStatus    PaymentStatus `gorm:"size:16;index;not null"`
	PaymentMethod    string        `gorm:"size:32"`
	PaymentReference string        `gorm:"size:64;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots the product name and unit price at purchase time;
// later catalog edits never touch it.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"index;not null"`
	ProductID   uint            `gorm:"index;not null"`
	ProductName string          `gorm:"size:255;not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled, OrderRefunded},
	OrderProcessing: {OrderShipped, OrderCancelled, OrderRefunded},
	OrderShipped:    {OrderDelivered, OrderRefunded},
	OrderDelivered:  {OrderRefunded},
}

// CanTransition reports whether an order may move from its current status
// to the requested one. Terminal states have no outgoing edges.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}
