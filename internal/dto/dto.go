package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type VerifyPaymentRequest struct {
	RazorpayOrderID   string     `json:"razorpay_order_id"`
	RazorpayPaymentID string     `json:"razorpay_payment_id"`
	RazorpaySignature string     `json:"razorpay_signature"`
	OrderData         *OrderData `json:"order_data,omitempty"`
}

// OrderData is the checkout summary cached on the client while the gateway
// collected the payment. Prices in Items are what the buyer saw; the order
// writer re-checks them against the catalog before persisting.
type OrderData struct {
	BillingAddressID  uint            `json:"billing_address_id"`
	ShippingAddressID uint            `json:"shipping_address_id"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"`
	Tax               decimal.Decimal `json:"tax"`
	Discount          decimal.Decimal `json:"discount"`
	Total             decimal.Decimal `json:"total"`
	PaymentMethod     string          `json:"payment_method"`
	UserID            *uint           `json:"user_id,omitempty"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Items             []OrderItemData `json:"items"`
}

type OrderItemData struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type VerifyPaymentResponse struct {
	Success     bool   `json:"success"`
	PaymentID   string `json:"payment_id"`
	OrderID     uint   `json:"order_id,omitempty"`
	OrderNumber string `json:"order_number,omitempty"`
	Message     string `json:"message,omitempty"`
}

type PaymentFailureRequest struct {
	UserEmail    string          `json:"userEmail"`
	UserName     string          `json:"userName"`
	OrderData    json.RawMessage `json:"orderData,omitempty"`
	ErrorMessage string          `json:"errorMessage"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateAddressRequest struct {
	Type       string `json:"type"`
	IsDefault  bool   `json:"is_default"`
	Name       string `json:"name"`
	Company    string `json:"company,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
