package service

import "errors"

// Checkout pipeline errors. Handlers translate these to the HTTP contract;
// anything not listed here surfaces as a generic 500.
var (
	ErrMissingVerificationData = errors.New("missing payment verification data")
	ErrVerificationFailed      = errors.New("payment verification failed")
	ErrInvalidAddress          = errors.New("invalid address")
	ErrOrderNotSaved           = errors.New("payment verified but failed to save order")
	ErrDuplicatePayment        = errors.New("payment already processed")

	ErrNoItems          = errors.New("order has no items")
	ErrInvalidQuantity  = errors.New("item quantity must be positive")
	ErrNegativeAmount   = errors.New("monetary amounts must be non-negative")
	ErrTotalMismatch    = errors.New("total does not match subtotal + shipping + tax - discount")
	ErrSubtotalMismatch = errors.New("subtotal does not match sum of item totals")
	ErrPriceMismatch    = errors.New("item price does not match catalog price")
	ErrUnknownProduct   = errors.New("unknown product in order")

	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAddressType = errors.New("address type must be billing or shipping")
	ErrNotFound           = errors.New("not found")
	ErrIllegalTransition  = errors.New("illegal order status transition")
)
