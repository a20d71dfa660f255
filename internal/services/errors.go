package services

import "errors"

// Sentinel errors for the storefront's failure taxonomy. Handlers map these
// onto HTTP status codes; nothing here is retried internally.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidSelection    = errors.New("size or color not offered")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrCouponInvalid       = errors.New("coupon invalid")
	ErrCouponNotApplicable = errors.New("coupon not applicable")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrBadCreds            = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
)
