package payment

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrOrderNotPending  = errors.New("order is not payable")
	ErrInvalidSignature = errors.New("invalid notification signature")
)
