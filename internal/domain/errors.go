package domain

import "errors"

var (
	ErrUnsupportedInstrument = errors.New("unsupported payment method")
	ErrNotSettled            = errors.New("charge is not settled")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrGatewayUnavailable    = errors.New("gateway unavailable")
	ErrInvalidNotification   = errors.New("charge notification has no idempotency key")
)
