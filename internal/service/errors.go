package service

import "errors"

// Sentinel errors surfaced by the core services. Handlers map these to HTTP
// statuses; everything else is treated as an internal error.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrMissingPhone      = errors.New("phone number is required")
	ErrGatewayFault      = errors.New("payment gateway fault")
)
