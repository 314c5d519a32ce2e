package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler and ws layers map these to HTTP status codes and
// error envelopes. Every one of them rejects a single request and
// leaves room state untouched.
var (
	ErrInsufficientFunds   = errors.New("insufficient_funds")
	ErrPoolExhausted       = errors.New("pool_exhausted")
	ErrExceedsSellCapacity = errors.New("exceeds_sell_capacity")
	ErrRoomNotFound        = errors.New("room_not_found")
	ErrRoomFull            = errors.New("room_full")
	ErrRoleConflict        = errors.New("role_conflict")
	ErrInvalidOrder        = errors.New("invalid_order")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
