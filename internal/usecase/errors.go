package usecase

import "errors"

// Sentinel errors the adaptor layer maps onto HTTP status codes. Services
// wrap these with context via fmt.Errorf("...: %w", Err...).
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrCapacityExceeded     = errors.New("daily booking capacity exceeded")
	ErrOutsideBusinessHours = errors.New("outside business hours")
	ErrOverlap              = errors.New("time slot already booked")
	ErrForbidden            = errors.New("operation not allowed for this user")
	ErrIllegalTransition    = errors.New("illegal status transition")
	ErrUpstream             = errors.New("upstream dependency failed")
)
