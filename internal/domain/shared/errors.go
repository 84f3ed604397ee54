package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized      = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden         = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// InsufficientStockError is returned when a stock adjustment would push the
// on-hand quantity below zero. No write happens when it is returned.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available, %d requested", e.Available, e.Requested)
}

// DomainCode returns the stable error code for this error type
func (e *InsufficientStockError) DomainCode() string {
	return "INSUFFICIENT_STOCK"
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(available, requested int64) *InsufficientStockError {
	return &InsufficientStockError{Available: available, Requested: requested}
}

// InvalidTransitionError is returned when an order status change is not
// allowed from the order's current status.
type InvalidTransitionError struct {
	From   string
	Target string
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.Target)
}

// DomainCode returns the stable error code for this error type
func (e *InvalidTransitionError) DomainCode() string {
	return "INVALID_TRANSITION"
}

// NewInvalidTransitionError creates a new InvalidTransitionError
func NewInvalidTransitionError(from, target string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, Target: target}
}

// CouponError is returned when a coupon fails validation. During checkout the
// caller treats it as non-fatal and skips the coupon; admin endpoints surface it.
type CouponError struct {
	Code   string
	Reason string
}

// Error implements the error interface
func (e *CouponError) Error() string {
	return fmt.Sprintf("coupon %q rejected: %s", e.Code, e.Reason)
}

// DomainCode returns the stable error code for this error type
func (e *CouponError) DomainCode() string {
	return "COUPON_INVALID"
}

// NewCouponError creates a new CouponError
func NewCouponError(code, reason string) *CouponError {
	return &CouponError{Code: code, Reason: reason}
}
