package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeCartEmpty         = "CART_EMPTY"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeUpstreamTimeout   = "UPSTREAM_TIMEOUT"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure with a stable code and a
// human-readable message. Rejections carry no partial side effects; the
// cart or order state before the call is the state after it.
type DomainError struct {
	Code    string
	Message string
}

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
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrCartEmpty         = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "Illegal order status transition")
	ErrForbidden         = NewDomainError(ErrCodeForbidden, "Not authorised to access this resource")
	ErrUpstreamTimeout   = NewDomainError(ErrCodeUpstreamTimeout, "Store unavailable, please retry")
)
