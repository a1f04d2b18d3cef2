package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidCoupon        = "INVALID_COUPON"
	ErrCodeInvalidPhone         = "INVALID_PHONE"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeOverlayNotAllowed    = "OVERLAY_NOT_ALLOWED"
	ErrCodeUnknownPayment       = "UNKNOWN_PAYMENT_METHOD"
	ErrCodePointsMethodMismatch = "POINTS_METHOD_MISMATCH"
	ErrCodeReceiptUnavailable   = "RECEIPT_UNAVAILABLE"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
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
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInvalidCoupon        = NewDomainError(ErrCodeInvalidCoupon, "Coupon is invalid or not applicable")
	ErrInvalidPhone         = NewDomainError(ErrCodeInvalidPhone, "Phone number format is invalid")
	ErrInvalidTransition    = NewDomainError(ErrCodeInvalidTransition, "Action is not available in the current step")
	ErrOverlayNotAllowed    = NewDomainError(ErrCodeOverlayNotAllowed, "Dialog cannot be opened in the current step")
	ErrUnknownPayment       = NewDomainError(ErrCodeUnknownPayment, "Unknown payment method")
	ErrPointsMethodMismatch = NewDomainError(ErrCodePointsMethodMismatch, "Selected points method does not match")
	ErrReceiptUnavailable   = NewDomainError(ErrCodeReceiptUnavailable, "Receipt is only available after payment")
)
