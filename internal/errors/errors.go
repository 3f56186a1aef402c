// Package errors provides custom error types for the basket API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized          = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidAPIKey         = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Instrument errors.
var (
	ErrInstrumentNotFound  = &AppError{Code: "INSTRUMENT_NOT_FOUND", Message: "Instrument not found", StatusCode: http.StatusNotFound}
	ErrDuplicateInstrument = &AppError{Code: "DUPLICATE_INSTRUMENT", Message: "Instrument appears more than once", StatusCode: http.StatusConflict}
	ErrPriceUnavailable    = &AppError{Code: "PRICE_UNAVAILABLE", Message: "Prices could not be fetched", StatusCode: http.StatusBadGateway}
)

// Basket errors.
var (
	ErrBasketNotFound          = &AppError{Code: "BASKET_NOT_FOUND", Message: "Basket not found", StatusCode: http.StatusNotFound}
	ErrBasketItemNotFound      = &AppError{Code: "BASKET_ITEM_NOT_FOUND", Message: "Basket item not found", StatusCode: http.StatusNotFound}
	ErrInsufficientInstruments = &AppError{Code: "INSUFFICIENT_INSTRUMENTS", Message: "A basket needs at least two priced instruments", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount           = &AppError{Code: "INVALID_AMOUNT", Message: "Investment amount must be greater than zero and below 10000000000000000", StatusCode: http.StatusBadRequest}
	ErrInvalidWeight           = &AppError{Code: "INVALID_WEIGHT", Message: "Weight must be greater than 0 and at most 100", StatusCode: http.StatusBadRequest}
	ErrInvalidQuantity         = &AppError{Code: "INVALID_QUANTITY", Message: "Quantity must be greater than zero and keep the basket below 10000000000000000", StatusCode: http.StatusBadRequest}
	ErrConcurrentModification  = &AppError{Code: "CONCURRENT_MODIFICATION", Message: "Basket was modified by another request, please retry", StatusCode: http.StatusConflict}
)
