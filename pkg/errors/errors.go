package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for the storefront error taxonomy. Every function
// that talks to the upstream commerce API returns an error wrapping exactly
// one of these, so callers match on the kind instead of inspecting ad hoc
// response shapes.
var (
	ErrValidation     = errors.New("validation failed")
	ErrSessionExpired = errors.New("session expired")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("resource not found")
	ErrServerRejected = errors.New("request rejected by server")
	ErrNetwork        = errors.New("network error")
	ErrPaymentFailed  = errors.New("payment failed")
	ErrInternal       = errors.New("internal error")
)

// Kind classifies an error into one of the storefront's error categories.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindSessionExpired
	KindForbidden
	KindNotFound
	KindServerRejected
	KindNetwork
	KindPaymentFailed
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindSessionExpired:
		return "session_expired"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServerRejected:
		return "server_rejected"
	case KindNetwork:
		return "network"
	case KindPaymentFailed:
		return "payment_failed"
	default:
		return "internal"
	}
}

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a 400 error for input caught before any network call.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// SessionExpired creates a 401 error. The caller is expected to clear the
// session and redirect to the login route.
func SessionExpired(message string) *AppError {
	if message == "" {
		message = "your session has expired, please log in again"
	}
	return &AppError{
		Code:    "SESSION_EXPIRED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrSessionExpired,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// ServerRejected creates an error for a non-401 4xx from the upstream API.
// The server-supplied message is surfaced verbatim when available.
func ServerRejected(status int, message string) *AppError {
	if message == "" {
		message = "the request was rejected, please try again"
	}
	return &AppError{
		Code:    "SERVER_REJECTED",
		Message: message,
		Status:  status,
		Err:     ErrServerRejected,
	}
}

// Network creates an error for a transport failure or an unexpected upstream
// response. The user sees a generic message; the cause is kept for logs.
func Network(err error) *AppError {
	return &AppError{
		Code:    "NETWORK_ERROR",
		Message: "something went wrong, please try again",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrNetwork, err),
	}
}

// PaymentFailed creates a 422 error carrying the payment processor's message.
// The order already exists upstream in an unpaid state when this is returned.
func PaymentFailed(message string) *AppError {
	return &AppError{
		Code:    "PAYMENT_FAILED",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrPaymentFailed,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// KindOf classifies the given error by its sentinel.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrSessionExpired):
		return KindSessionExpired
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrServerRejected):
		return KindServerRejected
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrPaymentFailed):
		return KindPaymentFailed
	default:
		return KindInternal
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindSessionExpired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindServerRejected:
		return http.StatusBadRequest
	case KindNetwork:
		return http.StatusBadGateway
	case KindPaymentFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
