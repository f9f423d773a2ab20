package models

import "errors"

// Machine-readable error codes surfaced to API callers so the client
// can branch on the exact precondition that failed.
const (
	CodeProfileIncomplete = "PROFILE_INCOMPLETE"
	CodeRequestExists     = "REQUEST_EXISTS"
	CodeDailyLimit        = "DAILY_LIMIT"
	CodeMatchLimit        = "MATCH_LIMIT"
	CodeLowScore          = "LOW_SCORE"
	CodeExpired           = "EXPIRED"
	CodeAlreadyHandled    = "ALREADY_HANDLED"
	CodeAlreadyPaid       = "ALREADY_PAID"
	CodeNotAccepted       = "NOT_ACCEPTED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidState      = "INVALID_STATE"
	CodeValidation        = "VALIDATION"
	CodePaymentFailed     = "PAYMENT_FAILED"
)

// ServiceError is a typed error carrying a machine-readable code.
// Every precondition or authorization failure in the core is returned
// as one of these; infrastructure failures stay plain wrapped errors.
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}

// NewServiceError builds a ServiceError with the given code and message.
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// ErrorCode extracts the machine-readable code from an error, or ""
// if the error is not a ServiceError.
func ErrorCode(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsCode reports whether err is a ServiceError with the given code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}
