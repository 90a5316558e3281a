package errors

import "fmt"

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

var (
	ErrConfigNotFound = &AppError{Code: "CONFIG_001", Message: "configuration not found"}
	ErrConfigInvalid  = &AppError{Code: "CONFIG_002", Message: "invalid configuration"}

	ErrStoreUnavailable = &AppError{Code: "STORE_001", Message: "store unavailable"}
	ErrStoreWrite       = &AppError{Code: "STORE_002", Message: "failed to persist collection"}

	ErrMedicationNotFound = &AppError{Code: "TRACK_001", Message: "medication not found"}
	ErrAllergyNotFound    = &AppError{Code: "TRACK_002", Message: "allergy not found"}
	ErrMissingFields      = &AppError{Code: "TRACK_003", Message: "required fields missing"}
	ErrInvalidTime        = &AppError{Code: "TRACK_004", Message: "time must be a 24-hour HH:MM string"}

	ErrLocationUnavailable = &AppError{Code: "SOS_001", Message: "location unavailable"}
	ErrDispatchInFlight    = &AppError{Code: "SOS_002", Message: "dispatch already in progress"}

	ErrAssistUnavailable = &AppError{Code: "AI_001", Message: "assistant backend unavailable"}
	ErrRequestInFlight   = &AppError{Code: "AI_002", Message: "request already in progress"}

	ErrInvalidEmail = &AppError{Code: "AUTH_001", Message: "invalid email address"}
	ErrUnauthorized = &AppError{Code: "AUTH_002", Message: "unauthorized"}

	ErrNotFound   = &AppError{Code: "GEN_001", Message: "resource not found"}
	ErrBadRequest = &AppError{Code: "GEN_002", Message: "bad request"}
	ErrInternal   = &AppError{Code: "GEN_003", Message: "internal error"}
)

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}
