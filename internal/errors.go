package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeMissingFields    ErrorCode = "MISSING_FIELDS"

	ErrCodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailTaken     ErrorCode = "EMAIL_TAKEN"
	ErrCodePasswordWeak   ErrorCode = "PASSWORD_TOO_SHORT"
	ErrCodePasswordWrong  ErrorCode = "CURRENT_PASSWORD_INCORRECT"
	ErrCodeInvalidRole    ErrorCode = "INVALID_ROLE"
	ErrCodeUserInactive   ErrorCode = "USER_INACTIVE"

	ErrCodeLeaveTypeNotFound   ErrorCode = "LEAVE_TYPE_NOT_FOUND"
	ErrCodeLeaveTypeExists     ErrorCode = "LEAVE_TYPE_EXISTS"
	ErrCodeLeaveTypeInUse      ErrorCode = "LEAVE_TYPE_IN_USE"
	ErrCodeAllocationsRequired ErrorCode = "ALLOCATIONS_REQUIRED"

	ErrCodeLeaveNotFound       ErrorCode = "LEAVE_NOT_FOUND"
	ErrCodeLeaveOverlap        ErrorCode = "LEAVE_OVERLAP"
	ErrCodeNotEligible         ErrorCode = "LEAVE_TYPE_NOT_AVAILABLE"
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeAlreadyDecided      ErrorCode = "LEAVE_ALREADY_PROCESSED"
	ErrCodeNotYourReport       ErrorCode = "NOT_APPLICATION_MANAGER"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeForbidden          ErrorCode = "INSUFFICIENT_PERMISSIONS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// WithMessage keeps type/code/status but swaps the user-facing text, for
// messages that carry request-specific values (e.g. remaining balance).
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	clone := *e
	clone.Message = fmt.Sprintf(format, args...)
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Join() string {
	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrUserNotFound      = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrEmailTaken        = NewConflictError("employee with this email already exists", ErrCodeEmailTaken)
	ErrPasswordTooShort  = NewValidationError("new password must be at least 8 characters", ErrCodePasswordWeak)
	ErrWrongPassword     = NewValidationError("current password is incorrect", ErrCodePasswordWrong)
	ErrUserInactive      = NewForbiddenError("user account is inactive", ErrCodeUserInactive)

	ErrLeaveTypeNotFound = NewNotFoundError("leave type not found", ErrCodeLeaveTypeNotFound)
	ErrLeaveTypeExists   = NewConflictError("leave type already exists", ErrCodeLeaveTypeExists)
	ErrLeaveTypeInUse    = NewConflictError("cannot delete leave type, it is being used in leave applications", ErrCodeLeaveTypeInUse)

	ErrLeaveNotFound       = NewNotFoundError("leave request not found", ErrCodeLeaveNotFound)
	ErrLeaveOverlap        = NewConflictError("you already have a leave request overlapping with these dates", ErrCodeLeaveOverlap)
	ErrNotEligible         = NewValidationError("leave type not available for you", ErrCodeNotEligible)
	ErrInsufficientBalance = NewValidationError("insufficient leave balance", ErrCodeInsufficientBalance)
	ErrAlreadyDecided      = NewValidationError("leave request already processed", ErrCodeAlreadyDecided)
	ErrNotYourReport       = NewForbiddenError("you are not authorized to act on this leave request", ErrCodeNotYourReport)

	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
