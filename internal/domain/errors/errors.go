package errors

import (
	"net/http"

	"warden/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Credential-related errors. Unknown account and wrong password share
	// one error so callers cannot probe for account existence.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"電子郵件或密碼錯誤",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"密碼處理錯誤",
		"",
	)

	ErrPasswordStrength = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_STRENGTH",
		"密碼強度不足",
		"",
	)

	// Token-related errors. The three rejection categories stay distinct so
	// clients can tell "re-login" (expired) apart from "tampered token".
	ErrTokenMalformed = NewBaseError(
		http.StatusUnauthorized,
		"MALFORMED_TOKEN",
		"權杖格式不正確",
		"",
	)

	ErrTokenSignatureInvalid = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_SIGNATURE",
		"權杖簽章驗證失敗",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"權杖已過期，請重新登入",
		"",
	)

	// ErrAccountNotFound covers a valid token whose subject no longer exists.
	ErrAccountNotFound = NewBaseError(
		http.StatusUnauthorized,
		"ACCOUNT_NOT_FOUND",
		"找不到該帳號",
		"",
	)

	// User-related errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"找不到該使用者",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"此電子郵件已被註冊",
		"",
	)

	ErrUserCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_CREATION_FAILED",
		"建立使用者失敗",
		"",
	)

	// Configuration errors are fatal at startup, never per-request.
	ErrSigningKeyMissing = NewBaseError(
		http.StatusInternalServerError,
		"SIGNING_KEY_MISSING",
		"未設定權杖簽章金鑰",
		"",
	)

	// ErrUnavailable surfaces transient storage/cache failures; retry policy
	// belongs to the caller.
	ErrUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"UNAVAILABLE",
		"服務暫時無法使用",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"輸入資料驗證失敗",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"系統內部錯誤",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the underlying database error for errors.Is/As checks.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "資料庫執行失敗"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
