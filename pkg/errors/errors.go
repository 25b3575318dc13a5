package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeProvider indicates a transport or payload failure talking to a data provider
	ErrorTypeProvider ErrorType = "PROVIDER"
	// ErrorTypeTimeout indicates a provider request exceeded its deadline
	ErrorTypeTimeout ErrorType = "TIMEOUT"
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"
	// ErrorTypeInvalidArgument indicates a caller supplied an unusable argument
	ErrorTypeInvalidArgument ErrorType = "INVALID_ARGUMENT"
	// ErrorTypePersistence indicates a local storage read or write failed
	ErrorTypePersistence ErrorType = "PERSISTENCE"
	// ErrorTypeUnsupported indicates the provider does not offer the operation
	ErrorTypeUnsupported ErrorType = "UNSUPPORTED"
	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Op      string
	Message string
	Err     error
}

// Error returns the error message
func (e *AppError) Error() string {
	prefix := string(e.Type)
	if e.Op != "" {
		prefix = fmt.Sprintf("%s %s", e.Type, e.Op)
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	default:
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(errorType ErrorType, message string) error {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

// Wrap wraps an error with an application error
func Wrap(errorType ErrorType, message string, err error) error {
	return &AppError{
		Type:    errorType,
		Message: message,
		Err:     err,
	}
}

// Provider creates a provider error for the named operation.
func Provider(op string, cause error) error {
	return &AppError{Type: ErrorTypeProvider, Op: op, Err: cause}
}

// Providerf creates a provider error with a formatted cause.
func Providerf(op, format string, args ...interface{}) error {
	return Provider(op, fmt.Errorf(format, args...))
}

// Timeout creates a timeout error for the named operation.
func Timeout(op string, cause error) error {
	return &AppError{Type: ErrorTypeTimeout, Op: op, Message: "request timed out", Err: cause}
}

// NotFound creates a not found error
func NotFound(message string) error {
	return New(ErrorTypeNotFound, message)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) error {
	return New(ErrorTypeInvalidArgument, message)
}

// Persistence creates a persistence error for the named operation.
func Persistence(op string, cause error) error {
	return &AppError{Type: ErrorTypePersistence, Op: op, Err: cause}
}

// Unsupported creates an unsupported operation error.
func Unsupported(op, message string) error {
	return &AppError{Type: ErrorTypeUnsupported, Op: op, Message: message}
}

// Internal creates an internal error
func Internal(message string) error {
	return New(ErrorTypeInternal, message)
}

// TypeOf returns the ErrorType of err, or "" when err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsProvider checks if an error is a provider failure. Timeouts count as provider failures.
func IsProvider(err error) bool {
	t := TypeOf(err)
	return t == ErrorTypeProvider || t == ErrorTypeTimeout
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return TypeOf(err) == ErrorTypeTimeout
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return TypeOf(err) == ErrorTypeInvalidArgument
}

// IsPersistence checks if an error is a persistence error
func IsPersistence(err error) bool {
	return TypeOf(err) == ErrorTypePersistence
}

// IsUnsupported checks if an error is an unsupported operation error
func IsUnsupported(err error) bool {
	return TypeOf(err) == ErrorTypeUnsupported
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return TypeOf(err) == ErrorTypeInternal
}
