package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates that a caller-supplied amount could not be parsed
// as a finite decimal number.
var ErrInvalidAmount = errors.New("amount is not a valid number")

// ErrNonPositiveAmount indicates that an operation requiring a strictly
// positive amount received zero or a negative value.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// ErrAmountUnderflow indicates that a subtraction would have produced a
// negative monetary amount where non-negative was required.
var ErrAmountUnderflow = errors.New("amount underflow")

// ErrSameAccount indicates that a transfer named the same account as both
// source and destination.
var ErrSameAccount = errors.New("source and destination accounts must differ")

// ErrInsufficientFunds indicates that an account balance is too low to cover
// a withdrawal or transfer.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidTransition indicates an illegal loan status transition.
var ErrInvalidTransition = errors.New("invalid loan status transition")

// ErrStorage indicates that the durability layer failed to commit. The
// enclosing unit of work is aborted; nothing is partially applied.
var ErrStorage = errors.New("storage failure")

// AppError wraps an underlying error with an HTTP-ish status code and a
// message suitable for logging.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewStorageError creates an AppError that satisfies errors.Is(err, ErrStorage).
// The original cause is preserved in the message for logging.
func NewStorageError(message string, cause error) *AppError {
	return &AppError{Code: 500, Message: message, Err: fmt.Errorf("%w: %v", ErrStorage, cause)}
}
