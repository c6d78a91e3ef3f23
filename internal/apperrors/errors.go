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

// ErrInsufficientFunds indicates a debit would take an account's available balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrWrongAccountType indicates an account exists but is not of the type the operation requires.
var ErrWrongAccountType = errors.New("wrong account type")

// ErrNotCompleted indicates an operation that requires a COMPLETED transaction was
// attempted against one in a different status.
var ErrNotCompleted = errors.New("transaction is not completed")

// ErrAlreadyReverted indicates a reversal was attempted against a transaction that
// has already been reverted.
var ErrAlreadyReverted = errors.New("transaction already reverted")

// ErrAlreadyProcessed indicates a float request has already reached a terminal status.
var ErrAlreadyProcessed = errors.New("request already processed")

// ErrForbidden indicates the acting caller lacks the privilege for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource is in a state that conflicts with the operation.
var ErrConflict = errors.New("conflicting resource state")

// ErrInternal indicates an unexpected infrastructure failure (store unavailable,
// commit failure). Callers may choose to retry; the errors above must not be retried.
var ErrInternal = errors.New("internal error")

// AppError wraps an infrastructure failure with a status code and context message.
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
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// Is lets errors.Is(err, ErrInternal) match any 5xx AppError.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
