package services

import (
	"errors"
	"fmt"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"
)

// ErrorKind classifies a service failure for the HTTP layer.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindValidation
	KindForbidden
	KindConflict
	KindUnexpected
)

// ServiceError is a classified failure with a caller-safe message. The
// wrapped cause (if any) is for logs only and never reaches the client.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func notFoundf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func forbiddenf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func unexpected(message string, cause error) *ServiceError {
	return &ServiceError{Kind: KindUnexpected, Message: message, Err: cause}
}

// InvalidTransitionError reports a status change outside the order lifecycle
// graph.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// KindOf extracts the classification of err, treating invalid transitions and
// repository sentinels as their natural kinds. Anything unclassified is
// Unexpected.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	var transErr *InvalidTransitionError
	if errors.As(err, &transErr) {
		return KindValidation
	}
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return KindNotFound
	case errors.Is(err, repositories.ErrInsufficientStock):
		return KindValidation
	case errors.Is(err, repositories.ErrDuplicateOrderNumber):
		return KindConflict
	}
	return KindUnexpected
}
