// Package domain holds the error taxonomy and small value types shared by the
// booking service's aggregates, application services and HTTP layer.
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError so callers can branch without string matching.
type ErrorKind string

const (
	KindValidation               ErrorKind = "validation"
	KindNotFound                 ErrorKind = "not_found"
	KindConflict                 ErrorKind = "conflict"
	KindForbidden                ErrorKind = "forbidden"
	KindInvalidState             ErrorKind = "invalid_state"
	KindRoomUnavailable          ErrorKind = "room_unavailable"
	KindInvalidStatusTransition  ErrorKind = "invalid_status_transition"
	KindInvalidStatusForTransfer ErrorKind = "invalid_status_for_transfer"
	KindPaymentImmutable         ErrorKind = "payment_immutable"
)

// DomainError is the structured error returned by every layer of the service.
// Details carries the offending values so the caller can render a specific message.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is a DomainError of the same kind. It lets the
// sentinel values below be used with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is matching.
var (
	ErrValidation               = &DomainError{Kind: KindValidation}
	ErrNotFound                 = &DomainError{Kind: KindNotFound}
	ErrConflict                 = &DomainError{Kind: KindConflict}
	ErrForbidden                = &DomainError{Kind: KindForbidden}
	ErrInvalidState             = &DomainError{Kind: KindInvalidState}
	ErrRoomUnavailable          = &DomainError{Kind: KindRoomUnavailable}
	ErrInvalidStatusTransition  = &DomainError{Kind: KindInvalidStatusTransition}
	ErrInvalidStatusForTransfer = &DomainError{Kind: KindInvalidStatusForTransfer}
	ErrPaymentImmutable         = &DomainError{Kind: KindPaymentImmutable}
)

// NewError builds a DomainError of the given kind.
func NewError(kind ErrorKind, message string, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Message: message, Details: details}
}

// NewValidationError reports malformed input.
func NewValidationError(message string) *DomainError {
	return NewError(KindValidation, message, nil)
}

// NewValidationErrorWithDetails reports malformed input together with the offending values.
func NewValidationErrorWithDetails(message string, details map[string]any) *DomainError {
	return NewError(KindValidation, message, details)
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return NewError(KindNotFound, fmt.Sprintf("%s %s not found", entity, id), map[string]any{
		"entity": entity,
		"id":     id,
	})
}

// NewConflictError reports a concurrent modification or uniqueness clash.
func NewConflictError(message string) *DomainError {
	return NewError(KindConflict, message, nil)
}

// NewForbiddenError reports an actor lacking permission for an operation.
func NewForbiddenError(message string) *DomainError {
	return NewError(KindForbidden, message, nil)
}

// NewInvalidStateError reports an operation that is not legal in the entity's current state.
func NewInvalidStateError(from, to string) *DomainError {
	return NewError(KindInvalidState, fmt.Sprintf("cannot transition from %s to %s", from, to), map[string]any{
		"from": from,
		"to":   to,
	})
}

// KindOf returns the kind of the first DomainError in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
