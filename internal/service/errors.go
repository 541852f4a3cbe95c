package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindRoleViolation
	KindNotFound
	KindForbidden
	KindInvalidTransition
	KindUnsupportedFileType
	KindFileTooLarge
	KindStorageFailure
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRoleViolation:
		return "role violation"
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidTransition:
		return "invalid transition"
	case KindUnsupportedFileType:
		return "unsupported file type"
	case KindFileTooLarge:
		return "file too large"
	case KindStorageFailure:
		return "storage failure"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Error carries the kind plus the entity it concerns. The route layer decides
// the wording shown to users.
type Error struct {
	Kind   Kind
	Entity string
	ID     string
	Field  string
	Err    error
}

var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrRoleViolation       = &Error{Kind: KindRoleViolation}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrInvalidTransition   = &Error{Kind: KindInvalidTransition}
	ErrUnsupportedFileType = &Error{Kind: KindUnsupportedFileType}
	ErrFileTooLarge        = &Error{Kind: KindFileTooLarge}
	ErrStorageFailure      = &Error{Kind: KindStorageFailure}
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
		if e.ID != "" {
			fmt.Fprintf(&b, " %s", e.ID)
		}
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of the attached context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newValidationError(field string, err error) *Error {
	return &Error{Kind: KindValidation, Field: field, Err: err}
}

func newNotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

func newForbidden(entity, id string) *Error {
	return &Error{Kind: KindForbidden, Entity: entity, ID: id}
}

func newRoleViolation(entity, id, field string) *Error {
	return &Error{Kind: KindRoleViolation, Entity: entity, ID: id, Field: field}
}

// wrapStoreError maps a collaborator error into the closed set of kinds.
// Errors that already carry a kind pass through unchanged.
func wrapStoreError(err error, entity, id string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newNotFound(entity, id)
	}

	return &Error{Kind: KindStorageFailure, Entity: entity, ID: id, Err: err}
}
