package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an entity is absent or soft-deleted. The two
	// cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when input violates a field constraint.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidOperation is reserved for business-rule violations.
	ErrInvalidOperation = errors.New("invalid operation")
)

// NotFoundError names the missing entity.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// FieldError describes one failed field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed constraint of one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalidField(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
