package types

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a field name to what is wrong with it
type FieldErrors map[string]string

// ValidationError reports malformed input. It is surfaced immediately and
// never retried.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error
func NewValidationError(field, problem string) *ValidationError {
	return &ValidationError{Fields: FieldErrors{field: problem}}
}

// NotFoundError reports that one or more requested jobs do not resolve. For
// bulk operations a single missing id fails the whole batch.
type NotFoundError struct {
	MissingIDs []uint
}

func (e *NotFoundError) Error() string {
	if len(e.MissingIDs) == 0 {
		return "job not found"
	}
	parts := make([]string, len(e.MissingIDs))
	for i, id := range e.MissingIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "jobs not found: " + strings.Join(parts, ", ")
}
