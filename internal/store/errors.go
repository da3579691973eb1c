package store

import (
	"fmt"
	"strings"
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// OrderMismatchError is returned when a proposed order is not a permutation of
// the stored folders, usually because another process added or removed one.
type OrderMismatchError struct {
	Missing   []string
	Unknown   []string
	Duplicate []string
}

func (e OrderMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ","))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "unknown "+strings.Join(e.Unknown, ","))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate "+strings.Join(e.Duplicate, ","))
	}
	return "order does not match stored folders: " + strings.Join(parts, "; ")
}
