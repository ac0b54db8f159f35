package custom_error

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrHistoryEmpty  = errors.New("history is empty")
	ErrHistoryIndex  = errors.New("history index out of range")
	ErrMissingFields = errors.New("missing required fields")
)

// InvalidCategoryError is returned before any database access when a category
// is not one of the whitelisted asset tables.
type InvalidCategoryError struct {
	Value string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid asset category %q", e.Value)
}

// UnresolvedIdentifierError means no strategy mapped the identifier to a row.
type UnresolvedIdentifierError struct {
	Category   string
	Identifier string
	Tried      []string
}

func (e *UnresolvedIdentifierError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("could not resolve %s id %q", e.Category, e.Identifier)
	}
	return fmt.Sprintf("could not resolve %s id %q (tried columns: %s)",
		e.Category, e.Identifier, strings.Join(e.Tried, ", "))
}

// TransactionError wraps the failure of a multi-statement write that was rolled back.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s rolled back: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
