package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingIdentifier is returned before any network call when a
	// mutation has neither a business key nor a backend id to address.
	ErrMissingIdentifier = errors.New("missing record identifier")

	// ErrRecordNotFound is returned when no address in the fallback chain
	// matched the record.
	ErrRecordNotFound = errors.New("record not found")

	// ErrQuotationConverted is returned when importing a quotation that was
	// already turned into a sale.
	ErrQuotationConverted = errors.New("quotation already converted")

	// ErrDuplicateKey is returned when a new record reuses the business key
	// or id of a cached record.
	ErrDuplicateKey = errors.New("duplicate record key")

	// ErrEmptyDocument is returned when a document has no line items.
	ErrEmptyDocument = errors.New("document has no line items")
)

// ValidationError wraps a sentinel error with the offending field.
type ValidationError struct {
	Err   error
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
