package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	// ErrGroupsNotAvailable covers both "never generated" and "persisted
	// record rejected" (schema mismatch, malformed structure). The caller
	// reacts the same way to both: regenerate.
	ErrGroupsNotAvailable = errors.New("semantic groups not available")
	ErrInvalidQuery       = errors.New("invalid query")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTemporary          = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
