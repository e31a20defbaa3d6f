package core

import (
	"errors"
	"fmt"
)

// Error kinds. Callers test with errors.Is; the web layer maps each kind
// to a status code.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")

	// Batch-level upload failures.
	ErrUnsupportedFile = errors.New("invalid file type")
	ErrEmptyFile       = errors.New("empty file")
	ErrDecode          = errors.New("error reading file")
)

var (
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
	ErrClientNotFound  = fmt.Errorf("client %w", ErrNotFound)
	ErrDuplicateClient = fmt.Errorf("client with this customer code %w", ErrConflict)
)

// IngestError reports a persistence failure that rolled back a whole upload.
type IngestError struct {
	Entity   Entity
	FileName string
	Err      error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("upload of %s from %q rolled back: %v", e.Entity, e.FileName, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}
