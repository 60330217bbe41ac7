package frecency

import (
	"errors"
	"fmt"
)

// Standard errors returned by the frecency package.
var (
	// ErrInvalidFormat indicates the persisted usage file could not be parsed.
	ErrInvalidFormat = errors.New("invalid usage data format")

	// ErrNoPath indicates the store has no backing file configured.
	ErrNoPath = errors.New("no storage path configured")
)

// StoreError represents a storage failure during load or save.
type StoreError struct {
	Op   string // Operation that failed (load, save)
	Path string // Backing file path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsFormatError returns true if the error indicates malformed persisted
// data rather than an I/O failure.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}
