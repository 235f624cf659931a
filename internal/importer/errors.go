package importer

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by loads and rollbacks. Callers match them with
// errors.Is; the concrete error carries the diagnostic text.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyLoaded = errors.New("already loaded")
	ErrMalformedRow  = errors.New("malformed row")
	ErrStore         = errors.New("store error")
	ErrFileIO        = errors.New("file io error")
)

// RowError locates a failure at a 1-based line of the source file.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRow, fmt.Sprintf(format, args...))
}
