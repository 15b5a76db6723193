package meshio

import (
	"fmt"

	"github.com/pkg/errors"
)

// ImportError is returned when a mesh file cannot be opened, parsed or recognized.
type ImportError struct {
	Filename string
	Err      error
}

func (e *ImportError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("cannot import mesh: %v", e.Err)
	}
	return fmt.Sprintf("cannot import %q: %v", e.Filename, e.Err)
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError wraps err as an ImportError for the given file.
func NewImportError(filename string, err error) error {
	return &ImportError{Filename: filename, Err: err}
}

// IsImportError reports whether err is, or wraps, an ImportError.
func IsImportError(err error) bool {
	var target *ImportError
	return errors.As(err, &target)
}
