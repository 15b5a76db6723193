package mesh

import (
	"fmt"

	"github.com/pkg/errors"
)

// BuildError is returned when a buffer cannot be turned into a mesh. Nothing is repaired: a bad
// index or coordinate always fails the build.
type BuildError struct {
	// Face is the offending face index, or -1 when the problem is not tied to a face.
	Face   int
	Reason string
}

func (e *BuildError) Error() string {
	if e.Face < 0 {
		return "cannot build mesh: " + e.Reason
	}
	return fmt.Sprintf("cannot build mesh: face %d: %s", e.Face, e.Reason)
}

// NewBuildError returns a BuildError that is not tied to a single face.
func NewBuildError(format string, args ...interface{}) error {
	return errors.WithStack(&BuildError{Face: -1, Reason: fmt.Sprintf(format, args...)})
}

// NewFaceBuildError returns a BuildError for the given face.
func NewFaceBuildError(face int, format string, args ...interface{}) error {
	return errors.WithStack(&BuildError{Face: face, Reason: fmt.Sprintf(format, args...)})
}

// IsBuildError reports whether err is, or wraps, a BuildError.
func IsBuildError(err error) bool {
	var target *BuildError
	return errors.As(err, &target)
}
