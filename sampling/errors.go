package sampling

import (
	"fmt"

	"github.com/pkg/errors"
)

// EmptyMeshError is returned when a mesh has nothing to sample: no live faces, or faces whose
// total area is zero.
type EmptyMeshError struct {
	Faces int
	Area  float64
}

func (e *EmptyMeshError) Error() string {
	if e.Faces == 0 {
		return "cannot sample a mesh without faces"
	}
	return fmt.Sprintf("cannot sample a mesh with %d faces and total area %g", e.Faces, e.Area)
}

// NewEmptyMeshError returns an EmptyMeshError for a mesh with the given live face count and area.
func NewEmptyMeshError(faces int, area float64) error {
	return errors.WithStack(&EmptyMeshError{Faces: faces, Area: area})
}

// IsEmptyMeshError reports whether err is, or wraps, an EmptyMeshError.
func IsEmptyMeshError(err error) bool {
	var target *EmptyMeshError
	return errors.As(err, &target)
}

// InvalidParameterError is returned when a sampling parameter is out of range.
type InvalidParameterError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid sampling parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

// NewInvalidParameterError returns an InvalidParameterError for the named parameter.
func NewInvalidParameterError(name string, value interface{}, reason string) error {
	return errors.WithStack(&InvalidParameterError{Name: name, Value: value, Reason: reason})
}

// IsInvalidParameterError reports whether err is, or wraps, an InvalidParameterError.
func IsInvalidParameterError(err error) bool {
	var target *InvalidParameterError
	return errors.As(err, &target)
}
