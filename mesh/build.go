package mesh

import (
	"github.com/rvcg/meshsample/spatialmath"
)

type buildOptions struct {
	attrs Attributes
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithAttributes makes the built mesh carry the given optional vertex attributes. Their values
// start zeroed and are filled in by the caller.
func WithAttributes(attrs Attributes) BuildOption {
	return func(o *buildOptions) {
		o.attrs |= attrs
	}
}

// Build turns a buffer into a mesh with one vertex per position and one face per triangle, in
// buffer order. Every index must lie in [0, len(buf.Positions)) and every coordinate must be
// finite, otherwise a *BuildError is returned.
func Build(buf Buffer, opts ...BuildOption) (*Mesh, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	vertices := make([]Vertex, len(buf.Positions))
	for i, p := range buf.Positions {
		if !spatialmath.IsFinite(p) {
			return nil, NewBuildError("vertex %d has non-finite position %v", i, p)
		}
		vertices[i].Position = p
	}

	faces := make([]Face, len(buf.Triangles))
	for i, t := range buf.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= len(vertices) {
				return nil, NewFaceBuildError(i, "vertex index %d out of range [0, %d)", idx, len(vertices))
			}
		}
		faces[i].V = t
	}

	return &Mesh{Vertices: vertices, Faces: faces, attrs: o.attrs}, nil
}

// BuildFromFlat is BufferFromFlat followed by Build.
func BuildFromFlat(vb []float64, it []int, opts ...BuildOption) (*Mesh, error) {
	buf, err := BufferFromFlat(vb, it)
	if err != nil {
		return nil, err
	}
	return Build(buf, opts...)
}
