// Package pointcloud defines the ordered point sets produced by surface sampling, along with the
// helpers that hand them back to a host as flat arrays or write them to PCD and LAS files.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// MetaData is data about what's stored in a point set.
type MetaData struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64

	totalX, totalY, totalZ float64
	count                  int
}

// NewMetaData returns meta data for an empty point set.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge updates the meta data with the new point.
func (meta *MetaData) Merge(v r3.Vector) {
	meta.MinX = math.Min(meta.MinX, v.X)
	meta.MinY = math.Min(meta.MinY, v.Y)
	meta.MinZ = math.Min(meta.MinZ, v.Z)
	meta.MaxX = math.Max(meta.MaxX, v.X)
	meta.MaxY = math.Max(meta.MaxY, v.Y)
	meta.MaxZ = math.Max(meta.MaxZ, v.Z)

	meta.totalX += v.X
	meta.totalY += v.Y
	meta.totalZ += v.Z
	meta.count++
}

// Min returns the lower corner of the bounding box.
func (meta MetaData) Min() r3.Vector {
	return r3.Vector{X: meta.MinX, Y: meta.MinY, Z: meta.MinZ}
}

// Max returns the upper corner of the bounding box.
func (meta MetaData) Max() r3.Vector {
	return r3.Vector{X: meta.MaxX, Y: meta.MaxY, Z: meta.MaxZ}
}

// Center returns the mean of the merged points, or the zero vector if there are none.
func (meta MetaData) Center() r3.Vector {
	if meta.count == 0 {
		return r3.Vector{}
	}
	return r3.Vector{X: meta.totalX, Y: meta.totalY, Z: meta.totalZ}.Mul(1 / float64(meta.count))
}

// PointSet is an ordered sequence of points. Duplicates are kept.
type PointSet []r3.Vector

// Size returns the number of points in the set.
func (ps PointSet) Size() int {
	return len(ps)
}

// MetaData returns the bounds and center of the set.
func (ps PointSet) MetaData() MetaData {
	meta := NewMetaData()
	for _, p := range ps {
		meta.Merge(p)
	}
	return meta
}

// Iterate calls fn for every point in order until fn returns false.
func (ps PointSet) Iterate(fn func(i int, p r3.Vector) bool) {
	for i, p := range ps {
		if !fn(i, p) {
			return
		}
	}
}
