// Package meshio reads triangle meshes from PLY, STL, OBJ and OFF files and prepares them for
// sampling: optional normals, colors and clean up.
package meshio

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/rvcg/meshsample/logging"
	"github.com/rvcg/meshsample/mesh"
)

// Format is a mesh file format.
type Format string

// The supported formats.
const (
	FormatPLY Format = "ply"
	FormatSTL Format = "stl"
	FormatOBJ Format = "obj"
	FormatOFF Format = "off"
)

var readers = map[Format]func(io.Reader) (*raw, error){
	FormatPLY: readPLY,
	FormatSTL: readSTL,
	FormatOBJ: readOBJ,
	FormatOFF: readOFF,
}

// FormatFromFilename picks the format from the file extension, ignoring case.
func FormatFromFilename(fn string) (Format, error) {
	format := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(fn)), "."))
	if _, ok := readers[format]; !ok {
		return "", errors.Errorf("unsupported mesh format %q", filepath.Ext(fn))
	}
	return format, nil
}

// raw is what a format reader produces before the mesh is built. colors and texCoords are nil
// when the file has none, otherwise they have one entry per position.
type raw struct {
	buf       mesh.Buffer
	colors    []color.NRGBA
	texCoords []r2.Point
}

func (r *raw) addPosition(x, y, z float64) {
	r.buf.Positions = append(r.buf.Positions, r3.Vector{X: x, Y: y, Z: z})
}

// ensureColors allocates white colors for every position read so far.
func (r *raw) ensureColors() {
	for len(r.colors) < len(r.buf.Positions) {
		r.colors = append(r.colors, white)
	}
}

func (r *raw) ensureTexCoords() {
	for len(r.texCoords) < len(r.buf.Positions) {
		r.texCoords = append(r.texCoords, r2.Point{})
	}
}

// finish pads colors and texture coordinates, if the file has any, to one per position.
func (r *raw) finish() *raw {
	if r.colors != nil {
		r.ensureColors()
	}
	if r.texCoords != nil {
		r.ensureTexCoords()
	}
	return r
}

// addPolygon fans a polygon out into triangles around its first corner.
func (r *raw) addPolygon(poly []int) error {
	if len(poly) < 3 {
		return errors.Errorf("polygon with %d corners", len(poly))
	}
	for i := 1; i+1 < len(poly); i++ {
		r.buf.Triangles = append(r.buf.Triangles, [3]int{poly[0], poly[i], poly[i+1]})
	}
	return nil
}

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Result is an imported mesh along with what happened to it on the way in.
type Result struct {
	Mesh *mesh.Mesh
	// Cleaned counts what clean up removed; it is zero when clean up was not requested.
	Cleaned mesh.CleanReport
	// NormalsUpdated is false when normals were not requested or the mesh has no faces.
	NormalsUpdated bool
}

// Import reads the mesh file fn. The format follows the file extension.
func Import(fn string, logger logging.Logger, opts ...Option) (*Result, error) {
	format, err := FormatFromFilename(fn)
	if err != nil {
		return nil, NewImportError(fn, err)
	}
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, NewImportError(fn, err)
	}
	defer utils.UncheckedErrorFunc(f.Close)

	return read(fn, f, format, logger, opts...)
}

// Read reads a mesh of the given format from r.
func Read(r io.Reader, format Format, logger logging.Logger, opts ...Option) (*Result, error) {
	return read("", r, format, logger, opts...)
}

func read(name string, r io.Reader, format Format, logger logging.Logger, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger = logger.Sublogger("meshio").WithFields("format", string(format))
	if name != "" {
		logger = logger.WithFields("file", name)
	}

	reader, ok := readers[format]
	if !ok {
		return nil, NewImportError(name, errors.Errorf("unsupported mesh format %q", format))
	}
	parsed, err := reader(r)
	if err != nil {
		return nil, NewImportError(name, errors.Wrapf(err, "reading %s", format))
	}

	var attrs mesh.Attributes
	if o.color {
		attrs |= mesh.AttrColor | mesh.AttrTexCoord
	}
	m, err := mesh.Build(parsed.buf, mesh.WithAttributes(attrs))
	if err != nil {
		return nil, NewImportError(name, err)
	}
	if o.color {
		for i := range m.Vertices {
			m.Vertices[i].Color = white
			if parsed.colors != nil {
				m.Vertices[i].Color = parsed.colors[i]
			}
			if parsed.texCoords != nil {
				m.Vertices[i].TexCoord = parsed.texCoords[i]
			}
		}
	}
	logger.Debugw("read mesh", "vertices", len(m.Vertices), "faces", len(m.Faces))

	res := &Result{Mesh: m}
	if o.normals {
		res.NormalsUpdated = m.UpdateVertexNormals()
		if !res.NormalsUpdated {
			logger.Debug("mesh has no faces, not computing normals")
		}
	}
	if o.clean {
		res.Cleaned = m.Clean()
		if res.Cleaned.Any() {
			logger.Infow("cleaned mesh",
				"duplicateVertices", res.Cleaned.DuplicateVertices,
				"unreferencedVertices", res.Cleaned.UnreferencedVertices,
				"duplicateFaces", res.Cleaned.DuplicateFaces)
		}
	}
	return res, nil
}
