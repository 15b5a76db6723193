package meshio

import (
	"bufio"
	"bytes"
	"image/color"
	"io"
	"strings"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/rvcg/meshsample/utils"
)

var (
	plyColorNames = [][]string{
		{"red", "green", "blue"},
		{"diffuse_red", "diffuse_green", "diffuse_blue"},
	}
	plyTexCoordNames = [][]string{
		{"s", "t"},
		{"u", "v"},
		{"texture_u", "texture_v"},
	}
	plyFaceListNames = [][]string{{"vertex_indices"}, {"vertex_index"}}
)

// readPLY reads an ascii PLY file. Binary PLY files are rejected up front. The parser panics on
// malformed input, which is turned into an error here.
func readPLY(r io.Reader) (res *raw, err error) {
	format, r := plyFormat(r)
	if format != "" && format != "ascii" {
		return nil, errors.Errorf("%s ply is not supported, only ascii ply can be read", format)
	}
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = errors.Errorf("malformed ply (only ascii ply is supported): %v", p)
		}
	}()

	ply := goply.New(r)
	res = &raw{}

	vertices := ply.Elements("vertex")
	colorNames := firstPresent(vertices, plyColorNames)
	texNames := firstPresent(vertices, plyTexCoordNames)
	for i, v := range vertices {
		var xyz [3]float64
		for c, name := range []string{"x", "y", "z"} {
			value, ok := v[name]
			if !ok {
				return nil, errors.Errorf("vertex %d has no %s", i, name)
			}
			if xyz[c], err = cast.ToFloat64E(value); err != nil {
				return nil, errors.Wrapf(err, "vertex %d %s", i, name)
			}
		}
		res.addPosition(xyz[0], xyz[1], xyz[2])

		if colorNames != nil {
			c, err := plyColor(v, colorNames)
			if err != nil {
				return nil, errors.Wrapf(err, "vertex %d color", i)
			}
			res.ensureColors()
			res.colors[i] = c
		}
		if texNames != nil {
			u, err := cast.ToFloat64E(v[texNames[0]])
			if err != nil {
				return nil, errors.Wrapf(err, "vertex %d texture coordinate", i)
			}
			w, err := cast.ToFloat64E(v[texNames[1]])
			if err != nil {
				return nil, errors.Wrapf(err, "vertex %d texture coordinate", i)
			}
			res.ensureTexCoords()
			res.texCoords[i] = r2.Point{X: u, Y: w}
		}
	}

	for i, f := range ply.Elements("face") {
		names := firstPresent([]goply.PlyElement{f}, plyFaceListNames)
		if names == nil {
			return nil, errors.Errorf("face %d has no vertex index list", i)
		}
		list, err := utils.AssertType[[]interface{}](f[names[0]])
		if err != nil {
			return nil, errors.Wrapf(err, "face %d", i)
		}
		poly := make([]int, len(list))
		for k, idx := range list {
			if poly[k], err = cast.ToIntE(idx); err != nil {
				return nil, errors.Wrapf(err, "face %d", i)
			}
		}
		if err := res.addPolygon(poly); err != nil {
			return nil, errors.Wrapf(err, "face %d", i)
		}
	}
	return res.finish(), nil
}

// firstPresent returns the first candidate set of property names the vertices carry, or nil.
func firstPresent(elems []goply.PlyElement, candidates [][]string) []string {
	if len(elems) == 0 {
		return nil
	}
	for _, names := range candidates {
		if hasAll(elems[0], names) {
			return names
		}
	}
	return nil
}

func hasAll(elem goply.PlyElement, names []string) bool {
	for _, name := range names {
		if _, ok := elem[name]; !ok {
			return false
		}
	}
	return true
}

// plyColor reads integer channels as 0-255 and floating point channels as 0-1.
func plyColor(elem goply.PlyElement, names []string) (color.NRGBA, error) {
	var channels [3]uint8
	for c, name := range names {
		value := elem[name]
		switch value.(type) {
		case float32, float64:
			f, err := cast.ToFloat64E(value)
			if err != nil {
				return color.NRGBA{}, err
			}
			channels[c] = unitChannel(f)
		default:
			n, err := cast.ToIntE(value)
			if err != nil {
				return color.NRGBA{}, err
			}
			channels[c] = uint8(max(0, min(255, n)))
		}
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}, nil
}

// plyFormat reads the header of a PLY stream up to its format line and returns the format named
// there, or "" when the header ends without one. The returned reader replays the whole stream.
func plyFormat(r io.Reader) (string, io.Reader) {
	br := bufio.NewReader(r)
	var header bytes.Buffer
	for {
		line, err := br.ReadString('\n')
		header.WriteString(line)
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "format" {
			return fields[1], io.MultiReader(&header, br)
		}
		if err != nil || (len(fields) > 0 && fields[0] == "end_header") {
			return "", io.MultiReader(&header, br)
		}
	}
}
