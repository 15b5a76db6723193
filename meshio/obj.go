package meshio

import (
	"bufio"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// readOBJ reads the geometry of a Wavefront OBJ file: positions with optional trailing rgb
// colors in [0, 1], texture coordinates and polygonal faces. Normals, groups and materials are
// ignored. A vertex takes the texture coordinate of the last face corner that names one.
func readOBJ(r io.Reader) (*raw, error) {
	res := &raw{}
	var texCoords []r2.Point
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text, _, _ := strings.Cut(scanner.Text(), "#")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			values, err := parseFloats(fields[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			if len(values) != 3 && len(values) != 6 {
				return nil, errors.Errorf("line %d: vertex with %d values", line, len(values))
			}
			res.addPosition(values[0], values[1], values[2])
			if len(values) == 6 {
				res.ensureColors()
				res.colors[len(res.colors)-1] = unitColor(values[3], values[4], values[5])
			}
		case "vt":
			values, err := parseFloats(fields[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			if len(values) < 2 {
				return nil, errors.Errorf("line %d: texture coordinate with %d values", line, len(values))
			}
			texCoords = append(texCoords, r2.Point{X: values[0], Y: values[1]})
		case "f":
			poly := make([]int, 0, len(fields)-1)
			for _, corner := range fields[1:] {
				refs := strings.Split(corner, "/")
				v, err := objIndex(refs[0], len(res.buf.Positions))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", line)
				}
				poly = append(poly, v)
				if len(refs) > 1 && refs[1] != "" {
					t, err := objIndex(refs[1], len(texCoords))
					if err != nil {
						return nil, errors.Wrapf(err, "line %d", line)
					}
					if t < 0 || t >= len(texCoords) || v < 0 || v >= len(res.buf.Positions) {
						return nil, errors.Errorf("line %d: corner %q out of range", line, corner)
					}
					res.ensureTexCoords()
					res.texCoords[v] = texCoords[t]
				}
			}
			if err := res.addPolygon(poly); err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res.finish(), nil
}

// objIndex turns a 1-based, or negative relative, OBJ index into a 0-based one.
func objIndex(token string, count int) (int, error) {
	i, err := strconv.Atoi(token)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		return i - 1, nil
	case i < 0:
		return count + i, nil
	default:
		return 0, errors.New("index 0 is not valid in obj")
	}
}

func parseFloats(tokens []string) ([]float64, error) {
	values := make([]float64, len(tokens))
	for i, token := range tokens {
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, err
		}
		values[i] = f
	}
	return values, nil
}

func unitColor(r, g, b float64) color.NRGBA {
	return color.NRGBA{R: unitChannel(r), G: unitChannel(g), B: unitChannel(b), A: 255}
}

// unitChannel maps [0, 1] onto [0, 255], clamping.
func unitChannel(f float64) uint8 {
	return uint8(math.Round(255 * math.Max(0, math.Min(1, f))))
}
