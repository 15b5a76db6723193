package meshio

import (
	"bufio"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// readOFF reads OFF and COFF files. COFF vertex colors may be integers in [0, 255] or floats in
// [0, 1]; per-face colors are ignored.
func readOFF(r io.Reader) (*raw, error) {
	var lines [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text, _, _ := strings.Cut(scanner.Text(), "#")
		if fields := strings.Fields(text); len(fields) > 0 {
			lines = append(lines, fields)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New("empty off file")
	}

	header := lines[0]
	var colored bool
	switch header[0] {
	case "OFF":
	case "COFF":
		colored = true
	default:
		return nil, errors.Errorf("unsupported off header %q", header[0])
	}
	lines = lines[1:]
	counts := header[1:]
	if len(counts) == 0 {
		if len(lines) == 0 {
			return nil, errors.New("missing element counts")
		}
		counts, lines = lines[0], lines[1:]
	}
	if len(counts) < 2 {
		return nil, errors.New("missing element counts")
	}
	nv, err := strconv.Atoi(counts[0])
	if err != nil {
		return nil, errors.Wrap(err, "vertex count")
	}
	nf, err := strconv.Atoi(counts[1])
	if err != nil {
		return nil, errors.Wrap(err, "face count")
	}
	if nv < 0 || nf < 0 || len(lines) < nv+nf {
		return nil, errors.Errorf("expected %d vertices and %d faces, found %d lines", nv, nf, len(lines))
	}

	res := &raw{}
	for i, fields := range lines[:nv] {
		if len(fields) < 3 {
			return nil, errors.Errorf("vertex %d has %d values", i, len(fields))
		}
		xyz, err := parseFloats(fields[:3])
		if err != nil {
			return nil, errors.Wrapf(err, "vertex %d", i)
		}
		res.addPosition(xyz[0], xyz[1], xyz[2])
		if colored {
			c, err := offColor(fields[3:])
			if err != nil {
				return nil, errors.Wrapf(err, "vertex %d color", i)
			}
			res.ensureColors()
			res.colors[i] = c
		}
	}

	for i, fields := range lines[nv : nv+nf] {
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 0 || len(fields) < n+1 {
			return nil, errors.Errorf("face %d is malformed", i)
		}
		poly := make([]int, n)
		for k := range poly {
			if poly[k], err = strconv.Atoi(fields[k+1]); err != nil {
				return nil, errors.Wrapf(err, "face %d", i)
			}
		}
		if err := res.addPolygon(poly); err != nil {
			return nil, errors.Wrapf(err, "face %d", i)
		}
	}
	return res.finish(), nil
}

func offColor(fields []string) (color.NRGBA, error) {
	if len(fields) < 3 {
		return color.NRGBA{}, errors.New("missing color")
	}
	values, err := parseFloats(fields[:3])
	if err != nil {
		return color.NRGBA{}, err
	}
	if strings.ContainsAny(strings.Join(fields[:3], ""), ".eE") {
		return unitColor(values[0], values[1], values[2]), nil
	}
	var channels [3]uint8
	for c, v := range values {
		channels[c] = uint8(max(0, min(255, v)))
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}, nil
}
