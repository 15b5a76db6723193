package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 50
)

// readSTL reads binary or ascii STL. Every facet gets three fresh vertices; shared corners are only
// merged by clean up.
func readSTL(r io.Reader) (*raw, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) >= stlHeaderSize+4 {
		n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if uint64(stlHeaderSize+4)+uint64(stlFacetSize)*uint64(n) == uint64(len(data)) {
			return readBinarySTL(data[stlHeaderSize+4:], int(n)), nil
		}
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return readASCIISTL(bytes.NewReader(data))
	}
	return nil, errors.New("neither a binary nor an ascii stl file")
}

func readBinarySTL(facets []byte, n int) *raw {
	res := &raw{}
	for i := 0; i < n; i++ {
		facet := facets[i*stlFacetSize:]
		// skip the facet normal
		const start = 3 * 4
		for v := 0; v < 3; v++ {
			var xyz [3]float64
			for c := range xyz {
				xyz[c] = float64(math.Float32frombits(binary.LittleEndian.Uint32(facet[start+12*v+4*c:])))
			}
			res.addPosition(xyz[0], xyz[1], xyz[2])
		}
		base := 3 * i
		res.buf.Triangles = append(res.buf.Triangles, [3]int{base, base + 1, base + 2})
	}
	return res
}

func readASCIISTL(r io.Reader) (*raw, error) {
	res := &raw{}
	scanner := bufio.NewScanner(r)
	line := 0
	corners := 0
	ended := false
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "vertex":
			if len(fields) != 4 {
				return nil, errors.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var xyz [3]float64
			for c := range xyz {
				f, err := strconv.ParseFloat(fields[c+1], 64)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", line)
				}
				xyz[c] = f
			}
			res.addPosition(xyz[0], xyz[1], xyz[2])
			corners++
		case "endloop":
			if corners != 3 {
				return nil, errors.Errorf("line %d: facet with %d corners", line, corners)
			}
			base := len(res.buf.Positions) - 3
			res.buf.Triangles = append(res.buf.Triangles, [3]int{base, base + 1, base + 2})
			corners = 0
		case "endsolid":
			ended = true
		case "solid", "facet", "outer", "endfacet":
		default:
			return nil, errors.Errorf("line %d: unexpected %q", line, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if corners != 0 || !ended {
		return nil, errors.New("unterminated solid")
	}
	return res, nil
}
