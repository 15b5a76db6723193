package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/rvcg/meshsample/logging"
)

// PCDType is the format of a pcd file.
type PCDType int

const (
	// PCDAscii ascii format for pcd.
	PCDAscii PCDType = 0
	// PCDBinary binary format for pcd.
	PCDBinary PCDType = 1
	// PCDCompressed binary format for pcd.
	PCDCompressed PCDType = 2
)

// lasScale is the coordinate resolution lidario writes with. Positions are stored as int32
// multiples of it, offset from the minimum corner.
const lasScale = 0.0001

// NewFromFile returns a point set read in from the given file.
func NewFromFile(fn string, logger logging.Logger) (PointSet, error) {
	switch filepath.Ext(fn) {
	case ".las":
		return NewFromLASFile(fn, logger)
	case ".pcd":
		//nolint:gosec
		f, err := os.Open(fn)
		if err != nil {
			return nil, err
		}
		defer utils.UncheckedErrorFunc(f.Close)
		return ReadPCD(f)
	default:
		return nil, errors.Errorf("do not know how to read file %q", fn)
	}
}

// NewFromLASFile returns a point set from reading a LAS file.
func NewFromLASFile(fn string, logger logging.Logger) (PointSet, error) {
	lf, err := lidario.NewLasFile(fn, "r")
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(lf.Close)

	if lf.Header.PointFormatID != 0 {
		logger.Debugw("ignoring extra LAS point fields", "format", lf.Header.PointFormatID)
	}

	ps := make(PointSet, 0, lf.Header.NumberPoints)
	for i := 0; i < lf.Header.NumberPoints; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, err
		}
		data := p.PointData()
		ps = append(ps, r3.Vector{X: data.X, Y: data.Y, Z: data.Z})
	}
	return ps, nil
}

// WriteToLASFile writes the point set out to a LAS file. Positions are quantized to 1e-4.
func WriteToLASFile(ps PointSet, fn string) (err error) {
	if len(ps) == 0 {
		return errors.New("cannot write an empty point set to a LAS file")
	}
	meta := ps.MetaData()
	span := math.Max(meta.MaxX-meta.MinX, math.Max(meta.MaxY-meta.MinY, meta.MaxZ-meta.MinZ))
	if span/lasScale > math.MaxInt32 {
		return errors.Errorf("point set spans %f which cannot be stored at LAS resolution %g", span, lasScale)
	}

	lf, err := lidario.NewLasFile(fn, "w")
	if err != nil {
		return
	}
	defer func() {
		cerr := lf.Close()
		err = multierr.Combine(err, cerr)
	}()

	if err = lf.AddHeader(lidario.LasHeader{PointFormatID: 0}); err != nil {
		return
	}

	for _, pos := range ps {
		pr0 := &lidario.PointRecord0{
			X: pos.X,
			Y: pos.Y,
			Z: pos.Z,
			BitField: lidario.PointBitField{
				Value: (1) | (1 << 3) | (0 << 6) | (0 << 7),
			},
			ClassBitField: lidario.ClassificationBitField{
				Value: 0,
			},
			PointSourceID: 1,
		}
		if err = lf.AddLasPoint(pr0); err != nil {
			return
		}
	}

	// nolint:nakedret
	return
}

// ToPCD writes the point set in PCD v0.7 format. Binary output stores float32 coordinates.
func ToPCD(ps PointSet, out io.Writer, outputType PCDType) error {
	var dataLine string
	switch outputType {
	case PCDAscii:
		dataLine = "ascii"
	case PCDBinary:
		dataLine = "binary"
	case PCDCompressed:
		return errors.New("compressed PCD not yet implemented")
	default:
		return errors.Errorf("unknown PCD type %d", outputType)
	}

	if _, err := fmt.Fprintf(out, "VERSION .7\n"+
		"FIELDS x y z\n"+
		"SIZE 4 4 4\n"+
		"TYPE F F F\n"+
		"COUNT 1 1 1\n"+
		"WIDTH %d\n"+
		"HEIGHT 1\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n"+
		"DATA %s\n",
		len(ps), len(ps), dataLine); err != nil {
		return err
	}
	return writePCDData(ps, out, outputType)
}

func writePCDData(ps PointSet, out io.Writer, pcdtype PCDType) error {
	buf := make([]byte, 12)
	for _, pos := range ps {
		var err error
		switch pcdtype {
		case PCDBinary:
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(pos.X)))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(pos.Y)))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(pos.Z)))
			_, err = out.Write(buf)
		default:
			_, err = fmt.Fprintf(out, "%s %s %s\n",
				strconv.FormatFloat(pos.X, 'g', -1, 64),
				strconv.FormatFloat(pos.Y, 'g', -1, 64),
				strconv.FormatFloat(pos.Z, 'g', -1, 64))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type pcdFieldType int

const (
	pcdPointOnly  pcdFieldType = 3
	pcdPointColor pcdFieldType = 4
)

type pcdHeader struct {
	fields pcdFieldType
	size   []uint64
	width  uint64
	height uint64
	points uint64
	data   PCDType
}

const pcdCommentChar = "#"

var pcdHeaderFields = []string{"VERSION", "FIELDS", "SIZE", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT", "POINTS", "DATA"}

func parsePCDHeaderLine(line string, index int, header *pcdHeader) error {
	var err error
	name := pcdHeaderFields[index]
	field, value, _ := strings.Cut(line, " ")
	tokens := strings.Split(value, " ")
	if field != name {
		return errors.Errorf("line is supposed to start with %s but is %s", name, line)
	}

	switch name {
	case "VERSION":
		if value != ".7" {
			return errors.Errorf("unsupported pcd version %s", value)
		}
	case "FIELDS":
		switch value {
		case "x y z":
			header.fields = pcdPointOnly
		case "x y z rgb":
			header.fields = pcdPointColor
		default:
			return errors.Errorf("unsupported pcd fields %s", value)
		}
	case "SIZE":
		if len(tokens) != int(header.fields) {
			return errors.New("unexpected number of fields in SIZE line")
		}
		header.size = make([]uint64, len(tokens))
		for i, token := range tokens {
			header.size[i], err = strconv.ParseUint(token, 10, 64)
			if err != nil || header.size[i] != 4 {
				return errors.Errorf("invalid SIZE field %s", token)
			}
		}
	case "TYPE", "COUNT":
		if len(tokens) != int(header.fields) {
			return errors.Errorf("unexpected number of fields in %s line", name)
		}
	case "WIDTH":
		header.width, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid WIDTH field %s", value)
		}
	case "HEIGHT":
		header.height, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid HEIGHT field %s", value)
		}
	case "VIEWPOINT":
		if len(tokens) != 7 {
			return errors.Errorf("unexpected number of fields in VIEWPOINT line. Expected 7, got %d", len(tokens))
		}
	case "POINTS":
		header.points, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid POINTS field %s", value)
		}
		if header.points != header.width*header.height {
			return errors.Errorf("POINTS field %d does not match WIDTH*HEIGHT %d", header.points, header.width*header.height)
		}
	case "DATA":
		switch value {
		case "ascii":
			header.data = PCDAscii
		case "binary":
			header.data = PCDBinary
		case "binary_compressed":
			header.data = PCDCompressed
		default:
			return errors.Errorf("unsupported pcd data type %s", value)
		}
	}

	return nil
}

// ReadPCD reads a PCD v0.7 stream written by ToPCD or any writer with x y z (and optionally rgb)
// float fields. Colors are discarded.
func ReadPCD(inRaw io.Reader) (PointSet, error) {
	header := pcdHeader{}
	in := bufio.NewReader(inRaw)
	headerLineCount := 0
	for headerLineCount < len(pcdHeaderFields) {
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, errors.Wrapf(err, "error reading header line %d", headerLineCount)
		}
		line, _, _ = strings.Cut(line, pcdCommentChar)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := parsePCDHeaderLine(line, headerLineCount, &header); err != nil {
			return nil, err
		}
		headerLineCount++
	}
	switch header.data {
	case PCDAscii:
		return readPCDAscii(in, header)
	case PCDBinary:
		return readPCDBinary(in, header)
	default:
		return nil, errors.New("compressed pcd not yet supported")
	}
}

func readPCDAscii(in *bufio.Reader, header pcdHeader) (PointSet, error) {
	ps := make(PointSet, 0, header.points)
	for i := 0; i < int(header.points); i++ {
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, err
		}
		tokens := strings.Fields(line)
		if len(tokens) != int(header.fields) {
			return nil, errors.Errorf("unexpected number of fields in point %d", i)
		}
		var point [3]float64
		for j := range point {
			point[j], err = strconv.ParseFloat(tokens[j], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid point %d field %s", i, tokens[j])
			}
		}
		ps = append(ps, r3.Vector{X: point[0], Y: point[1], Z: point[2]})
	}
	return ps, nil
}

func readPCDBinary(in *bufio.Reader, header pcdHeader) (PointSet, error) {
	ps := make(PointSet, 0, header.points)
	buf := make([]byte, 4*int(header.fields))
	for i := 0; i < int(header.points); i++ {
		if _, err := io.ReadFull(in, buf); err != nil {
			return nil, errors.Wrapf(err, "reading point %d", i)
		}
		ps = append(ps, r3.Vector{
			X: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))),
			Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))),
			Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))),
		})
	}
	return ps, nil
}
