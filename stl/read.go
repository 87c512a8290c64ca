package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mastercactapus/terrain3d/coord"
	"github.com/mastercactapus/terrain3d/mesh"
)

// ErrInvalidSTL is returned for data that is neither binary nor ASCII STL.
var ErrInvalidSTL = errors.New("invalid STL data")

// ReadFile reads the STL model at path.
func ReadFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Read decodes binary or ASCII STL. Vertices with identical coordinates
// are merged so faces share indices.
func Read(r io.Reader) (*mesh.Mesh, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(data) >= headerSize+4 {
		n := binary.LittleEndian.Uint32(data[headerSize:])
		if uint64(len(data)) == headerSize+4+uint64(n)*recordSize {
			return readBinary(data[headerSize+4:], int(n)), nil
		}
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return readASCII(data)
	}

	return nil, ErrInvalidSTL
}

type builder struct {
	m     *mesh.Mesh
	index map[coord.Point]int
}

func newBuilder(faces int) *builder {
	return &builder{
		m: &mesh.Mesh{
			Faces: make([]mesh.Face, 0, faces),
		},
		index: make(map[coord.Point]int, faces/2),
	}
}

func (b *builder) vertex(p coord.Point) int {
	idx, ok := b.index[p]
	if !ok {
		idx = len(b.m.Vertices)
		b.m.Vertices = append(b.m.Vertices, p)
		b.index[p] = idx
	}
	return idx
}

func (b *builder) face(t [3]coord.Point) {
	b.m.Faces = append(b.m.Faces, mesh.Face{b.vertex(t[0]), b.vertex(t[1]), b.vertex(t[2])})
}

func getPoint(buf []byte) coord.Point {
	return coord.Point{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))),
	}
}

func readBinary(data []byte, n int) *mesh.Mesh {
	b := newBuilder(n)
	for i := 0; i < n; i++ {
		rec := data[i*recordSize:]

		// skip normal
		b.face([3]coord.Point{
			getPoint(rec[12:]),
			getPoint(rec[24:]),
			getPoint(rec[36:]),
		})
	}
	return b.m
}

func readASCII(data []byte) (*mesh.Mesh, error) {
	b := newBuilder(0)
	s := bufio.NewScanner(bytes.NewReader(data))

	var (
		tri  [3]coord.Point
		n    int
		line int
	)
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "vertex":
			if len(fields) != 4 || n == 3 {
				return nil, fmt.Errorf("line %d: bad vertex: %w", line, ErrInvalidSTL)
			}
			var vals [3]float64
			for i := range vals {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrInvalidSTL)
				}
				vals[i] = v
			}
			tri[n] = coord.Point{X: vals[0], Y: vals[1], Z: vals[2]}
			n++
		case "endloop":
			if n != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices: %w", line, n, ErrInvalidSTL)
			}
			b.face(tri)
			n = 0
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return b.m, nil
}
