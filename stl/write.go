// Package stl reads and writes triangle meshes in the STL format used by
// 3D printing slicers.
package stl

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"

	"github.com/mastercactapus/terrain3d/coord"
	"github.com/mastercactapus/terrain3d/mesh"
)

const (
	headerSize = 80
	recordSize = 4*3*4 + 2
)

// ErrNoFaces is returned when asked to write a mesh without faces.
// No file is created in that case.
var ErrNoFaces = errors.New("mesh has no faces")

// Format selects the STL encoding.
type Format int

const (
	Binary Format = iota
	ASCII
)

func (f Format) String() string {
	if f == ASCII {
		return "ascii"
	}
	return "binary"
}

// Name is written in the ASCII solid line and the binary header.
const Name = "terrain3d"

// Write encodes every face of m to w. Normals are computed from each
// face's winding; degenerate faces get a zero normal.
func Write(w io.Writer, m *mesh.Mesh, format Format) error {
	err := m.Check()
	if err != nil {
		return err
	}
	if len(m.Faces) == 0 {
		return ErrNoFaces
	}

	bw := bufio.NewWriter(w)
	if format == ASCII {
		err = writeASCII(bw, m)
	} else {
		err = writeBinary(bw, m)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func putPoint(buf []byte, p coord.Point) {
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(p.X)))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(p.Y)))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(p.Z)))
}

func writeBinary(w io.Writer, m *mesh.Mesh) error {
	if uint64(len(m.Faces)) > math.MaxUint32 {
		return fmt.Errorf("too many faces for binary STL: %d", len(m.Faces))
	}

	var header [headerSize + 4]byte
	copy(header[:], "binary STL "+Name)
	binary.LittleEndian.PutUint32(header[headerSize:], uint32(len(m.Faces)))
	_, err := w.Write(header[:])
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// attribute byte count stays zero
	var rec [recordSize]byte
	for i := range m.Faces {
		t := m.Triangle(i)
		putPoint(rec[0:], t.Normal())
		putPoint(rec[12:], t.A)
		putPoint(rec[24:], t.B)
		putPoint(rec[36:], t.C)
		_, err = w.Write(rec[:])
		if err != nil {
			return fmt.Errorf("write triangle %d: %w", i, err)
		}
	}
	return nil
}

func writeASCII(w io.Writer, m *mesh.Mesh) error {
	_, err := fmt.Fprintf(w, "solid %s\n", Name)
	if err != nil {
		return err
	}
	for i := range m.Faces {
		t := m.Triangle(i)
		n := t.Normal()
		_, err = fmt.Fprintf(w,
			"  facet normal %e %e %e\n"+
				"    outer loop\n"+
				"      vertex %e %e %e\n"+
				"      vertex %e %e %e\n"+
				"      vertex %e %e %e\n"+
				"    endloop\n"+
				"  endfacet\n",
			n.X, n.Y, n.Z,
			t.A.X, t.A.Y, t.A.Z,
			t.B.X, t.B.Y, t.B.Z,
			t.C.X, t.C.Y, t.C.Z,
		)
		if err != nil {
			return fmt.Errorf("write facet %d: %w", i, err)
		}
	}
	_, err = fmt.Fprintf(w, "endsolid %s\n", Name)
	return err
}

// WriteFile writes m to path. The data is written to a temporary file in
// the same directory and renamed into place, so path is either the
// complete model or left as it was.
func WriteFile(path string, m *mesh.Mesh, format Format) (err error) {
	err = m.Check()
	if err != nil {
		return err
	}
	if len(m.Faces) == 0 {
		return ErrNoFaces
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := ioutil.TempFile(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create '%s': %w", path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	err = Write(f, m, format)
	if err != nil {
		return fmt.Errorf("write '%s': %w", path, err)
	}
	err = f.Sync()
	if err != nil {
		return fmt.Errorf("sync '%s': %w", path, err)
	}
	err = f.Close()
	if err != nil {
		return fmt.Errorf("close '%s': %w", path, err)
	}
	err = os.Chmod(tmp, 0644)
	if err != nil {
		return err
	}
	err = os.Rename(tmp, path)
	if err != nil {
		return fmt.Errorf("rename '%s': %w", path, err)
	}
	return nil
}
