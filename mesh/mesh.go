package mesh

import (
	"errors"
	"fmt"

	"github.com/mastercactapus/terrain3d/coord"
)

var (
	// ErrIndexOutOfRange is returned when a face references a vertex
	// that does not exist.
	ErrIndexOutOfRange = errors.New("face index out of range")

	// ErrEmpty is returned by operations that need at least one vertex.
	ErrEmpty = errors.New("mesh has no vertices")
)

// Face is a triangle referencing three vertices by index. The order
// of the indices is the winding order and determines the normal.
type Face [3]int

// Mesh is an indexed triangle mesh.
//
// A zero Mesh is valid and means nothing has been generated yet.
type Mesh struct {
	Vertices []coord.Point
	Faces    []Face
}

// New creates a Mesh from the provided vertices and faces, returning an
// error if any face references a missing vertex.
func New(vertices []coord.Point, faces []Face) (*Mesh, error) {
	m := &Mesh{Vertices: vertices, Faces: faces}
	err := m.Check()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Check will validate that every face index is within the vertex list.
func (m *Mesh) Check() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d: vertex %d of %d: %w", i, idx, n, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// InvalidFaces returns the number of faces with an out-of-range index.
func (m *Mesh) InvalidFaces() int {
	var count int
	n := len(m.Vertices)
	for _, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				count++
				break
			}
		}
	}
	return count
}

// Empty returns true if the mesh has no vertices and no faces.
func (m *Mesh) Empty() bool {
	return len(m.Vertices) == 0 && len(m.Faces) == 0
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: make([]coord.Point, len(m.Vertices)),
		Faces:    make([]Face, len(m.Faces)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Faces, m.Faces)
	return c
}

// Triangle returns the geometry of face i.
//
// The mesh must pass Check.
func (m *Mesh) Triangle(i int) coord.Triangle {
	f := m.Faces[i]
	return coord.Triangle{
		A: m.Vertices[f[0]],
		B: m.Vertices[f[1]],
		C: m.Vertices[f[2]],
	}
}

// Bounds returns the axis-aligned bounding box of all vertices.
func (m *Mesh) Bounds() coord.Box {
	return coord.BoxOf(m.Vertices)
}

// SurfaceArea is the sum of all face areas.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for i := range m.Faces {
		area += m.Triangle(i).Area()
	}
	return area
}

// Volume approximates the enclosed volume by summing the magnitude of the
// tetrahedron each face forms with the origin. It is only meaningful for
// closed shells.
func (m *Mesh) Volume() float64 {
	var vol float64
	for i := range m.Faces {
		v := m.Triangle(i).SignedVolume()
		if v < 0 {
			v = -v
		}
		vol += v
	}
	return vol
}

// MinEdgeLength returns the shortest face edge, or false if
// there are no faces.
func (m *Mesh) MinEdgeLength() (bool, float64) {
	if len(m.Faces) == 0 {
		return false, 0
	}
	min := m.Triangle(0).EdgeLengths()[0]
	for i := range m.Faces {
		for _, l := range m.Triangle(i).EdgeLengths() {
			if l < min {
				min = l
			}
		}
	}
	return true, min
}

// ElevationAt will give the Z-coordinate of the surface at (x,y) using
// the first face whose XY projection contains the point.
func (m *Mesh) ElevationAt(x, y float64) (bool, float64) {
	if len(m.Faces) == 0 || !m.Bounds().ContainsXY(x, y) {
		return false, 0
	}
	for i := range m.Faces {
		t := m.Triangle(i)
		if t.Normal().Z == 0 {
			// vertical or degenerate, no single Z
			continue
		}
		if !t.ContainsXY(x, y) {
			continue
		}
		return true, t.Z(x, y)
	}

	return false, 0
}

// Stats summarizes the mesh geometry.
type Stats struct {
	Vertices    int         `json:"num_vertices"`
	Faces       int         `json:"num_faces"`
	BoundsMin   coord.Point `json:"bbox_min"`
	BoundsMax   coord.Point `json:"bbox_max"`
	SurfaceArea float64     `json:"surface_area"`
	Topology    Topology    `json:"topology"`
}

// Stats computes summary statistics. The mesh must pass Check.
func (m *Mesh) Stats() Stats {
	b := m.Bounds()
	return Stats{
		Vertices:    len(m.Vertices),
		Faces:       len(m.Faces),
		BoundsMin:   b.Min,
		BoundsMax:   b.Max,
		SurfaceArea: m.SurfaceArea(),
		Topology:    m.Topology(),
	}
}
