package mesh

import (
	"errors"
	"math"

	"github.com/mastercactapus/terrain3d/coord"
)

var (
	// ErrDegenerate is returned when a mesh has no extent to scale.
	ErrDegenerate = errors.New("cannot scale degenerate mesh")

	// ErrInvalidSize is returned for a non-positive or non-finite target.
	ErrInvalidSize = errors.New("invalid size")
)

// Translate returns a copy of m with every vertex shifted by offset.
func Translate(m *Mesh, offset coord.Point) *Mesh {
	c := m.Clone()
	for i := range c.Vertices {
		c.Vertices[i] = c.Vertices[i].Add(offset)
	}
	return c
}

// Centroid is the mean of all vertex positions.
func (m *Mesh) Centroid() coord.Point {
	var sum coord.Point
	if len(m.Vertices) == 0 {
		return sum
	}
	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}
	return sum.Div(float64(len(m.Vertices)))
}

// ScaleToSize returns a copy of m centered on its centroid and uniformly
// scaled so the largest bounding box dimension equals targetSize.
func ScaleToSize(m *Mesh, targetSize float64) (*Mesh, error) {
	if !(targetSize > 0) || math.IsInf(targetSize, 0) {
		return nil, ErrInvalidSize
	}
	if len(m.Vertices) == 0 {
		return nil, ErrDegenerate
	}
	current := m.Bounds().MaxDimension()
	if !(current > 0) {
		return nil, ErrDegenerate
	}
	factor := targetSize / current

	c := Translate(m, m.Centroid().Mul(-1))
	for i := range c.Vertices {
		c.Vertices[i] = c.Vertices[i].Mul(factor)
	}
	return c, nil
}

// AddBase returns a copy of m with a flat rectangle appended thickness
// below the lowest vertex, spanning the XY bounds of the mesh.
//
// The plate is not joined to the surface above it; slicers treat it as a
// separate, thin body.
func AddBase(m *Mesh, thickness float64) (*Mesh, error) {
	if len(m.Vertices) == 0 {
		return nil, ErrEmpty
	}
	if thickness < 0 || math.IsNaN(thickness) || math.IsInf(thickness, 0) {
		return nil, ErrInvalidSize
	}

	b := m.Bounds()
	z := b.Min.Z - thickness

	c := m.Clone()
	n := len(c.Vertices)
	c.Vertices = append(c.Vertices,
		coord.Point{X: b.Min.X, Y: b.Min.Y, Z: z},
		coord.Point{X: b.Max.X, Y: b.Min.Y, Z: z},
		coord.Point{X: b.Max.X, Y: b.Max.Y, Z: z},
		coord.Point{X: b.Min.X, Y: b.Max.Y, Z: z},
	)
	c.Faces = append(c.Faces,
		Face{n, n + 1, n + 2},
		Face{n, n + 2, n + 3},
	)
	return c, nil
}
