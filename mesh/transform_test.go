package mesh

import (
	"testing"

	"github.com/mastercactapus/terrain3d/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bumpy() *Mesh {
	return &Mesh{
		Vertices: []coord.Point{
			{X: 1000, Y: 2000, Z: 5},
			{X: 1400, Y: 2000, Z: 40},
			{X: 1400, Y: 2300, Z: 12},
			{X: 1000, Y: 2300, Z: -3},
		},
		Faces: []Face{{0, 1, 2}, {0, 2, 3}},
	}
}

func TestScaleToSize(t *testing.T) {
	m := bumpy()
	s, err := ScaleToSize(m, 100)
	require.NoError(t, err)

	assert.InEpsilon(t, 100, s.Bounds().MaxDimension(), 1e-6)
	assert.Equal(t, len(m.Faces), len(s.Faces))

	c := s.Centroid()
	assert.InDelta(t, 0, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)
	assert.InDelta(t, 0, c.Z, 1e-9)

	// the input is untouched
	assert.Equal(t, 1000.0, m.Vertices[0].X)
}

func TestScaleToSize_Degenerate(t *testing.T) {
	_, err := ScaleToSize(&Mesh{}, 100)
	assert.Equal(t, ErrDegenerate, err)

	p := coord.Point{X: 1, Y: 1, Z: 1}
	_, err = ScaleToSize(&Mesh{Vertices: []coord.Point{p, p, p}, Faces: []Face{{0, 1, 2}}}, 100)
	assert.Equal(t, ErrDegenerate, err)

	_, err = ScaleToSize(bumpy(), 0)
	assert.Equal(t, ErrInvalidSize, err)
}

func TestAddBase(t *testing.T) {
	m := bumpy()
	b, err := AddBase(m, 2)
	require.NoError(t, err)

	assert.Len(t, b.Vertices, len(m.Vertices)+4)
	assert.Len(t, b.Faces, len(m.Faces)+2)
	assert.NoError(t, b.Check())

	for _, v := range b.Vertices[len(m.Vertices):] {
		assert.Equal(t, -5.0, v.Z)
	}
	bounds := m.Bounds()
	assert.Equal(t, coord.Point{X: bounds.Min.X, Y: bounds.Min.Y, Z: -5}, b.Vertices[4])
	assert.Equal(t, coord.Point{X: bounds.Max.X, Y: bounds.Max.Y, Z: -5}, b.Vertices[6])

	// original geometry is unchanged
	assert.Equal(t, m.Vertices, b.Vertices[:len(m.Vertices)])
	assert.Equal(t, m.Faces, b.Faces[:len(m.Faces)])

	_, err = AddBase(&Mesh{}, 2)
	assert.Equal(t, ErrEmpty, err)
	_, err = AddBase(m, -1)
	assert.Equal(t, ErrInvalidSize, err)
}

func TestTranslate(t *testing.T) {
	m := square()
	tr := Translate(m, coord.Point{X: 1, Y: -1, Z: 2})
	assert.Equal(t, coord.Point{X: 1, Y: -1, Z: 2}, tr.Vertices[0])
	assert.Equal(t, coord.Point{X: 0, Y: 0, Z: 0}, m.Vertices[0])
}
