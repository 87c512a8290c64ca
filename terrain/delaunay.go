package terrain

import (
	"errors"
	"fmt"

	"github.com/fogleman/delaunay"
	"github.com/mastercactapus/terrain3d/mesh"
)

var (
	// ErrInsufficientPoints is returned when fewer than 3 samples remain.
	ErrInsufficientPoints = errors.New("need at least 3 points for triangulation")

	// ErrInvalidDecimation is returned when Config.Decimation < 1.
	ErrInvalidDecimation = errors.New("decimation must be at least 1")
)

// NewDelaunayMesh triangulates the non-missing samples of every
// cfg.Decimation-th row and column using a 2D Delaunay triangulation of
// their longitude and latitude. Elevation only sets the Z of each vertex.
//
// Faces are wound counter-clockwise in the XY plane. Inputs with no
// triangulation (e.g. all points collinear) return the selected vertices
// with no faces.
func NewDelaunayMesh(g *Grid, cfg Config) (*mesh.Mesh, error) {
	err := g.check()
	if err != nil {
		return nil, err
	}
	if cfg.Decimation < 1 {
		return nil, ErrInvalidDecimation
	}
	l := cfg.logger()
	rows, cols := g.Shape()

	var points2d []delaunay.Point
	m := &mesh.Mesh{}
	for i := 0; i < rows; i += cfg.Decimation {
		for j := 0; j < cols; j += cfg.Decimation {
			if !g.Valid(i, j) {
				continue
			}
			points2d = append(points2d, delaunay.Point{X: g.Lon[i][j], Y: g.Lat[i][j]})
			m.Vertices = append(m.Vertices, cfg.vertex(g.Lon[i][j], g.Lat[i][j], g.Elevation[i][j]))
		}
	}
	if len(points2d) < 3 {
		return nil, ErrInsufficientPoints
	}
	l.Printf("triangulating %d points", len(points2d))

	tri, err := triangulate(points2d)
	if err != nil {
		l.Printf("no triangulation for %d points: %v", len(points2d), err)
		return m, nil
	}

	m.Faces = make([]mesh.Face, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		a, b, c := tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]
		if orient(points2d[a], points2d[b], points2d[c]) < 0 {
			b, c = c, b
		}
		m.Faces = append(m.Faces, mesh.Face{a, b, c})
	}
	l.Printf("delaunay mesh: %d vertices, %d faces", len(m.Vertices), len(m.Faces))

	return m, nil
}

// triangulate converts a panic from degenerate input into an error.
func triangulate(points []delaunay.Point) (tri *delaunay.Triangulation, err error) {
	defer func() {
		if r := recover(); r != nil {
			tri, err = nil, fmt.Errorf("triangulate: %v", r)
		}
	}()
	return delaunay.Triangulate(points)
}

// orient is positive when a, b, c turn counter-clockwise.
func orient(a, b, c delaunay.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
