package terrain

import (
	"github.com/mastercactapus/terrain3d/mesh"
)

// NewGridMesh triangulates g cell by cell. Missing samples produce no
// vertex, and each 2x2 block of samples emits up to two faces:
// (v00, v01, v10) and (v01, v11, v10), each only when all three of its
// vertices exist.
//
// A grid where every sample is missing returns an empty mesh.
func NewGridMesh(g *Grid, cfg Config) (*mesh.Mesh, error) {
	err := g.check()
	if err != nil {
		return nil, err
	}
	l := cfg.logger()
	rows, cols := g.Shape()

	m := &mesh.Mesh{}
	index := make([][]int, rows)
	for i := range index {
		index[i] = make([]int, cols)
		for j := range index[i] {
			if !g.Valid(i, j) {
				index[i][j] = -1
				continue
			}
			index[i][j] = len(m.Vertices)
			m.Vertices = append(m.Vertices, cfg.vertex(g.Lon[i][j], g.Lat[i][j], g.Elevation[i][j]))
		}
	}
	l.Printf("generated %d vertices from %dx%d grid", len(m.Vertices), rows, cols)

	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			v00 := index[i][j]
			v01 := index[i][j+1]
			v10 := index[i+1][j]
			v11 := index[i+1][j+1]

			if v00 != -1 && v01 != -1 && v10 != -1 {
				m.Faces = append(m.Faces, mesh.Face{v00, v01, v10})
			}
			if v01 != -1 && v10 != -1 && v11 != -1 {
				m.Faces = append(m.Faces, mesh.Face{v01, v11, v10})
			}
		}
	}
	l.Printf("generated %d faces", len(m.Faces))

	return m, nil
}
