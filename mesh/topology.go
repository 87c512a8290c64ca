package mesh

// Topology counts how faces share edges.
type Topology struct {
	// Edges is the number of distinct undirected edges.
	Edges int `json:"edges"`

	// BoundaryEdges are used by exactly one face. Heightfield meshes
	// are open, so these are expected.
	BoundaryEdges int `json:"boundary_edges"`

	// NonManifoldEdges are shared by more than two faces.
	NonManifoldEdges int `json:"non_manifold_edges"`

	// InconsistentEdges are shared by two faces that traverse
	// them in the same direction (flipped winding).
	InconsistentEdges int `json:"inconsistent_edges"`
}

type edgeKey [2]int

type edgeUse struct {
	faces   int
	forward int
}

// Topology walks every face edge. Edges that start and end on the same
// vertex are ignored.
func (m *Mesh) Topology() Topology {
	edges := make(map[edgeKey]*edgeUse, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a == b {
				continue
			}
			key := edgeKey{a, b}
			fwd := true
			if b < a {
				key = edgeKey{b, a}
				fwd = false
			}
			u := edges[key]
			if u == nil {
				u = &edgeUse{}
				edges[key] = u
			}
			u.faces++
			if fwd {
				u.forward++
			}
		}
	}

	t := Topology{Edges: len(edges)}
	for _, u := range edges {
		switch {
		case u.faces == 1:
			t.BoundaryEdges++
		case u.faces > 2:
			t.NonManifoldEdges++
		case u.forward != 1:
			t.InconsistentEdges++
		}
	}
	return t
}
