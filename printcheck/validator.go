// Package printcheck evaluates meshes against 3D printing rules.
//
// All checks are approximations. Wall thickness is estimated from the
// shortest edge, and volume assumes a closed shell around the origin.
package printcheck

import (
	"fmt"
	"io/ioutil"
	"log"
	"math"

	"github.com/mastercactapus/terrain3d/coord"
	"github.com/mastercactapus/terrain3d/mesh"
)

const (
	// DegenerateArea is the face area below which a face is degenerate.
	DegenerateArea = 1e-10

	// DuplicateDistance is the distance below which vertices are duplicates.
	DuplicateDistance = 1e-6

	// MaxAspectRatio is the largest stable max/min dimension ratio.
	MaxAspectRatio = 10
)

// Config holds printer limits in millimeters and degrees.
type Config struct {
	MinWallThickness float64 `json:"min_wall_thickness"`
	MinFeatureSize   float64 `json:"min_feature_size"`
	MaxOverhangAngle float64 `json:"max_overhang_angle"`
	MaxPrintSize     float64 `json:"max_print_size"`
	MinPrintSize     float64 `json:"min_print_size"`
	LayerHeight      float64 `json:"layer_height"`
	NozzleDiameter   float64 `json:"nozzle_diameter"`

	// Logger receives a summary of each validation. Nothing is logged if nil.
	Logger *log.Logger `json:"-"`
}

// DefaultConfig returns limits for a typical FDM printer with PLA.
func DefaultConfig() Config {
	return Config{
		MinWallThickness: 0.8,
		MinFeatureSize:   0.4,
		MaxOverhangAngle: 45,
		MaxPrintSize:     200,
		MinPrintSize:     5,
		LayerHeight:      0.2,
		NozzleDiameter:   0.4,
	}
}

// Validator checks meshes against a fixed Config. It holds no state
// between calls and may be used concurrently.
type Validator struct {
	cfg Config
	log *log.Logger
}

// New creates a Validator.
func New(cfg Config) *Validator {
	v := &Validator{cfg: cfg, log: cfg.Logger}
	if v.log == nil {
		v.log = log.New(ioutil.Discard, "", 0)
	}
	return v
}

// Config returns the limits used by v.
func (v *Validator) Config() Config { return v.cfg }

// Validate runs every check against m. The mesh is not modified.
//
// Faces with out-of-range indices are reported as critical errors and
// skipped by the geometric checks.
func (v *Validator) Validate(m *mesh.Mesh) *Report {
	r := &Report{
		CriticalErrors:  []string{},
		Warnings:        []Issue{},
		Recommendations: []Recommendation{},
		LayerHeight:     v.cfg.LayerHeight,
	}

	faces := v.checkIntegrity(r, m)
	valid := &mesh.Mesh{Vertices: m.Vertices, Faces: faces}

	v.checkDimensions(r, valid)
	v.checkWallThickness(r, valid)
	v.checkOverhangs(r, valid)
	v.checkSmallFeatures(r, valid)
	v.checkTopology(r, valid)
	v.statistics(r, m, valid)

	r.Printable = len(r.CriticalErrors) == 0
	v.log.Printf("validated %d vertices, %d faces: printable=%t, %d errors, %d warnings",
		len(m.Vertices), len(m.Faces), r.Printable, len(r.CriticalErrors), len(r.Warnings))

	return r
}

// checkIntegrity returns the faces whose indices are all in range.
func (v *Validator) checkIntegrity(r *Report, m *mesh.Mesh) []mesh.Face {
	if len(m.Vertices) == 0 {
		r.critical("mesh has no vertices")
	}
	if len(m.Faces) == 0 {
		r.critical("mesh has no faces")
	}

	faces := m.Faces
	if bad := m.InvalidFaces(); bad > 0 {
		r.critical("found %d faces with invalid vertex indices", bad)

		faces = make([]mesh.Face, 0, len(m.Faces)-bad)
		n := len(m.Vertices)
		for _, f := range m.Faces {
			if f[0] >= 0 && f[0] < n && f[1] >= 0 && f[1] < n && f[2] >= 0 && f[2] < n {
				faces = append(faces, f)
			}
		}
	}

	valid := &mesh.Mesh{Vertices: m.Vertices, Faces: faces}
	r.Statistics.DegenerateFaces = countDegenerate(valid)
	if r.Statistics.DegenerateFaces > 0 {
		r.warn(CauseDegenerate, r.Statistics.DegenerateFaces,
			"found %d degenerate faces", r.Statistics.DegenerateFaces)
	}

	r.Statistics.DuplicateVertices = countDuplicates(m.Vertices, DuplicateDistance)
	if r.Statistics.DuplicateVertices > 0 {
		r.warn(CauseDuplicate, r.Statistics.DuplicateVertices,
			"found %d duplicate vertices", r.Statistics.DuplicateVertices)
	}

	return faces
}

func countDegenerate(m *mesh.Mesh) int {
	var n int
	for i := range m.Faces {
		if m.Triangle(i).Area() < DegenerateArea {
			n++
		}
	}
	return n
}

// countDuplicates counts vertex pairs closer than tol. Vertices are
// bucketed into cells of size tol so only neighboring cells are compared.
func countDuplicates(points []coord.Point, tol float64) int {
	type cell [3]int64
	key := func(p coord.Point) cell {
		return cell{
			int64(math.Floor(p.X / tol)),
			int64(math.Floor(p.Y / tol)),
			int64(math.Floor(p.Z / tol)),
		}
	}

	grid := make(map[cell][]int, len(points))
	var count int
	for i, p := range points {
		if p.IsNaN() {
			continue
		}
		k := key(p)
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, j := range grid[cell{k[0] + dx, k[1] + dy, k[2] + dz}] {
						if points[j].Distance(p) < tol {
							count++
						}
					}
				}
			}
		}
		grid[k] = append(grid[k], i)
	}
	return count
}

func (v *Validator) checkDimensions(r *Report, m *mesh.Mesh) {
	if len(m.Vertices) == 0 {
		return
	}
	b := m.Bounds()
	max := b.MaxDimension()
	min := b.MinDimension()

	if max > v.cfg.MaxPrintSize {
		r.warn(CauseOversize, 0, "model is too large (%.1fmm), maximum recommended size is %gmm", max, v.cfg.MaxPrintSize)
		f := v.cfg.MaxPrintSize / max
		r.Recommendations = append(r.Recommendations, Recommendation{
			Cause:       CauseOversize,
			ScaleFactor: f,
			Message:     formatScale(f),
		})
	}
	if max < v.cfg.MinPrintSize {
		r.warn(CauseUndersize, 0, "model is too small (%.1fmm), minimum recommended size is %gmm", max, v.cfg.MinPrintSize)
		// a single point cannot be scaled
		if max > 0 {
			f := v.cfg.MinPrintSize / max
			r.Recommendations = append(r.Recommendations, Recommendation{
				Cause:       CauseUndersize,
				ScaleFactor: f,
				Message:     formatScale(f),
			})
		}
	}

	if max > 0 {
		ratio := math.Inf(1)
		if min > 0 {
			ratio = max / min
		}
		if ratio > MaxAspectRatio {
			r.warn(CauseAspectRatio, 0, "high aspect ratio (%.1f:1) may be unstable while printing", ratio)
		}
	}
}

func formatScale(f float64) string {
	return fmt.Sprintf("scale the model by a factor of %.3f", f)
}

func (v *Validator) checkWallThickness(r *Report, m *mesh.Mesh) {
	ok, min := m.MinEdgeLength()
	if !ok {
		return
	}
	r.Statistics.MinEdgeLength = min
	switch {
	case v.cfg.NozzleDiameter > 0 && min < v.cfg.NozzleDiameter:
		r.warn(CauseThinWall, 0, "some features (%.2fmm) are thinner than the %gmm nozzle and will not print",
			min, v.cfg.NozzleDiameter)
	case min < v.cfg.MinWallThickness:
		r.warn(CauseThinWall, 0, "some features are very thin (%.2fmm), minimum recommended thickness is %gmm",
			min, v.cfg.MinWallThickness)
	}
}

// overhangAngle is the angle in degrees between the face normal and +Z.
// Degenerate faces have a zero normal, which counts as 90 degrees.
func overhangAngle(n coord.Point) float64 {
	return math.Acos(math.Max(-1, math.Min(1, n.Z))) * 180 / math.Pi
}

func (v *Validator) checkOverhangs(r *Report, m *mesh.Mesh) {
	limit := 90 - v.cfg.MaxOverhangAngle
	var count int
	for i := range m.Faces {
		if overhangAngle(m.Triangle(i).Normal()) > limit {
			count++
		}
	}
	r.Statistics.OverhangFaces = count
	if count > 0 {
		r.warn(CauseOverhang, count, "found %d faces with overhangs over %g degrees, supports may be required",
			count, v.cfg.MaxOverhangAngle)
	}
}

func (v *Validator) checkSmallFeatures(r *Report, m *mesh.Mesh) {
	minArea := v.cfg.MinFeatureSize * v.cfg.MinFeatureSize / 2
	var count int
	for i := range m.Faces {
		if m.Triangle(i).Area() < minArea {
			count++
		}
	}
	r.Statistics.SmallFaces = count
	if count > 0 {
		r.warn(CauseSmallFeature, count, "found %d very small faces that may not print correctly (minimum feature size %gmm)",
			count, v.cfg.MinFeatureSize)
	}
}

func (v *Validator) checkTopology(r *Report, m *mesh.Mesh) {
	t := m.Topology()
	r.Statistics.Topology = t
	if t.NonManifoldEdges > 0 {
		r.warn(CauseNonManifold, t.NonManifoldEdges, "found %d edges shared by more than two faces", t.NonManifoldEdges)
	}
	if t.InconsistentEdges > 0 {
		r.warn(CauseInconsistentWinding, t.InconsistentEdges, "found %d edges between faces with opposite winding", t.InconsistentEdges)
	}
}

func (v *Validator) statistics(r *Report, m, valid *mesh.Mesh) {
	s := &r.Statistics
	s.Vertices = len(m.Vertices)
	s.Faces = len(m.Faces)
	if len(m.Vertices) > 0 {
		b := m.Bounds()
		s.BoundsMin = b.Min
		s.BoundsMax = b.Max
		s.Dimensions = b.Size()
	}
	s.Volume = valid.Volume()
	s.SurfaceArea = valid.SurfaceArea()
	s.EstimatedPrintHours = s.Volume / 1000
	s.EstimatedFilamentMeters = s.Volume / 1000 * 3.5
}
