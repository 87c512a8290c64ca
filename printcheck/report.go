package printcheck

import (
	"fmt"

	"github.com/mastercactapus/terrain3d/coord"
	"github.com/mastercactapus/terrain3d/mesh"
)

// Cause identifies the rule that produced a warning or recommendation.
type Cause int

const (
	CauseDegenerate Cause = iota + 1
	CauseDuplicate
	CauseOversize
	CauseUndersize
	CauseAspectRatio
	CauseThinWall
	CauseOverhang
	CauseSmallFeature
	CauseNonManifold
	CauseInconsistentWinding
)

var causeNames = map[Cause]string{
	CauseDegenerate:          "degenerate_faces",
	CauseDuplicate:           "duplicate_vertices",
	CauseOversize:            "oversize",
	CauseUndersize:           "undersize",
	CauseAspectRatio:         "aspect_ratio",
	CauseThinWall:            "thin_wall",
	CauseOverhang:            "overhang",
	CauseSmallFeature:        "small_feature",
	CauseNonManifold:         "non_manifold",
	CauseInconsistentWinding: "inconsistent_winding",
}

func (c Cause) String() string {
	if s, ok := causeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Cause(%d)", int(c))
}

// MarshalText encodes the cause by name.
func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a cause name.
func (c *Cause) UnmarshalText(data []byte) error {
	for k, v := range causeNames {
		if v == string(data) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown cause '%s'", data)
}

// Issue is a problem that does not prevent printing.
type Issue struct {
	Cause   Cause  `json:"cause"`
	Message string `json:"message"`

	// Count is the number of offending elements, if applicable.
	Count int `json:"count,omitempty"`
}

// Recommendation is a suggested fix.
type Recommendation struct {
	Cause   Cause  `json:"cause"`
	Message string `json:"message"`

	// ScaleFactor is the uniform scale that brings the model within
	// the printable size range.
	ScaleFactor float64 `json:"scale_factor,omitempty"`
}

// Statistics describe the mesh as it would be printed.
type Statistics struct {
	Dimensions  coord.Point `json:"dimensions_mm"`
	Volume      float64     `json:"volume_mm3"`
	SurfaceArea float64     `json:"surface_area_mm2"`

	EstimatedPrintHours     float64 `json:"estimated_print_time_hours"`
	EstimatedFilamentMeters float64 `json:"estimated_filament_meters"`

	Vertices  int         `json:"num_vertices"`
	Faces     int         `json:"num_faces"`
	BoundsMin coord.Point `json:"bbox_min"`
	BoundsMax coord.Point `json:"bbox_max"`

	MinEdgeLength     float64       `json:"min_edge_length_mm"`
	DegenerateFaces   int           `json:"degenerate_faces"`
	DuplicateVertices int           `json:"duplicate_vertices"`
	OverhangFaces     int           `json:"overhang_faces"`
	SmallFaces        int           `json:"small_faces"`
	Topology          mesh.Topology `json:"topology"`
}

// Report is the result of validating a mesh. A new Report is created for
// every call to Validate.
type Report struct {
	Printable       bool             `json:"is_printable"`
	CriticalErrors  []string         `json:"critical_errors"`
	Warnings        []Issue          `json:"warnings"`
	Recommendations []Recommendation `json:"recommendations"`
	Statistics      Statistics       `json:"statistics"`

	// LayerHeight is the layer height of the printer the report was
	// made for. SuggestSettings starts from it.
	LayerHeight float64 `json:"-"`
}

// Has returns true if any warning has cause c.
func (r *Report) Has(c Cause) bool {
	for _, w := range r.Warnings {
		if w.Cause == c {
			return true
		}
	}
	return false
}

func (r *Report) warn(c Cause, count int, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Issue{Cause: c, Count: count, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) critical(format string, args ...interface{}) {
	r.CriticalErrors = append(r.CriticalErrors, fmt.Sprintf(format, args...))
}
