package terrain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoElevationData is returned when building without a grid.
	ErrNoElevationData = errors.New("no elevation data loaded")

	// ErrShapeMismatch is returned when the elevation, longitude and
	// latitude grids are not all the same rectangular shape.
	ErrShapeMismatch = errors.New("grid shape mismatch")

	// ErrEmptyGrid is returned for a grid without rows or columns.
	ErrEmptyGrid = errors.New("grid must have at least one row and column")

	// ErrInvalidCoordinate is returned for a non-finite longitude or latitude.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Grid is a row-major raster of elevation samples with matching
// longitude and latitude for each sample. A NaN elevation marks a
// missing sample.
type Grid struct {
	Elevation [][]float64
	Lon       [][]float64
	Lat       [][]float64
}

// Bounds are geographic limits in degrees.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
}

func shape(g [][]float64) (rows, cols int, err error) {
	rows = len(g)
	if rows == 0 {
		return 0, 0, ErrEmptyGrid
	}
	cols = len(g[0])
	if cols == 0 {
		return 0, 0, ErrEmptyGrid
	}
	for i, row := range g {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("row %d has %d columns, expected %d: %w", i, len(row), cols, ErrShapeMismatch)
		}
	}
	return rows, cols, nil
}

func checkFinite(name string, g [][]float64) error {
	for i, row := range g {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%s[%d][%d]=%v: %w", name, i, j, v, ErrInvalidCoordinate)
			}
		}
	}
	return nil
}

// NewGrid validates that all three grids share a non-empty rectangular
// shape and that every coordinate is finite.
func NewGrid(elevation, lon, lat [][]float64) (*Grid, error) {
	rows, cols, err := shape(elevation)
	if err != nil {
		return nil, fmt.Errorf("elevation: %w", err)
	}
	for _, c := range []struct {
		name string
		g    [][]float64
	}{{"lon", lon}, {"lat", lat}} {
		r, cl, err := shape(c.g)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		if r != rows || cl != cols {
			return nil, fmt.Errorf("%s is %dx%d, elevation is %dx%d: %w", c.name, r, cl, rows, cols, ErrShapeMismatch)
		}
		err = checkFinite(c.name, c.g)
		if err != nil {
			return nil, err
		}
	}

	return &Grid{Elevation: elevation, Lon: lon, Lat: lat}, nil
}

// NewGridFromBounds creates a Grid whose coordinates are evenly spaced
// across b. Row 0 is at MinLat and column 0 at MinLon.
func NewGridFromBounds(elevation [][]float64, b Bounds) (*Grid, error) {
	rows, cols, err := shape(elevation)
	if err != nil {
		return nil, fmt.Errorf("elevation: %w", err)
	}

	step := func(min, max float64, n int) float64 {
		if n < 2 {
			return 0
		}
		return (max - min) / float64(n-1)
	}
	lonStep := step(b.MinLon, b.MaxLon, cols)
	latStep := step(b.MinLat, b.MaxLat, rows)

	lon := make([][]float64, rows)
	lat := make([][]float64, rows)
	for i := range lon {
		lon[i] = make([]float64, cols)
		lat[i] = make([]float64, cols)
		for j := range lon[i] {
			lon[i][j] = b.MinLon + lonStep*float64(j)
			lat[i][j] = b.MinLat + latStep*float64(i)
		}
	}

	return NewGrid(elevation, lon, lat)
}

// check verifies a Grid that may not have come from NewGrid.
func (g *Grid) check() error {
	if g == nil || len(g.Elevation) == 0 {
		return ErrNoElevationData
	}
	rows, cols, err := shape(g.Elevation)
	if err != nil {
		return fmt.Errorf("elevation: %w", err)
	}
	for name, c := range map[string][][]float64{"lon": g.Lon, "lat": g.Lat} {
		r, cl, err := shape(c)
		if err != nil {
			return fmt.Errorf("%s: %v: %w", name, err, ErrShapeMismatch)
		}
		if r != rows || cl != cols {
			return fmt.Errorf("%s is %dx%d, elevation is %dx%d: %w", name, r, cl, rows, cols, ErrShapeMismatch)
		}
	}
	return nil
}

// Shape returns the number of rows and columns.
func (g *Grid) Shape() (rows, cols int) {
	if len(g.Elevation) == 0 {
		return 0, 0
	}
	return len(g.Elevation), len(g.Elevation[0])
}

// Valid returns true if the sample at (i,j) is not missing.
func (g *Grid) Valid(i, j int) bool {
	return !math.IsNaN(g.Elevation[i][j])
}

// ValidCount returns the number of non-missing samples.
func (g *Grid) ValidCount() int {
	var n int
	for i, row := range g.Elevation {
		for j := range row {
			if g.Valid(i, j) {
				n++
			}
		}
	}
	return n
}

// ElevationRange returns the lowest and highest non-missing samples.
func (g *Grid) ElevationRange() (ok bool, min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range g.Elevation {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			ok = true
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if !ok {
		return false, 0, 0
	}
	return true, min, max
}
