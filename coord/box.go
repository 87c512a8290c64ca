package coord

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Point
}

// BoxOf returns the bounds of points. The zero Box is returned
// when points is empty.
func BoxOf(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Min.Z = math.Min(b.Min.Z, p.Z)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
		b.Max.Z = math.Max(b.Max.Z, p.Z)
	}
	return b
}

// Size is the extent of the box along each axis.
func (b Box) Size() Point { return b.Max.Sub(b.Min) }

// MaxDimension returns the largest extent.
func (b Box) MaxDimension() float64 {
	s := b.Size()
	return math.Max(s.X, math.Max(s.Y, s.Z))
}

// MinDimension returns the smallest extent.
func (b Box) MinDimension() float64 {
	s := b.Size()
	return math.Min(s.X, math.Min(s.Y, s.Z))
}

// ContainsXY will check if (x,y) falls within the XY projection,
// allowing for Epsilon of error.
func (b Box) ContainsXY(x, y float64) bool {
	return x >= b.Min.X-Epsilon && x <= b.Max.X+Epsilon &&
		y >= b.Min.Y-Epsilon && y <= b.Max.Y+Epsilon
}
