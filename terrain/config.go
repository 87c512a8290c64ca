package terrain

import (
	"io/ioutil"
	"log"

	"github.com/mastercactapus/terrain3d/coord"
)

// Flat-earth conversion from degrees to meters. Only valid for areas that
// are small compared to the Earth's radius.
const (
	MetersPerDegreeLon = 111320
	MetersPerDegreeLat = 110540
)

// Config controls how grid samples are placed in mesh space.
type Config struct {
	// ScaleXY multiplies longitude and latitude before conversion to meters.
	ScaleXY float64

	// ScaleZ multiplies elevation.
	ScaleZ float64

	// Decimation keeps every Nth row and column when building a
	// Delaunay mesh. It must be at least 1.
	Decimation int

	// Logger receives progress messages. Nothing is logged if nil.
	Logger *log.Logger
}

// DefaultConfig returns a Config with unit scales and no decimation.
func DefaultConfig() Config {
	return Config{ScaleXY: 1, ScaleZ: 1, Decimation: 1}
}

func (cfg Config) logger() *log.Logger {
	if cfg.Logger == nil {
		return log.New(ioutil.Discard, "", 0)
	}
	return cfg.Logger
}

// vertex places a sample in mesh space.
func (cfg Config) vertex(lon, lat, elevation float64) coord.Point {
	return coord.Point{
		X: lon * cfg.ScaleXY * MetersPerDegreeLon,
		Y: lat * cfg.ScaleXY * MetersPerDegreeLat,
		Z: elevation * cfg.ScaleZ,
	}
}

// Position returns where a longitude and latitude land in mesh space.
func (cfg Config) Position(lon, lat float64) (x, y float64) {
	p := cfg.vertex(lon, lat, 0)
	return p.X, p.Y
}
