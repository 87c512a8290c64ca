package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mastercactapus/terrain3d/terrain"
)

var errNoCoordinates = errors.New("grid needs either lon/lat arrays or bounds")

// gridFile is the on-disk form of an elevation grid. Missing samples are
// stored as null.
type gridFile struct {
	Elevation [][]*float64    `json:"elevation"`
	Lon       [][]float64     `json:"lon,omitempty"`
	Lat       [][]float64     `json:"lat,omitempty"`
	Bounds    *terrain.Bounds `json:"bounds,omitempty"`
}

func decodeGrid(r io.Reader) (*terrain.Grid, error) {
	var f gridFile
	err := json.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("decode grid: %w", err)
	}
	if len(f.Elevation) == 0 {
		return nil, terrain.ErrNoElevationData
	}

	elev := make([][]float64, len(f.Elevation))
	for i, row := range f.Elevation {
		elev[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				elev[i][j] = math.NaN()
				continue
			}
			elev[i][j] = *v
		}
	}

	switch {
	case f.Lon != nil || f.Lat != nil:
		return terrain.NewGrid(elev, f.Lon, f.Lat)
	case f.Bounds != nil:
		return terrain.NewGridFromBounds(elev, *f.Bounds)
	}
	return nil, errNoCoordinates
}

func loadGrid(name string) (*terrain.Grid, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	g, err := decodeGrid(fd)
	if err != nil {
		return nil, fmt.Errorf("load '%s': %w", name, err)
	}
	return g, nil
}
