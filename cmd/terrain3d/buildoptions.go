package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/mastercactapus/terrain3d/mesh"
	"github.com/mastercactapus/terrain3d/printcheck"
	"github.com/mastercactapus/terrain3d/terrain"
)

var errNoSurface = errors.New("no faces could be generated from the grid")

// BuildOptions control the grid to printable mesh pipeline.
type BuildOptions struct {
	Delaunay   bool
	Decimation int
	ScaleXY    float64
	ScaleZ     float64

	// Size is the target length of the largest dimension in mm.
	// Scaling is skipped if zero.
	Size float64

	// Base is the pedestal thickness in mm. No base is added if zero.
	Base float64
}

func defaultBuildOptions() BuildOptions {
	return BuildOptions{
		Decimation: 1,
		ScaleXY:    1,
		ScaleZ:     1,
		Size:       100,
		Base:       2,
	}
}

// Build triangulates g, then scales it and adds a base.
func (opt BuildOptions) Build(g *terrain.Grid, l *log.Logger) (*mesh.Mesh, error) {
	cfg := terrain.Config{
		ScaleXY:    opt.ScaleXY,
		ScaleZ:     opt.ScaleZ,
		Decimation: opt.Decimation,
		Logger:     l,
	}

	var m *mesh.Mesh
	var err error
	if opt.Delaunay {
		m, err = terrain.NewDelaunayMesh(g, cfg)
	} else {
		m, err = terrain.NewGridMesh(g, cfg)
	}
	if err != nil {
		return nil, err
	}
	if len(m.Faces) == 0 {
		return nil, errNoSurface
	}

	if opt.Size > 0 {
		m, err = mesh.ScaleToSize(m, opt.Size)
		if err != nil {
			return nil, fmt.Errorf("scale to %gmm: %w", opt.Size, err)
		}
	}
	if opt.Base > 0 {
		m, err = mesh.AddBase(m, opt.Base)
		if err != nil {
			return nil, fmt.Errorf("add base: %w", err)
		}
	}

	return m, nil
}

// result is written next to generated models.
type result struct {
	Mesh       mesh.Stats          `json:"mesh"`
	Validation *printcheck.Report  `json:"validation"`
	Settings   printcheck.Settings `json:"print_settings"`
}

func newResult(m *mesh.Mesh, r *printcheck.Report) result {
	return result{
		Mesh:       m.Stats(),
		Validation: r,
		Settings:   printcheck.SuggestSettings(r),
	}
}

// loadPrinterConfig reads printer limits from a JSON file. Fields not
// present keep their default value.
func loadPrinterConfig(name string) (printcheck.Config, error) {
	cfg := printcheck.DefaultConfig()
	if name == "" {
		return cfg, nil
	}

	data, err := ioutil.ReadFile(name)
	if err != nil {
		return cfg, err
	}
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse '%s': %w", name, err)
	}
	return cfg, nil
}

func writeResult(name string, res result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(name, append(data, '\n'), 0644)
}

// stdLogger returns a logger sharing the standard logger's output.
func stdLogger() *log.Logger {
	return log.New(log.Writer(), log.Prefix(), log.Flags())
}
