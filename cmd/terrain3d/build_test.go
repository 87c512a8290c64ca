package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/mastercactapus/terrain3d/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOptions_Build(t *testing.T) {
	g, err := decodeGrid(bytes.NewBufferString(testGrid))
	require.NoError(t, err)

	opt := defaultBuildOptions()
	m, err := opt.Build(g, nil)
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 13)
	assert.Len(t, m.Faces, 10)

	b := m.Bounds()
	assert.InDelta(t, 100, b.MaxDimension(), 1e-9)

	opt.Size = 0
	opt.Base = 0
	m, err = opt.Build(g, nil)
	require.NoError(t, err)
	assert.Len(t, m.Faces, 8)
	assert.InDelta(t, 130, m.Bounds().Max.Z, 1e-9)

	opt.Delaunay = true
	m, err = opt.Build(g, nil)
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 9)
	assert.NotEmpty(t, m.Faces)
}

func TestOutputNames(t *testing.T) {
	assert.Equal(t, "data/grid.stl", outputName("data/grid.json", ""))
	assert.Equal(t, "model.stl", outputName("data/grid.json", "model.stl"))
	assert.Equal(t, "data/grid.report.json", reportName("data/grid.stl"))
}

func TestLoadPrinterConfig(t *testing.T) {
	cfg, err := loadPrinterConfig("")
	require.NoError(t, err)
	assert.Equal(t, 200.0, cfg.MaxPrintSize)

	name := filepath.Join(tempDir(t), "printer.json")
	require.NoError(t, ioutil.WriteFile(name, []byte(`{"max_print_size": 250}`), 0644))
	cfg, err = loadPrinterConfig(name)
	require.NoError(t, err)
	assert.Equal(t, 250.0, cfg.MaxPrintSize)
	assert.Equal(t, 0.8, cfg.MinWallThickness)

	_, err = loadPrinterConfig(filepath.Join(tempDir(t), "missing.json"))
	assert.Error(t, err)
}

func TestCommands(t *testing.T) {
	dir := tempDir(t)
	gridName := filepath.Join(dir, "grid.json")
	require.NoError(t, ioutil.WriteFile(gridName, []byte(testGrid), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"build", gridName, "--size", "150"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Printable: true")

	stlName := filepath.Join(dir, "grid.stl")
	m, err := stl.ReadFile(stlName)
	require.NoError(t, err)
	assert.Len(t, m.Faces, 10)
	assert.InDelta(t, 150, m.Bounds().MaxDimension(), 1e-3)

	data, err := ioutil.ReadFile(filepath.Join(dir, "grid.report.json"))
	require.NoError(t, err)
	var res result
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 10, res.Validation.Statistics.Faces)

	out.Reset()
	rootCmd.SetArgs([]string{"check", stlName, "--json"})
	require.NoError(t, rootCmd.Execute())
	res = result{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.True(t, res.Validation.Printable)
	assert.Equal(t, 10, res.Mesh.Faces)
}
