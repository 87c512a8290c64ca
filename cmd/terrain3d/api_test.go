package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mastercactapus/terrain3d/printcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGrid = `{
	"elevation": [[100, 110, 120], [105, 115, 125], [110, 120, 130]],
	"bounds": {"min_lon": -78.5, "max_lon": -78.49, "min_lat": -0.2, "max_lat": -0.19}
}`

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "terrain3d-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func newTestAPI(t *testing.T) (*api, string) {
	dir := tempDir(t)
	return newAPI(dir, printcheck.DefaultConfig()), dir
}

func do(a *api, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestAPI_Mesh(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(a, "POST", "/api/mesh", testGrid)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "model/stl", rec.Header().Get("Content-Type"))
	assert.Equal(t, "true", rec.Header().Get("X-Printable"))

	// 8 terrain faces and 2 base faces
	assert.Len(t, rec.Body.Bytes(), 84+50*10)
}

func TestAPI_MeshSave(t *testing.T) {
	a, dir := newTestAPI(t)

	rec := do(a, "POST", "/api/mesh?ascii=1&name=out/model.stl&base=0", testGrid)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Body.String(), "solid "))

	model := rec.Body.String()

	data, err := ioutil.ReadFile(filepath.Join(dir, "out", "model.stl"))
	require.NoError(t, err)
	assert.Equal(t, model, string(data))

	var res result
	data, err = ioutil.ReadFile(filepath.Join(dir, "out", "model.report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 8, res.Mesh.Faces)
	assert.True(t, res.Validation.Printable)

	rec = do(a, "GET", "/data/out/model.stl", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model, rec.Body.String())
}

func TestAPI_Validate(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(a, "POST", "/api/validate?size=100&base=2", testGrid)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.True(t, res.Validation.Printable)
	assert.Equal(t, 13, res.Validation.Statistics.Vertices)
	assert.Equal(t, 10, res.Validation.Statistics.Faces)
	assert.InDelta(t, 100, res.Validation.Statistics.Dimensions.X, 1e-6)
	assert.Equal(t, printcheck.AdhesionBrim, res.Settings.BedAdhesion)
}

func TestAPI_Errors(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(a, "POST", "/api/mesh", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(a, "POST", "/api/mesh?size=big", testGrid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(a, "POST", "/api/mesh", `{"elevation": [[1, 2], [3, 4]]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(a, "POST", "/api/mesh?delaunay=1&decimation=5", testGrid)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(a, "POST", "/api/validate?delaunay=1&decimation=0", testGrid)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(a, "POST", "/api/mesh", `{
		"elevation": [[null, null], [null, null]],
		"bounds": {"min_lon": 0, "max_lon": 1, "min_lat": 0, "max_lat": 1}
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAPI_Files(t *testing.T) {
	a, dir := newTestAPI(t)

	rec := do(a, "PUT", "/data/grids/test.json", testGrid)
	require.Equal(t, http.StatusOK, rec.Code)

	g, err := loadGrid(filepath.Join(dir, "grids", "test.json"))
	require.NoError(t, err)
	assert.Equal(t, 9, g.ValidCount())

	rec = do(a, "DELETE", "/data/grids/test.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	_, err = os.Stat(filepath.Join(dir, "grids", "test.json"))
	assert.True(t, os.IsNotExist(err))

	rec = do(a, "DELETE", "/data/grids/test.json", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPI_MkdirError(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(a, "PUT", "/data/notes.txt", "hello")
	require.Equal(t, http.StatusOK, rec.Code)

	// parent is a file
	rec = do(a, "PUT", "/data/notes.txt/test.json", testGrid)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(a, "POST", "/api/mesh?name=notes.txt/model.stl", testGrid)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPI_Elevation(t *testing.T) {
	a, _ := newTestAPI(t)

	var res elevationResult
	rec := do(a, "POST", "/api/elevation?lon=-78.4975&lat=-0.1975", testGrid)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, -78.4975, res.Lon)
	assert.Equal(t, -0.1975, res.Lat)
	assert.InDelta(t, 105, res.Elevation, 1e-3)

	// reported in grid units regardless of scale
	rec = do(a, "POST", "/api/elevation?lon=-78.4975&lat=-0.1975&scaleZ=2&delaunay=1", testGrid)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 105, res.Elevation, 1e-3)

	rec = do(a, "POST", "/api/elevation?lon=-70&lat=-0.1975", testGrid)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(a, "POST", "/api/elevation?lon=-78.4975", testGrid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(a, "POST", "/api/elevation?lon=-78.4975&lat=-0.1975&scaleZ=0", testGrid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_LogEvents(t *testing.T) {
	a, _ := newTestAPI(t)

	n, err := eventLog{a.sse}.Write([]byte("hello\n"))
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestSafePath(t *testing.T) {
	ok, name := safePath("data", "../../etc/passwd")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("data", "etc", "passwd"), name)
}

func TestParseBuildOptions(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/mesh?delaunay=1&decimation=3&scaleZ=2.5&size=50", bytes.NewReader(nil))
	opt, err := parseBuildOptions(req.URL.Query())
	require.NoError(t, err)

	want := defaultBuildOptions()
	want.Delaunay = true
	want.Decimation = 3
	want.ScaleZ = 2.5
	want.Size = 50
	assert.Equal(t, want, opt)
}
