package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/mastercactapus/terrain3d/mesh"
	"github.com/mastercactapus/terrain3d/printcheck"
	"github.com/mastercactapus/terrain3d/stl"
	"github.com/mastercactapus/terrain3d/terrain"
)

const logChannel = "/events/log"

type api struct {
	http.Handler
	dataDir   string
	sse       *sse.Server
	log       *log.Logger
	validator *printcheck.Validator
}

// eventLog forwards each log line to SSE clients.
type eventLog struct{ s *sse.Server }

func (e eventLog) Write(p []byte) (int, error) {
	e.s.SendMessage(logChannel, sse.SimpleMessage(strings.TrimSuffix(string(p), "\n")))
	return len(p), nil
}

func newAPI(dir string, cfg printcheck.Config) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		dataDir: dir,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}
	a.log = log.New(io.MultiWriter(log.Writer(), eventLog{a.sse}), "", log.Flags())
	cfg.Logger = a.log
	a.validator = printcheck.New(cfg)

	r.HandleFunc("/api/mesh", a.meshSTL).Methods("POST")
	r.HandleFunc("/api/validate", a.validate).Methods("POST")
	r.HandleFunc("/api/elevation", a.elevation).Methods("POST")

	fs := http.FileServer(http.Dir(dir))
	r.PathPrefix("/data/").Handler(http.StripPrefix("/data", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case "GET":
			fs.ServeHTTP(w, req)
		case "PUT":
			a.putFile(w, req)
		case "DELETE":
			a.deleteFile(w, req)
		default:
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})))

	r.PathPrefix("/events/").Handler(a.sse)

	return a
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		log.Println("invalid path '" + name + "'")
		return false, ""
	}
	dir := string(base)
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

func parseBuildOptions(q url.Values) (BuildOptions, error) {
	opt := defaultBuildOptions()

	var err error
	parse := func(param string, val float64) float64 {
		s := q.Get(param)
		if err != nil || s == "" {
			return val
		}
		val, err = strconv.ParseFloat(s, 64)
		return val
	}
	opt.Delaunay = q.Get("delaunay") == "1"
	opt.Decimation = int(parse("decimation", float64(opt.Decimation)))
	opt.ScaleXY = parse("scaleXY", opt.ScaleXY)
	opt.ScaleZ = parse("scaleZ", opt.ScaleZ)
	opt.Size = parse("size", opt.Size)
	opt.Base = parse("base", opt.Base)

	return opt, err
}

func buildStatus(err error) int {
	switch {
	case errors.Is(err, errNoSurface),
		errors.Is(err, terrain.ErrInsufficientPoints),
		errors.Is(err, terrain.ErrInvalidDecimation),
		errors.Is(err, mesh.ErrDegenerate),
		errors.Is(err, mesh.ErrInvalidSize):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// build decodes the grid in the request body and runs the mesh pipeline.
// On failure the error is written to w and ok is false.
func (a *api) build(w http.ResponseWriter, req *http.Request) (ok bool, m *mesh.Mesh, r *printcheck.Report) {
	opt, err := parseBuildOptions(req.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false, nil, nil
	}

	g, err := decodeGrid(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false, nil, nil
	}
	rows, cols := g.Shape()
	a.log.Printf("building mesh from %dx%d grid (delaunay=%t)", rows, cols, opt.Delaunay)

	m, err = opt.Build(g, a.log)
	if err != nil {
		a.log.Printf("ERROR: build mesh: %+v", err)
		http.Error(w, err.Error(), buildStatus(err))
		return false, nil, nil
	}

	return true, m, a.validator.Validate(m)
}

func (a *api) meshSTL(w http.ResponseWriter, req *http.Request) {
	ok, m, r := a.build(w, req)
	if !ok {
		return
	}

	format := stl.Binary
	if req.URL.Query().Get("ascii") == "1" {
		format = stl.ASCII
	}

	if name := req.URL.Query().Get("name"); name != "" {
		ok, fullName := safePath(a.dataDir, name)
		if !ok {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		err := os.MkdirAll(filepath.Dir(fullName), 0755)
		if err != nil {
			a.log.Printf("ERROR: mkdir '%s': %+v", filepath.Dir(fullName), err)
			http.Error(w, err.Error(), 500)
			return
		}
		err = stl.WriteFile(fullName, m, format)
		if err != nil {
			a.log.Printf("ERROR: write '%s': %+v", fullName, err)
			http.Error(w, err.Error(), 500)
			return
		}
		err = writeResult(reportName(fullName), newResult(m, r))
		if err != nil {
			a.log.Printf("ERROR: write report: %+v", err)
		}
		a.log.Printf("saved '%s'", fullName)
	}

	var buf bytes.Buffer
	err := stl.Write(&buf, m, format)
	if err != nil {
		a.log.Printf("ERROR: encode stl: %+v", err)
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("X-Printable", strconv.FormatBool(r.Printable))
	_, err = buf.WriteTo(w)
	if err != nil {
		a.log.Println("ERROR: write response:", err)
	}
}

func (a *api) validate(w http.ResponseWriter, req *http.Request) {
	ok, m, r := a.build(w, req)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(newResult(m, r))
	if err != nil {
		a.log.Println("ERROR: encode:", err)
	}
}

type elevationResult struct {
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	Elevation float64 `json:"elevation"`
}

// elevation samples the unscaled terrain surface of the grid in the
// request body at the lon and lat query parameters.
func (a *api) elevation(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	opt, err := parseBuildOptions(q)
	if err == nil && opt.ScaleZ == 0 {
		err = errors.New("scaleZ must be non-zero")
	}
	var lon, lat float64
	if err == nil {
		lon, err = strconv.ParseFloat(q.Get("lon"), 64)
	}
	if err == nil {
		lat, err = strconv.ParseFloat(q.Get("lat"), 64)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := decodeGrid(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// sample in terrain space, before any print scaling or base
	opt.Size, opt.Base = 0, 0
	m, err := opt.Build(g, a.log)
	if err != nil {
		a.log.Printf("ERROR: build mesh: %+v", err)
		http.Error(w, err.Error(), buildStatus(err))
		return
	}

	x, y := terrain.Config{ScaleXY: opt.ScaleXY}.Position(lon, lat)
	ok, z := m.ElevationAt(x, y)
	if !ok {
		http.Error(w, "point is outside the terrain surface", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(elevationResult{Lon: lon, Lat: lat, Elevation: z / opt.ScaleZ})
	if err != nil {
		a.log.Println("ERROR: encode:", err)
	}
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.MkdirAll(filepath.Dir(name), 0755)
	if err != nil {
		a.log.Printf("ERROR: mkdir '%s': %+v", filepath.Dir(name), err)
		http.Error(w, err.Error(), 500)
		return
	}
	f, err := os.Create(name)
	if err != nil {
		a.log.Printf("ERROR: create '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		a.log.Printf("ERROR: write '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.Remove(name)
	if err != nil {
		a.log.Printf("ERROR: delete '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}
