package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/chazu/topoview/pkg/engine"
	"github.com/chazu/topoview/pkg/importer"
	"github.com/chazu/topoview/pkg/kernel"
	"github.com/chazu/topoview/pkg/kernel/sdfx"
	"github.com/chazu/topoview/pkg/overlay"
	"github.com/chazu/topoview/pkg/pick"
	"github.com/chazu/topoview/pkg/topology"
	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Events emitted to the frontend.
const (
	EventModelLoaded = "model:loaded"
	EventCameraSet   = "camera:set-position"
)

// colorPalette is a default palette used to assign distinct colors to solids.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	// emit delivers an event to the frontend. Tests replace it.
	emit func(name string, data ...interface{})
	// scale maps model space to the viewer's world space.
	scale float64

	mu       sync.Mutex
	registry *topology.Registry
	model    *topology.Model
	overlay  *overlay.Overlay
	index    *pick.Index
	diag     *overlay.Diagnostics
}

// MeshData is the JSON-serializable mesh format sent to the frontend, one
// per solid.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// SolidData summarizes one solid of the loaded model.
type SolidData struct {
	Name   string          `json:"name"`
	Faces  int             `json:"faces"`
	Census topology.Census `json:"census"`
}

// LoadResult is the full result of loading a file or evaluating a script.
type LoadResult struct {
	Session string          `json:"session"`
	Name    string          `json:"name"`
	Meshes  []MeshData      `json:"meshes"`
	Census  topology.Census `json:"census"`
	Solids  []SolidData     `json:"solids"`
	Layers  []LayerData     `json:"layers"`
	Errors  []EvalErrorData `json:"errors"`
}

// LayerData is one class of edge lines for the viewport.
type LayerData struct {
	Class string     `json:"class"`
	Color [3]float32 `json:"color"`
	Lines []float32  `json:"lines"`
	Count int        `json:"count"`
}

// EdgeRow is one entry of the edge tree.
type EdgeRow struct {
	Row   int              `json:"row"`
	Label string           `json:"label"`
	Info  overlay.EdgeInfo `json:"info"`
}

// PointRow is one entry of the debug point tree.
type PointRow struct {
	Row   int        `json:"row"`
	Name  string     `json:"name"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Z     float64    `json:"z"`
	Color [3]float32 `json:"color"`
}

// DiagnosticsResult is the accumulated set of debug points and rays.
type DiagnosticsResult struct {
	Session string          `json:"session"`
	Points  []PointRow      `json:"points"`
	Rays    []LayerData     `json:"rays"`
	Skipped int             `json:"skipped"`
	Errors  []EvalErrorData `json:"errors"`
}

// CameraPosition is the payload of EventCameraSet.
type CameraPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PickResult is the edge nearest a picked point.
type PickResult struct {
	Found    bool             `json:"found"`
	Class    string           `json:"class"`
	Row      int              `json:"row"`
	Info     overlay.EdgeInfo `json:"info"`
	Distance float64          `json:"distance"`
}

// NewApp creates a new App with an engine on the sdfx kernel.
func NewApp() *App {
	return newApp(sdfx.New())
}

func newApp(k kernel.Kernel) *App {
	a := &App{
		engine:   engine.NewEngine(k),
		registry: topology.NewRegistry(),
		scale:    1,
	}
	a.emit = func(name string, data ...interface{}) {
		if a.ctx != nil {
			runtime.EventsEmit(a.ctx, name, data...)
		}
	}
	return a
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later. A model loaded before
// startup is announced now.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.mu.Lock()
	m := a.model
	a.mu.Unlock()
	if m != nil {
		a.emit(EventModelLoaded, m.Session.String())
	}
}

func newResult() LoadResult {
	return LoadResult{
		Meshes: []MeshData{},
		Solids: []SolidData{},
		Layers: []LayerData{},
		Errors: []EvalErrorData{},
	}
}

// LoadFile imports an OBJ, STL or OFF file and rebuilds the topology.
func (a *App) LoadFile(path string) LoadResult {
	mesh, err := importer.Load(path)
	if err != nil {
		topology.Logger().Warn("app: import failed", "path", path, "err", err)
		result := newResult()
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	return a.load(mesh)
}

// Evaluate takes Lisp source, builds its mesh and rebuilds the topology.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) LoadResult {
	result := newResult()

	mesh, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		topology.Logger().Error("app: evaluate", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = append(result.Errors, lo.Map(evalErrs, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		})...)
		return result
	}
	return a.load(mesh)
}

// load builds mesh into the app's registry and replaces the current model.
// A rejected mesh leaves the current model in place.
func (a *App) load(mesh *kernel.Mesh) LoadResult {
	result := newResult()

	a.mu.Lock()
	m, err := topology.Build(a.registry, mesh)
	if err != nil {
		a.mu.Unlock()
		topology.Logger().Warn("app: build failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	idx, err := pick.NewIndex(m)
	if err != nil {
		topology.Logger().Warn("app: pick index unavailable", "err", err)
	}
	a.model, a.overlay, a.index = m, overlay.Build(m), idx
	ov := a.overlay
	a.mu.Unlock()

	result.Session = m.Session.String()
	result.Name = m.Name
	result.Census = m.Census()
	normals := mesh.Normals
	if len(normals) != len(mesh.Vertices) {
		normals = kernel.VertexNormals(mesh)
	}
	for i, r := range mesh.Ranges() {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: mesh.Vertices,
			Normals:  normals,
			Indices:  mesh.Indices[r.Begin:r.End],
			PartName: r.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	for _, s := range m.Solids {
		c, _ := m.SolidCensus(s.ID)
		result.Solids = append(result.Solids, SolidData{Name: s.Name, Faces: len(s.Faces), Census: c})
	}
	result.Layers = lo.Map(ov.Layers, func(l overlay.Layer, _ int) LayerData {
		return LayerData{Class: l.Name, Color: l.Color, Lines: l.Lines, Count: len(l.Edges)}
	})

	a.emit(EventModelLoaded, result.Session)
	return result
}

// SetScale sets the render scale factor applied to camera targets.
func (a *App) SetScale(scale float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if scale > 0 {
		a.scale = scale
	}
}

// Edges lists the edges of one class ("boundary", "red", ...) in tree
// order. Unknown classes and an empty app list nothing.
func (a *App) Edges(class string) []EdgeRow {
	c, ok := topology.ParseClass(class)
	if !ok {
		return []EdgeRow{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.overlay == nil {
		return []EdgeRow{}
	}
	l, _ := a.overlay.Layer(c)
	return lo.Map(l.Edges, func(info overlay.EdgeInfo, i int) EdgeRow {
		return EdgeRow{Row: i, Label: fmt.Sprintf("%s: %d", c.ColorName(), i), Info: info}
	})
}

// GoToEdge moves the camera to the midpoint of row i of class's edge tree.
// A session other than the current one, or a row that does not resolve,
// is ignored and reported as false.
func (a *App) GoToEdge(session, class string, i int) bool {
	c, ok := topology.ParseClass(class)
	if !ok {
		return false
	}
	a.mu.Lock()
	if a.model == nil || a.model.Session.String() != session {
		a.mu.Unlock()
		return false
	}
	info, ok := a.overlay.Edge(c, i)
	if !ok {
		a.mu.Unlock()
		return false
	}
	mid, ok := overlay.Midpoint(a.model, info)
	scale := a.scale
	a.mu.Unlock()
	if !ok {
		return false
	}

	p := overlay.CameraTarget(mid, scale)
	a.emit(EventCameraSet, CameraPosition{X: p.X, Y: p.Y, Z: p.Z})
	return true
}

// PickEdge finds the edge nearest the model-space point (x, y, z).
func (a *App) PickEdge(x, y, z float64) PickResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.index == nil {
		return PickResult{}
	}
	hits := a.index.Nearest(topology.NewCoordinate(x, y, z), 1)
	if len(hits) == 0 {
		return PickResult{}
	}
	h := hits[0]
	c := topology.Classify(h.Edge)
	info := overlay.Info(a.model, h.Edge)
	l, _ := a.overlay.Layer(c)
	_, row, _ := lo.FindIndexOf(l.Edges, func(e overlay.EdgeInfo) bool { return e.EdgeID == info.EdgeID })
	return PickResult{Found: true, Class: c.String(), Row: row, Info: info, Distance: h.Distance}
}

// LoadDiagnostics adds the debug points and rays of a JSON file to the
// ones already loaded. A file that cannot be read leaves them unchanged.
func (a *App) LoadDiagnostics(path string) DiagnosticsResult {
	d, err := overlay.LoadDiagnostics(path)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		topology.Logger().Warn("app: diagnostics failed", "path", path, "err", err)
		result := a.diagnosticsResult()
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if a.diag == nil {
		a.diag = d
	} else {
		a.diag.Merge(d)
	}
	return a.diagnosticsResult()
}

// ClearDiagnostics drops every debug point and ray.
func (a *App) ClearDiagnostics() DiagnosticsResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.diag = nil
	return a.diagnosticsResult()
}

func (a *App) diagnosticsResult() DiagnosticsResult {
	result := DiagnosticsResult{Points: []PointRow{}, Rays: []LayerData{}, Errors: []EvalErrorData{}}
	if a.diag == nil {
		return result
	}
	result.Session = a.diag.Session.String()
	result.Skipped = a.diag.Skipped
	result.Points = lo.Map(a.diag.Points, func(p overlay.DebugPoint, i int) PointRow {
		return PointRow{Row: i, Name: p.Name, X: p.Pos.X, Y: p.Pos.Y, Z: p.Pos.Z, Color: p.Color}
	})
	result.Rays = lo.Map(a.diag.RayLayers(), func(l overlay.Lines, _ int) LayerData {
		return LayerData{Class: l.Name, Color: l.Color, Lines: l.Lines, Count: len(l.Lines) / 6}
	})
	return result
}

// GoToPoint moves the camera to debug point i. Like GoToEdge, a session
// other than the current diagnostics session or a missing row is ignored.
func (a *App) GoToPoint(session string, i int) bool {
	a.mu.Lock()
	if a.diag == nil || a.diag.Session.String() != session {
		a.mu.Unlock()
		return false
	}
	p, ok := a.diag.Point(i)
	scale := a.scale
	a.mu.Unlock()
	if !ok {
		return false
	}

	pos := overlay.CameraTarget(p.Pos, scale)
	a.emit(EventCameraSet, CameraPosition{X: pos.X, Y: pos.Y, Z: pos.Z})
	return true
}
