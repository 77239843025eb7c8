package overlay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/topoview/pkg/topology"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ErrMalformedDiagnostics reports a diagnostics file that is not a JSON
// object of the expected shape.
var ErrMalformedDiagnostics = errors.New("overlay: malformed diagnostics")

// Colors of the diagnostic layers.
var (
	RayClearColor   = [3]float32{0, 1, 0}
	RayFlaggedColor = [3]float32{1, 0, 1}
	shortNameColor  = [3]float32{1, 0, 0}
	longNameColor   = [3]float32{0, 1, 0}
)

// DebugPoint is a named marker placed by an external tool.
type DebugPoint struct {
	Name  string              `json:"name"`
	Pos   topology.Coordinate `json:"pos"`
	Color [3]float32          `json:"color"`
}

// Ray is one traced ray segment: it starts at Start and runs Length
// along Dir. From and To are the tracer's cell and mesh box ids; a
// Result other than zero marks the ray as flagged.
type Ray struct {
	ID     int                 `json:"id"`
	Start  topology.Coordinate `json:"start"`
	Dir    topology.Coordinate `json:"dir"`
	Length float64             `json:"length"`
	From   int                 `json:"from"`
	To     int                 `json:"to"`
	Result int                 `json:"result"`
}

// End is the far end of the ray segment.
func (r Ray) End() topology.Coordinate {
	return r.Start.Add(r.Dir.Scale(r.Length))
}

// Diagnostics holds debug points and rays loaded next to a model. Each
// change gets a new Session so stale GUI rows can be told apart.
type Diagnostics struct {
	Session uuid.UUID    `json:"session"`
	Points  []DebugPoint `json:"points"`
	Rays    []Ray        `json:"rays"`
	// Skipped counts entries dropped for missing or mistyped fields.
	Skipped int `json:"skipped"`
}

// Lines is a named, colored flat segment buffer.
type Lines struct {
	Name  string     `json:"name"`
	Color [3]float32 `json:"color"`
	Lines []float32  `json:"lines"`
}

type pointRecord struct {
	Name  *string   `json:"name"`
	X     *float64  `json:"x"`
	Y     *float64  `json:"y"`
	Z     *float64  `json:"z"`
	Color []float32 `json:"color"`
}

type rayRecord struct {
	St   []float64 `json:"st"`
	D    []float64 `json:"d"`
	R    *float64  `json:"r"`
	ID   *int      `json:"id"`
	From *int      `json:"from"`
	To   *int      `json:"to"`
	Res  *int      `json:"res"`
}

// ReadDiagnostics decodes a JSON object with optional "debug_points" and
// "ray_infos" arrays. Entries with missing or mistyped fields are skipped
// and counted; only a document that is not such an object is an error.
func ReadDiagnostics(r io.Reader) (*Diagnostics, error) {
	var doc struct {
		Points []json.RawMessage `json:"debug_points"`
		Rays   []json.RawMessage `json:"ray_infos"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("overlay: %v: %w", err, ErrMalformedDiagnostics)
	}

	d := &Diagnostics{Session: uuid.New(), Points: []DebugPoint{}, Rays: []Ray{}}
	for i, raw := range doc.Points {
		p, ok := decodePoint(raw)
		if !ok {
			topology.Logger().Info("overlay: debug point skipped", "index", i)
			d.Skipped++
			continue
		}
		d.Points = append(d.Points, p)
	}
	for i, raw := range doc.Rays {
		ray, ok := decodeRay(raw)
		if !ok {
			topology.Logger().Info("overlay: ray skipped", "index", i)
			d.Skipped++
			continue
		}
		d.Rays = append(d.Rays, ray)
	}
	return d, nil
}

// LoadDiagnostics reads a diagnostics file.
func LoadDiagnostics(path string) (*Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	defer f.Close()
	d, err := ReadDiagnostics(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	topology.Logger().Info("overlay: loaded diagnostics",
		"path", path, "points", len(d.Points), "rays", len(d.Rays), "skipped", d.Skipped)
	return d, nil
}

func decodePoint(raw json.RawMessage) (DebugPoint, bool) {
	var rec pointRecord
	if err := json.Unmarshal(raw, &rec); err != nil || rec.Name == nil || rec.X == nil || rec.Y == nil || rec.Z == nil {
		return DebugPoint{}, false
	}
	p := DebugPoint{Name: *rec.Name, Pos: topology.NewCoordinate(*rec.X, *rec.Y, *rec.Z)}
	switch {
	case len(rec.Color) == 3:
		p.Color = [3]float32{rec.Color[0], rec.Color[1], rec.Color[2]}
	case len(p.Name) < 4:
		p.Color = shortNameColor
	default:
		p.Color = longNameColor
	}
	return p, true
}

func decodeRay(raw json.RawMessage) (Ray, bool) {
	var rec rayRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Ray{}, false
	}
	if len(rec.St) != 3 || len(rec.D) != 3 || rec.R == nil ||
		rec.ID == nil || rec.From == nil || rec.To == nil || rec.Res == nil {
		return Ray{}, false
	}
	return Ray{
		ID:     *rec.ID,
		Start:  topology.NewCoordinate(rec.St[0], rec.St[1], rec.St[2]),
		Dir:    topology.NewCoordinate(rec.D[0], rec.D[1], rec.D[2]),
		Length: *rec.R,
		From:   *rec.From,
		To:     *rec.To,
		Result: *rec.Res,
	}, true
}

// Merge appends o's points and rays to d and starts a new session.
func (d *Diagnostics) Merge(o *Diagnostics) {
	d.Points = append(d.Points, o.Points...)
	d.Rays = append(d.Rays, o.Rays...)
	d.Skipped += o.Skipped
	d.Session = uuid.New()
}

// Point returns debug point i.
func (d *Diagnostics) Point(i int) (DebugPoint, bool) {
	if i < 0 || i >= len(d.Points) {
		return DebugPoint{}, false
	}
	return d.Points[i], true
}

// RayLayers splits the rays into a clear layer (result zero) and a
// flagged layer, in that order.
func (d *Diagnostics) RayLayers() []Lines {
	passed, flagged := lo.FilterReject(d.Rays, func(r Ray, _ int) bool { return r.Result == 0 })
	segments := func(rays []Ray) []float32 {
		return lo.FlatMap(rays, func(r Ray, _ int) []float32 {
			st, ed := r.Start, r.End()
			return []float32{
				float32(st.X), float32(st.Y), float32(st.Z),
				float32(ed.X), float32(ed.Y), float32(ed.Z),
			}
		})
	}
	return []Lines{
		{Name: "rays", Color: RayClearColor, Lines: segments(passed)},
		{Name: "rays-flagged", Color: RayFlaggedColor, Lines: segments(flagged)},
	}
}
