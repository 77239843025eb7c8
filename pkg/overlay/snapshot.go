package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/chazu/topoview/pkg/topology"
	"github.com/llgcode/draw2d/draw2dimg"
)

// Axis is the view direction of an orthographic snapshot.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis accepts "x", "y" or "z".
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return AxisX, true
	case "y", "Y":
		return AxisY, true
	case "z", "Z":
		return AxisZ, true
	}
	return 0, false
}

// SnapshotOptions controls Snapshot rendering.
type SnapshotOptions struct {
	Width, Height int
	Axis          Axis
	Margin        float64 // pixels
	LineWidth     float64
	Background    color.Color
}

// DefaultSnapshotOptions is a 1024x768 top view on black.
var DefaultSnapshotOptions = SnapshotOptions{
	Width:      1024,
	Height:     768,
	Axis:       AxisZ,
	Margin:     16,
	LineWidth:  1.5,
	Background: color.Black,
}

// project drops the view axis.
func (a Axis) project(x, y, z float32) (float64, float64) {
	switch a {
	case AxisX:
		return float64(y), float64(z)
	case AxisY:
		return float64(x), float64(z)
	default:
		return float64(x), float64(y)
	}
}

// Snapshot draws every layer as an orthographic line drawing fit to the
// image. Layers are drawn in order, so later classes paint over earlier
// ones where segments overlap.
func (o *Overlay) Snapshot(opts SnapshotOptions) *image.RGBA {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultSnapshotOptions.Width, DefaultSnapshotOptions.Height
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultSnapshotOptions.LineWidth
	}
	if opts.Background == nil {
		opts.Background = DefaultSnapshotOptions.Background
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, l := range o.Layers {
		for i := 0; i+2 < len(l.Lines); i += 3 {
			u, v := opts.Axis.project(l.Lines[i], l.Lines[i+1], l.Lines[i+2])
			minX, maxX = math.Min(minX, u), math.Max(maxX, u)
			minY, maxY = math.Min(minY, v), math.Max(maxY, v)
		}
	}
	if math.IsInf(minX, 1) {
		return img
	}

	// Uniform scale so the drawing keeps its aspect ratio; image y grows down.
	w := float64(opts.Width) - 2*opts.Margin
	h := float64(opts.Height) - 2*opts.Margin
	scale := math.Min(w/math.Max(maxX-minX, 1e-9), h/math.Max(maxY-minY, 1e-9))
	offX := opts.Margin + (w-(maxX-minX)*scale)/2
	offY := opts.Margin + (h-(maxY-minY)*scale)/2
	toPixel := func(u, v float64) (float64, float64) {
		return offX + (u-minX)*scale, float64(opts.Height) - (offY + (v-minY)*scale)
	}

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetLineWidth(opts.LineWidth)
	for _, l := range o.Layers {
		gc.SetStrokeColor(color.RGBA{
			R: uint8(l.Color[0] * 255),
			G: uint8(l.Color[1] * 255),
			B: uint8(l.Color[2] * 255),
			A: 255,
		})
		for i := 0; i+5 < len(l.Lines); i += 6 {
			x0, y0 := toPixel(opts.Axis.project(l.Lines[i], l.Lines[i+1], l.Lines[i+2]))
			x1, y1 := toPixel(opts.Axis.project(l.Lines[i+3], l.Lines[i+4], l.Lines[i+5]))
			gc.MoveTo(x0, y0)
			gc.LineTo(x1, y1)
		}
		gc.Stroke()
	}
	return img
}

// SavePNG renders a snapshot and writes it to path.
func (o *Overlay) SavePNG(path string, opts SnapshotOptions) error {
	if err := draw2dimg.SaveToPngFile(path, o.Snapshot(opts)); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	topology.Logger().Info("overlay: wrote png", "path", path)
	return nil
}
