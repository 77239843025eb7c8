package overlay

import (
	"fmt"

	"github.com/chazu/topoview/pkg/topology"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

var layerColors = map[topology.Class]color.ColorNumber{
	topology.Boundary:    color.Red,
	topology.Manifold:    color.Green,
	topology.NonManifold: color.Yellow,
}

// Drawing returns a DXF drawing with one line per edge on a layer per
// class.
func (o *Overlay) Drawing() (*drawing.Drawing, error) {
	d := dxf.NewDrawing()
	for _, l := range o.Layers {
		if _, err := d.AddLayer(l.Name, layerColors[l.Class], dxf.DefaultLineType, true); err != nil {
			return nil, fmt.Errorf("overlay: layer %s: %w", l.Name, err)
		}
		if err := d.ChangeLayer(l.Name); err != nil {
			return nil, fmt.Errorf("overlay: layer %s: %w", l.Name, err)
		}
		for i := 0; i+5 < len(l.Lines); i += 6 {
			p := l.Lines[i : i+6]
			if _, err := d.Line(float64(p[0]), float64(p[1]), float64(p[2]),
				float64(p[3]), float64(p[4]), float64(p[5])); err != nil {
				return nil, fmt.Errorf("overlay: line: %w", err)
			}
		}
	}
	return d, nil
}

// WriteDXF saves the overlay as a DXF file.
func (o *Overlay) WriteDXF(path string) error {
	d, err := o.Drawing()
	if err != nil {
		return err
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	topology.Logger().Info("overlay: wrote dxf", "path", path)
	return nil
}
