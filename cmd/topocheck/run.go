package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/topoview/pkg/engine"
	"github.com/chazu/topoview/pkg/importer"
	"github.com/chazu/topoview/pkg/kernel"
	"github.com/chazu/topoview/pkg/kernel/sdfx"
	"github.com/chazu/topoview/pkg/overlay"
	"github.com/chazu/topoview/pkg/topology"
	"github.com/pkg/errors"
)

// ErrInvalid reports that the built model failed its invariant check.
var ErrInvalid = errors.New("topocheck: topology invariants violated")

// newKernel builds the kernel for Lisp inputs.
var newKernel = func() kernel.Kernel { return sdfx.New() }

func run(opts *options, w io.Writer) error {
	mesh, err := load(opts.Path)
	if err != nil {
		return err
	}
	m, err := topology.Build(topology.NewRegistry(), mesh)
	if err != nil {
		return errors.Wrapf(err, "topocheck: %s", opts.Path)
	}

	p := printer{w: w, color: opts.Color}
	p.census(m.Name, m.Census())
	fmt.Fprintf(w, "%d vertices, %d faces, %d solids\n", len(m.Vertices), len(m.Faces), len(m.Solids))

	if opts.Model >= 0 {
		c, ok := m.SolidCensus(topology.SolidID(opts.Model))
		if !ok {
			return errors.Errorf("topocheck: solid %d out of range [0,%d)", opts.Model, len(m.Solids))
		}
		p.census(fmt.Sprintf("solid %d %q", opts.Model, m.Solid(topology.SolidID(opts.Model)).Name), c)
	}

	if opts.Edge >= 0 {
		e, ok := m.LookupEdge(opts.Edge)
		if !ok {
			return errors.Errorf("topocheck: edge %d out of range [0,%d)", opts.Edge, len(m.Edges))
		}
		mid := m.Midpoint(e)
		target := overlay.CameraTarget(mid, opts.Scale)
		fmt.Fprintf(w, "edge %d: %s, vertices %d-%d, midpoint %s, camera %s\n",
			opts.Edge, p.class(topology.Classify(e)), e.St, e.Ed, formatPoint(mid), formatPoint(target))
	}

	if opts.Check {
		errs := topology.Validate(m)
		for _, e := range errs {
			fmt.Fprintln(w, e.Error())
		}
		if len(errs) > 0 {
			return errors.Wrapf(ErrInvalid, "%d problems", len(errs))
		}
		fmt.Fprintln(w, "topology ok")
	}

	if opts.Diag != "" {
		d, err := overlay.LoadDiagnostics(opts.Diag)
		if err != nil {
			return errors.Wrap(err, "topocheck")
		}
		flagged := 0
		for _, r := range d.Rays {
			if r.Result != 0 {
				flagged++
			}
		}
		fmt.Fprintf(w, "diagnostics: %d points, %d rays (%d flagged), %d skipped\n",
			len(d.Points), len(d.Rays), flagged, d.Skipped)
		for i, pt := range d.Points {
			fmt.Fprintf(w, "point %d %q %s\n", i, pt.Name, formatPoint(pt.Pos))
		}
	}

	if opts.DXF == "" && opts.PNG == "" {
		return nil
	}
	ov := overlay.Build(m)
	if opts.DXF != "" {
		if err := ov.WriteDXF(opts.DXF); err != nil {
			return errors.Wrap(err, "topocheck: write dxf")
		}
		fmt.Fprintf(w, "wrote %s\n", opts.DXF)
	}
	if opts.PNG != "" {
		snap := overlay.DefaultSnapshotOptions
		snap.Axis = opts.Axis
		if err := ov.SavePNG(opts.PNG, snap); err != nil {
			return errors.Wrap(err, "topocheck: write png")
		}
		fmt.Fprintf(w, "wrote %s\n", opts.PNG)
	}
	return nil
}

// load reads a mesh file or evaluates a Lisp script.
func load(path string) (*kernel.Mesh, error) {
	if !strings.EqualFold(filepath.Ext(path), ".lisp") {
		return importer.Load(path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "topocheck")
	}
	mesh, evalErrs, err := engine.NewEngine(newKernel()).Evaluate(string(src))
	if err != nil {
		return nil, errors.Wrapf(err, "topocheck: %s", path)
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, errors.Errorf("topocheck: %s: %s", path, strings.Join(msgs, "; "))
	}
	if mesh.PartName == "" {
		mesh.PartName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return mesh, nil
}

func formatPoint(c topology.Coordinate) string {
	return fmt.Sprintf("(%g, %g, %g)", c.X, c.Y, c.Z)
}
