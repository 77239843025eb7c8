// Command topocheck reconstructs the half-edge topology of a triangle
// mesh and reports how its edges classify.
//
// The input is an OBJ, STL or OFF file, or a Lisp script evaluated on
// the SDF kernel. On a terminal each edge class prints in its overlay
// color.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/topoview/pkg/overlay"
	"github.com/chazu/topoview/pkg/topology"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/unixpickle/essentials"
)

type options struct {
	Path    string
	Model   int
	Edge    int
	Scale   float64
	Check   bool
	DXF     string
	PNG     string
	Diag    string
	Axis    overlay.Axis
	Verbose bool
	Color   bool
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err == flag.ErrHelp {
		return
	}
	essentials.Must(err)

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	topology.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var out io.Writer = os.Stdout
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		opts.Color = true
		out = colorable.NewColorableStdout()
	}
	if err := run(opts, out); err != nil {
		essentials.Die(err)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	opts := &options{}
	var axis string
	fs.IntVar(&opts.Model, "model", -1, "report the census of one solid")
	fs.IntVar(&opts.Edge, "edge", -1, "report the midpoint of one edge")
	fs.Float64Var(&opts.Scale, "scale", 1, "scale factor applied to the edge camera target")
	fs.BoolVar(&opts.Check, "check", false, "verify topology invariants")
	fs.StringVar(&opts.DXF, "dxf", "", "write the edge overlay to a DXF file")
	fs.StringVar(&opts.PNG, "png", "", "write an edge overlay snapshot to a PNG file")
	fs.StringVar(&opts.Diag, "diag", "", "list debug points and rays from a JSON file")
	fs.StringVar(&axis, "axis", "z", "snapshot view axis (x, y or z)")
	fs.BoolVar(&opts.Verbose, "v", false, "log topology construction")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: topocheck [flags] <model.obj|stl|off|lisp>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("topocheck: expected one input file, got %d", fs.NArg())
	}
	opts.Path = fs.Arg(0)

	a, ok := overlay.ParseAxis(axis)
	if !ok {
		return nil, fmt.Errorf("topocheck: unknown axis %q", axis)
	}
	opts.Axis = a
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("topocheck: scale must be positive, got %v", opts.Scale)
	}
	return opts, nil
}
