package main

import (
	"fmt"
	"io"

	"github.com/chazu/topoview/pkg/topology"
)

var ansi = map[topology.Class]string{
	topology.Boundary:    "\x1b[31m",
	topology.Manifold:    "\x1b[32m",
	topology.NonManifold: "\x1b[33m",
}

const ansiReset = "\x1b[0m"

type printer struct {
	w     io.Writer
	color bool
}

func (p printer) class(c topology.Class) string {
	if !p.color {
		return c.String()
	}
	return ansi[c] + c.String() + ansiReset
}

func (p printer) census(name string, c topology.Census) {
	fmt.Fprintf(p.w, "%s: %d edges", name, c.Total())
	for _, class := range topology.Classes {
		fmt.Fprintf(p.w, ", %d %s", c.Count(class), p.class(class))
	}
	fmt.Fprintln(p.w)
}
