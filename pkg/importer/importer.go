// Package importer decodes triangle mesh files into kernel meshes.
package importer

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/topoview/pkg/kernel"
	"github.com/chazu/topoview/pkg/topology"
	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no decoder.
	ErrUnsupportedFormat = errors.New("importer: unsupported format")
	// ErrMalformedImport is returned when a file cannot be decoded.
	ErrMalformedImport = errors.New("importer: malformed input")
)

// Format names a supported mesh file format.
type Format string

const (
	OBJ Format = "obj"
	STL Format = "stl"
	OFF Format = "off"
)

// Formats lists the supported formats.
var Formats = []Format{OBJ, STL, OFF}

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range Formats {
		if string(f) == ext {
			return f, true
		}
	}
	return "", false
}

// Load opens path and decodes it by extension. The mesh's PartName is the
// file's base name without extension.
func Load(path string) (*kernel.Mesh, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "importer")
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	mesh, err := Read(f, format, name)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	topology.Logger().Info("importer: loaded",
		"path", path,
		"format", string(format),
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"solids", len(mesh.Ranges()))
	return mesh, nil
}

// Read decodes r as format.
func Read(r io.Reader, format Format, name string) (*kernel.Mesh, error) {
	switch format {
	case OBJ:
		return ReadOBJ(r, name)
	case STL:
		return ReadSTL(r, name)
	case OFF:
		return ReadOFF(r, name)
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", string(format))
}
