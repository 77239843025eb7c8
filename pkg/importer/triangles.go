package importer

import (
	"io"

	"github.com/chazu/topoview/pkg/kernel"
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// ReadSTL decodes an ASCII or binary STL file and welds its corners.
func ReadSTL(r io.Reader, name string) (*kernel.Mesh, error) {
	tris, err := model3d.ReadSTL(r)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedImport, "stl: %v", err)
	}
	return fromTriangles(tris, name), nil
}

// ReadOFF decodes an OFF file and welds its corners.
func ReadOFF(r io.Reader, name string) (*kernel.Mesh, error) {
	tris, err := model3d.ReadOFF(r)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedImport, "off: %v", err)
	}
	return fromTriangles(tris, name), nil
}

// fromTriangles converts triangle soup to a welded single-solid mesh.
func fromTriangles(tris []*model3d.Triangle, name string) *kernel.Mesh {
	soup := &kernel.Mesh{PartName: name}
	for _, t := range tris {
		for _, c := range t {
			idx := soup.AddVertex(float32(c.X), float32(c.Y), float32(c.Z))
			soup.Indices = append(soup.Indices, idx)
		}
	}
	return kernel.Weld(soup, kernel.DefaultWeldTolerance)
}
