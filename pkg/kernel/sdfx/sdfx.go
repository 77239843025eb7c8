// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. It is the source of
// fixture and demo solids: every mesh it returns is welded, so a closed
// primitive reconstructs into closed topology.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/topoview/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 64

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells         int
	weldTolerance float64
}

// New returns a kernel tessellating at DefaultMeshCells.
func New() *SdfxKernel {
	return NewWithCells(DefaultMeshCells)
}

// NewWithCells returns a kernel whose marching cubes grid has the given
// number of cells along the longest bounding box axis.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells, weldTolerance: kernel.DefaultWeldTolerance}
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions centered at the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a Z-aligned cylinder centered at the origin.
// The segments parameter is ignored since SDF represents smooth surfaces.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	toRad := math.Pi / 180.0
	m := sdf.RotateZ(z * toRad).Mul(sdf.RotateY(y * toRad)).Mul(sdf.RotateX(x * toRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh runs marching cubes over the solid and welds the resulting
// triangle soup into an indexed mesh.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	triangles := render.ToTriangles(unwrap(s), render.NewMarchingCubesUniform(k.cells))
	if len(triangles) == 0 {
		return &kernel.Mesh{}, nil
	}

	soup := &kernel.Mesh{
		Vertices: make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			soup.Indices = append(soup.Indices, soup.AddVertex(float32(v.X), float32(v.Y), float32(v.Z)))
		}
	}

	mesh := kernel.Weld(soup, k.weldTolerance)
	mesh.Normals = kernel.VertexNormals(mesh)
	return mesh, nil
}
