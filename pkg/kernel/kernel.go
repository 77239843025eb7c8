// Package kernel holds the triangle mesh exchanged between importers, the
// scripting engine and the topology builder, plus the abstract geometry
// kernel used to generate primitive solids. The sdfx sub-package provides
// the one concrete kernel.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel generates solids and tessellates them into indexed meshes.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates s. The returned mesh is welded: triangles that
	// touch share vertex indices.
	ToMesh(s Solid) (*Mesh, error)
}
