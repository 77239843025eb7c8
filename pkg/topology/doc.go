// Package topology reconstructs a half-edge boundary representation from an
// indexed triangle mesh and classifies every edge by how many half-edges
// reference it.
//
// A Model owns one dense slice per entity type (vertices, edges, half-edges,
// loops, faces, solids). Entities refer to each other by typed index into
// those slices, so the graph has no pointer cycles. Every entity is also
// registered in a caller-owned Registry under a (Type, id) pair; the id is
// the entity's index in its slice.
//
// Building is single-threaded and synchronous. A Registry must not be shared
// by concurrent Build calls.
package topology
