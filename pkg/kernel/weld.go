package kernel

import "math"

// DefaultWeldTolerance is the grid size used to merge coincident vertices
// of triangle soup.
const DefaultWeldTolerance = 1e-6

// weldKey is a position quantized to the weld grid.
type weldKey struct {
	x, y, z int64
}

func quantize(p [3]float32, tolerance float64) weldKey {
	scale := 1.0 / tolerance
	return weldKey{
		x: int64(math.Round(float64(p[0]) * scale)),
		y: int64(math.Round(float64(p[1]) * scale)),
		z: int64(math.Round(float64(p[2]) * scale)),
	}
}

// Weld returns a copy of m in which vertices whose positions fall in the
// same tolerance cell are merged into one, keeping the first occurrence.
// Triangles, ranges and names are preserved; normals are dropped because
// merged vertices no longer have a single normal. A tolerance <= 0 uses
// DefaultWeldTolerance.
func Weld(m *Mesh, tolerance float64) *Mesh {
	if tolerance <= 0 {
		tolerance = DefaultWeldTolerance
	}

	remap := make([]uint32, m.VertexCount())
	seen := make(map[weldKey]uint32, m.VertexCount())
	out := &Mesh{
		PartName: m.PartName,
		Solids:   append([]SolidRange(nil), m.Solids...),
		Indices:  make([]uint32, len(m.Indices)),
	}

	for i := 0; i < m.VertexCount(); i++ {
		p := m.Point(i)
		key := quantize(p, tolerance)
		if idx, ok := seen[key]; ok {
			remap[i] = idx
			continue
		}
		idx := out.AddVertex(p[0], p[1], p[2])
		seen[key] = idx
		remap[i] = idx
	}

	for i, idx := range m.Indices {
		if int(idx) < len(remap) {
			out.Indices[i] = remap[idx]
		} else {
			// Keep it out of range so the topology builder still rejects it.
			out.Indices[i] = math.MaxUint32
		}
	}
	return out
}
