package importer

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/topoview/pkg/kernel"
	"github.com/pkg/errors"
)

// ReadOBJ decodes Wavefront OBJ geometry. Only v, f, o and g records are
// used. Polygons are fan triangulated, negative indices count back from the
// most recent vertex, and every o or g record that is followed by faces
// starts a new solid. Vertices are not welded: an OBJ already shares them.
//
// Positive face indices are not checked against the vertex count because
// OBJ allows vertices after the faces that use them; topology.Build rejects
// any that remain out of range.
func ReadOBJ(r io.Reader, name string) (*kernel.Mesh, error) {
	mesh := &kernel.Mesh{PartName: name}
	solidName := ""
	begin := 0

	closeSolid := func() {
		if len(mesh.Indices) > begin {
			n := solidName
			if n == "" {
				n = name
			}
			mesh.Solids = append(mesh.Solids, kernel.SolidRange{Begin: begin, End: len(mesh.Indices), Name: n})
		}
		begin = len(mesh.Indices)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Wrapf(ErrMalformedImport, "obj: line %d: vertex needs 3 coordinates", line)
			}
			var p [3]float32
			for i := range p {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, errors.Wrapf(ErrMalformedImport, "obj: line %d: %v", line, err)
				}
				p[i] = float32(f)
			}
			mesh.AddVertex(p[0], p[1], p[2])
		case "f":
			if len(fields) < 4 {
				return nil, errors.Wrapf(ErrMalformedImport, "obj: line %d: face needs 3 vertices", line)
			}
			corners := make([]uint32, len(fields)-1)
			for i, s := range fields[1:] {
				idx, err := faceIndex(s, mesh.VertexCount())
				if err != nil {
					return nil, errors.Wrapf(ErrMalformedImport, "obj: line %d: %v", line, err)
				}
				corners[i] = idx
			}
			for i := 1; i < len(corners)-1; i++ {
				mesh.Indices = append(mesh.Indices, corners[0], corners[i], corners[i+1])
			}
		case "o", "g":
			closeSolid()
			solidName = strings.Join(fields[1:], " ")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "obj")
	}
	closeSolid()

	// A file without o/g records is one implicit solid.
	if len(mesh.Solids) == 1 && mesh.Solids[0].Name == name {
		mesh.Solids = nil
	}
	return mesh, nil
}

// faceIndex resolves one v, v/vt, v//vn or v/vt/vn corner to a 0-based
// vertex index. n is the number of vertices read so far.
func faceIndex(s string, n int) (uint32, error) {
	v := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		v = s[:i]
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.Errorf("bad face index %q", s)
	}
	switch {
	case i > math.MaxUint32:
		return 0, errors.Errorf("face index %d exceeds %d", i, uint64(math.MaxUint32))
	case i > 0:
		return uint32(i - 1), nil
	case i < 0 && int64(n)+i >= 0:
		return uint32(int64(n) + i), nil
	case i < 0:
		return 0, errors.Errorf("relative index %d before vertex %d", i, n)
	}
	return 0, errors.New("face index 0")
}
