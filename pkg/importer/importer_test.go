package importer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/topoview/pkg/topology"
)

const tetraOBJ = `# unit tetrahedron
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`

const tetraOFF = `OFF
4 4 6
0 0 0
1 0 0
0 1 0
0 0 1
3 0 2 1
3 0 1 3
3 0 3 2
3 1 2 3
`

var tetraCorners = [][3][3]float32{
	{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}},
	{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
}

// binarySTL encodes triangles as a binary STL file.
func binarySTL(tris [][3][3]float32) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, t := range tris {
		binary.Write(&buf, binary.LittleEndian, [3]float32{})
		for _, c := range t {
			binary.Write(&buf, binary.LittleEndian, c)
		}
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"part.obj", OBJ, true},
		{"/tmp/PART.STL", STL, true},
		{"a.b.off", OFF, true},
		{"part.step", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatOf(tt.path)
			if got != tt.want || ok != tt.ok {
				t.Errorf("FormatOf(%q) = %q, %v", tt.path, got, ok)
			}
		})
	}
}

func TestReadTetrahedron(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   []byte
	}{
		{"obj", OBJ, []byte(tetraOBJ)},
		{"off", OFF, []byte(tetraOFF)},
		{"stl", STL, binarySTL(tetraCorners)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := Read(bytes.NewReader(tt.data), tt.format, "tetra")
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if mesh.VertexCount() != 4 {
				t.Errorf("vertices = %d, want 4", mesh.VertexCount())
			}
			if mesh.TriangleCount() != 4 {
				t.Errorf("triangles = %d, want 4", mesh.TriangleCount())
			}
			if mesh.PartName != "tetra" {
				t.Errorf("PartName = %q", mesh.PartName)
			}

			m, err := topology.Build(topology.NewRegistry(), mesh)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if c := m.Census(); c != (topology.Census{Manifold: 6}) {
				t.Errorf("census = %v, want 6 manifold", c)
			}
		})
	}
}

func TestReadOBJPolygonsAndGroups(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
o quad
f 1/1 2/2/2 3//3 4
g tail
v 2 0 0
f -4 -1 -3
`
	mesh, err := ReadOBJ(strings.NewReader(src), "part")
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0, 1, 2, 0, 2, 3, 1, 4, 2}
	if len(mesh.Indices) != len(want) {
		t.Fatalf("Indices = %v, want %v", mesh.Indices, want)
	}
	for i := range want {
		if mesh.Indices[i] != want[i] {
			t.Errorf("Indices[%d] = %d, want %d", i, mesh.Indices[i], want[i])
		}
	}
	if len(mesh.Solids) != 2 {
		t.Fatalf("Solids = %+v, want 2", mesh.Solids)
	}
	if mesh.Solids[0].Name != "quad" || mesh.Solids[0].Len() != 6 {
		t.Errorf("Solids[0] = %+v", mesh.Solids[0])
	}
	if mesh.Solids[1].Name != "tail" || mesh.Solids[1].Begin != 6 {
		t.Errorf("Solids[1] = %+v", mesh.Solids[1])
	}
}

func TestReadOBJImplicitSolid(t *testing.T) {
	mesh, err := ReadOBJ(strings.NewReader(tetraOBJ), "tetra")
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Solids) != 0 {
		t.Errorf("Solids = %+v, want none", mesh.Solids)
	}
	if r := mesh.Ranges(); len(r) != 1 || r[0].Name != "tetra" {
		t.Errorf("Ranges() = %+v", r)
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"obj short vertex", OBJ, "v 1 2\n"},
		{"obj bad float", OBJ, "v 1 x 2\n"},
		{"obj short face", OBJ, "v 0 0 0\nf 1 1\n"},
		{"obj zero index", OBJ, "v 0 0 0\nf 0 1 1\n"},
		{"obj relative underflow", OBJ, "v 0 0 0\nf -2 1 1\n"},
		{"obj garbage index", OBJ, "v 0 0 0\nf a b c\n"},
		{"obj index past uint32", OBJ, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 4294967297 2 3\n"},
		{"obj index past int64", OBJ, "v 0 0 0\nf 99999999999999999999 1 1\n"},
		{"off truncated", OFF, "OFF\n4 4 0\n0 0 0\n"},
		{"stl truncated", STL, "\x00\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.data), tt.format, "bad")
			if !errors.Is(err, ErrMalformedImport) {
				t.Errorf("Read() error = %v, want ErrMalformedImport", err)
			}
		})
	}
}

func TestOBJForwardIndexRejectedByBuild(t *testing.T) {
	mesh, err := ReadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nf 1 2 3\n"), "short")
	if err != nil {
		t.Fatalf("ReadOBJ() error = %v", err)
	}
	_, err = topology.Build(topology.NewRegistry(), mesh)
	if !errors.Is(err, topology.ErrInvalidIndex) {
		t.Errorf("Build() error = %v, want ErrInvalidIndex", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.obj")
	if err := os.WriteFile(path, []byte(tetraOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	mesh, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if mesh.PartName != "widget" {
		t.Errorf("PartName = %q, want widget", mesh.PartName)
	}

	if _, err := Load(filepath.Join(dir, "widget.step")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.step) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.obj")); err == nil || errors.Is(err, ErrMalformedImport) {
		t.Errorf("Load(missing) error = %v, want a not-exist error", err)
	}
}

func TestSTLWeldsSharedCorners(t *testing.T) {
	// Two triangles of a square share a diagonal once welded.
	quad := [][3][3]float32{
		{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		{{1, 1, 0}, {0, 1, 0}, {0, 0, math.SmallestNonzeroFloat32}},
	}
	mesh, err := ReadSTL(bytes.NewReader(binarySTL(quad)), "quad")
	if err != nil {
		t.Fatal(err)
	}
	if mesh.VertexCount() != 4 {
		t.Fatalf("vertices = %d, want 4", mesh.VertexCount())
	}
	m, err := topology.Build(topology.NewRegistry(), mesh)
	if err != nil {
		t.Fatal(err)
	}
	if c := m.Census(); c != (topology.Census{Boundary: 4, Manifold: 1}) {
		t.Errorf("census = %v, want 4 boundary 1 manifold", c)
	}
}
