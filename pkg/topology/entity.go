package topology

import "fmt"

// Type tags an entity kind in the Registry. The numeric values are stable
// and appear in exported identifiers.
type Type int

const (
	NoExist    Type = iota // lookup miss
	TypeEntity             // abstract base, never registered
	TypeSolid
	TypeFace
	TypeLoop
	TypeHalfEdge
	TypeEdge
	TypeVertex
)

func (t Type) String() string {
	switch t {
	case NoExist:
		return "none"
	case TypeEntity:
		return "entity"
	case TypeSolid:
		return "solid"
	case TypeFace:
		return "face"
	case TypeLoop:
		return "loop"
	case TypeHalfEdge:
		return "halfedge"
	case TypeEdge:
		return "edge"
	case TypeVertex:
		return "vertex"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Entity is implemented by the six topology node types. It is the key of
// the Registry's forward map.
type Entity interface {
	Type() Type
}

// Typed indices into the Model's per-type slices.
type (
	VertexID   int
	EdgeID     int
	HalfEdgeID int
	LoopID     int
	FaceID     int
	SolidID    int
)

// Vertex is one input point. Coincident input points stay distinct.
type Vertex struct {
	ID    VertexID
	Point Coordinate
}

func (*Vertex) Type() Type { return TypeVertex }

// Edge is the undirected connection between two vertices. St and Ed keep
// the direction of the triangle that first introduced the pair. HalfEdges
// lists every half-edge running along the edge, in insertion order.
type Edge struct {
	ID        EdgeID
	St, Ed    VertexID
	HalfEdges []HalfEdgeID
}

func (*Edge) Type() Type { return TypeEdge }

// HalfEdge is one directed use of an Edge by one Loop. Sense is false when
// the traversal runs St->Ed of the edge, true when reversed. Partner links
// the half-edges of one edge into a cycle; Pre and Next link the half-edges
// of one loop into a cycle.
type HalfEdge struct {
	ID      HalfEdgeID
	Edge    EdgeID
	Sense   bool
	Loop    LoopID
	Partner HalfEdgeID
	Pre     HalfEdgeID
	Next    HalfEdgeID
}

func (*HalfEdge) Type() Type { return TypeHalfEdge }

// Loop is the three-half-edge cycle bounding one triangle.
type Loop struct {
	ID   LoopID
	St   HalfEdgeID
	Face FaceID
}

func (*Loop) Type() Type { return TypeLoop }

// Face is one input triangle. Coplanar triangles are not merged.
type Face struct {
	ID    FaceID
	Loop  LoopID
	Solid SolidID
}

func (*Face) Type() Type { return TypeFace }

// Solid groups the faces of one input solid range. Faces holds each face
// once, in insertion order.
type Solid struct {
	ID    SolidID
	Name  string
	Faces []FaceID
}

func (*Solid) Type() Type { return TypeSolid }

// AddFace appends f unless it is already present.
func (s *Solid) AddFace(f FaceID) {
	for _, have := range s.Faces {
		if have == f {
			return
		}
	}
	s.Faces = append(s.Faces, f)
}

// Ref is a (Type, id) identifier, the registry's key for an entity.
type Ref struct {
	Type Type `json:"type"`
	ID   int  `json:"id"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.Type, r.ID)
}
