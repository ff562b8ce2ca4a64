package types

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

type DuplicateStatus uint8

const (
	Original DuplicateStatus = iota
	Duplicate
)

func (ds DuplicateStatus) String() string {
	return [...]string{"ORIGINAL", "DUPLICATE"}[ds]
}

type ElementKind uint8

const (
	VertexElement ElementKind = iota
	EdgeElement
	FaceElement
	BodyElement
)

func (ek ElementKind) String() string {
	return [...]string{"vertex", "edge", "face", "body"}[ek]
}

// T1Type classifies a topological rearrangement between two time steps
type T1Type uint8

const (
	T1QuadToQuad T1Type = iota
	T1TriToEdge
	T1EdgeToTri
	T1PopEdge
	T1PopVertex
)

func (tt T1Type) String() string {
	return [...]string{"quad_to_quad", "tri_to_edge", "edge_to_tri", "pop_edge", "pop_vertex"}[tt]
}

var T1NameMap = map[string]T1Type{
	"quad_to_quad": T1QuadToQuad,
	"t1":           T1QuadToQuad,
	"tri_to_edge":  T1TriToEdge,
	"edge_to_tri":  T1EdgeToTri,
	"pop_edge":     T1PopEdge,
	"pop_vertex":   T1PopVertex,
}

func NewT1Type(name string) (tt T1Type, err error) {
	var ok bool
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if tt, ok = T1NameMap[key]; !ok {
		err = fmt.Errorf("unknown T1 type %q", name)
	}
	return
}

// T1 is a topological change located at Position. TimeStep t means the
// change happens between t and t+1.
type T1 struct {
	Position r3.Vec
	Type     T1Type
	TimeStep int
	Bodies   []int // bodies whose neighbor sets changed, empty when read from input
}

func (t T1) String() string {
	return fmt.Sprintf("T1{step:%d type:%s pos:(%g,%g,%g) bodies:%v}",
		t.TimeStep, t.Type, t.Position.X, t.Position.Y, t.Position.Z, t.Bodies)
}
