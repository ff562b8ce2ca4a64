package foam

import (
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/types"
)

// Raw records are the indexed element lists of a time step as a parser
// emits them. Face and body references are signed: a negative id means
// the element is traversed reversed.

type RawVertex struct {
	ID         int                    `json:"id"`
	Position   [3]float64             `json:"position"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type RawEdge struct {
	ID             int                    `json:"id"`
	Begin          int                    `json:"begin"`
	End            int                    `json:"end"`
	EndTranslation [3]int                 `json:"end_translation,omitempty"`
	Middle         int                    `json:"middle,omitempty"` // quadratic edges
	Points         [][3]float64           `json:"points,omitempty"` // constraint approximated edges
	Attributes     map[string]interface{} `json:"attributes,omitempty"`
}

type RawFace struct {
	ID         int                    `json:"id"`
	Edges      []int                  `json:"edges"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type RawBody struct {
	ID         int                    `json:"id"`
	Faces      []int                  `json:"faces"`
	Object     bool                   `json:"object,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type RawT1 struct {
	Position [3]float64 `json:"position"`
	Type     string     `json:"type"`
}

type RawTimeStep struct {
	Periods  [][3]float64 `json:"periods,omitempty"`
	Vertices []RawVertex  `json:"vertices"`
	Edges    []RawEdge    `json:"edges"`
	Faces    []RawFace    `json:"faces"`
	Bodies   []RawBody    `json:"bodies"`
	T1s      []RawT1      `json:"t1s,omitempty"`
}

// RawAttributeDef declares an attribute beyond the built in ones.
type RawAttributeDef struct {
	Element string `json:"element"` // vertex, edge, face or body
	Name    string `json:"name"`
	Type    string `json:"type"`
}

type RawSeries struct {
	Schema    []RawAttributeDef `json:"schema,omitempty"`
	TimeSteps []RawTimeStep     `json:"time_steps"`
}

func ReadSeries(data []byte) (rs *RawSeries, err error) {
	rs = &RawSeries{}
	if err = yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("unable to parse foam records: %w", err)
	}
	if len(rs.TimeSteps) == 0 {
		return nil, fmt.Errorf("foam records hold no time steps")
	}
	return
}

func LoadSeries(path string) (*RawSeries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadSeries(data)
}

func parseElementKind(name string) (types.ElementKind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, kind := range []types.ElementKind{types.VertexElement, types.EdgeElement, types.FaceElement,
		types.BodyElement} {
		if kind.String() == key {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown element kind %q", name)
}

// NewSchema returns the built in attribute schema extended with defs.
func NewSchema(defs []RawAttributeDef) (s *elements.AttributeSchema, err error) {
	s = elements.NewAttributeSchema()
	for _, def := range defs {
		var (
			kind types.ElementKind
			at   elements.AttributeType
		)
		if kind, err = parseElementKind(def.Element); err != nil {
			return nil, err
		}
		if at, err = elements.NewAttributeType(def.Type); err != nil {
			return nil, err
		}
		if err = s.Define(kind, def.Name, at); err != nil {
			return nil, err
		}
	}
	return
}

func signedIndices(ids []int) []types.SignedIndex {
	sis := make([]types.SignedIndex, len(ids))
	for i, id := range ids {
		sis[i] = types.SignedIndex(id)
	}
	return sis
}
