package elements

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gofoam/types"
)

// Attribute names with a meaning to the engine
const (
	OriginalAttribute           = "ORIGINAL"
	LagrangeMultiplierAttribute = "LAGRANGE_MULTIPLIER" // pressure
	VolumeAttribute             = "VOLUME"              // target volume
	ActualVolumeAttribute       = "ACTUAL_VOLUME"
	ColorAttribute              = "COLOR"
	VelocityAttribute           = "VELOCITY"
)

type AttributeType uint8

const (
	IntAttribute AttributeType = iota
	RealAttribute
	IntArrayAttribute
	RealArrayAttribute
	ColorAttributeType
)

func (at AttributeType) String() string {
	return [...]string{"integer", "real", "integer_array", "real_array", "color"}[at]
}

var attributeTypeNames = map[string]AttributeType{
	"integer":       IntAttribute,
	"int":           IntAttribute,
	"real":          RealAttribute,
	"integer_array": IntArrayAttribute,
	"real_array":    RealArrayAttribute,
	"color":         ColorAttributeType,
}

func NewAttributeType(name string) (at AttributeType, err error) {
	var ok bool
	if at, ok = attributeTypeNames[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown attribute type %q", name)
	}
	return
}

// Attribute is a single typed value, only the field matching Type is set.
type Attribute struct {
	Type  AttributeType
	Int   int
	Real  float64
	Ints  []int
	Reals []float64 // real arrays and RGBA colors
}

type Attributes map[string]Attribute

func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

func (a Attributes) Int(name string) (int, bool) {
	at, ok := a[name]
	if !ok || at.Type != IntAttribute {
		return 0, false
	}
	return at.Int, true
}

// Real returns real attributes, and integer attributes converted to real.
func (a Attributes) Real(name string) (float64, bool) {
	at, ok := a[name]
	if !ok {
		return 0, false
	}
	switch at.Type {
	case RealAttribute:
		return at.Real, true
	case IntAttribute:
		return float64(at.Int), true
	}
	return 0, false
}

func (a Attributes) Reals(name string) ([]float64, bool) {
	at, ok := a[name]
	if !ok || (at.Type != RealArrayAttribute && at.Type != ColorAttributeType) {
		return nil, false
	}
	return at.Reals, true
}

// Copy returns an independent copy, duplicates carry the attributes of
// their original.
func (a Attributes) Copy() Attributes {
	if a == nil {
		return nil
	}
	c := make(Attributes, len(a))
	for k, v := range a {
		v.Ints = append([]int(nil), v.Ints...)
		v.Reals = append([]float64(nil), v.Reals...)
		c[k] = v
	}
	return c
}

/*
AttributeSchema lists, per element kind, which attribute names may appear and what type they hold.
One schema is created per parse session and passed to element construction.
*/
type AttributeSchema struct {
	defs [4]map[string]AttributeType
}

// NewAttributeSchema returns a schema holding the attributes every foam
// file may carry.
func NewAttributeSchema() *AttributeSchema {
	s := &AttributeSchema{}
	for i := range s.defs {
		s.defs[i] = make(map[string]AttributeType)
	}
	for _, kind := range []types.ElementKind{types.VertexElement, types.EdgeElement, types.FaceElement, types.BodyElement} {
		s.defs[kind][OriginalAttribute] = IntAttribute
	}
	s.defs[types.EdgeElement][ColorAttribute] = ColorAttributeType
	s.defs[types.FaceElement][ColorAttribute] = ColorAttributeType
	s.defs[types.BodyElement][LagrangeMultiplierAttribute] = RealAttribute
	s.defs[types.BodyElement][VolumeAttribute] = RealAttribute
	s.defs[types.BodyElement][ActualVolumeAttribute] = RealAttribute
	s.defs[types.BodyElement][VelocityAttribute] = RealArrayAttribute
	return s
}

// Define adds an attribute. Redefining a name with a different type is an
// error.
func (s *AttributeSchema) Define(kind types.ElementKind, name string, at AttributeType) error {
	if prev, ok := s.defs[kind][name]; ok && prev != at {
		return fmt.Errorf("%s attribute %s already defined as %s, not %s", kind, name, prev, at)
	}
	s.defs[kind][name] = at
	return nil
}

func (s *AttributeSchema) Type(kind types.ElementKind, name string) (AttributeType, bool) {
	at, ok := s.defs[kind][name]
	return at, ok
}

// Parse converts decoded YAML/JSON values into typed attributes.
func (s *AttributeSchema) Parse(kind types.ElementKind, raw map[string]interface{}) (Attributes, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	attrs := make(Attributes, len(raw))
	for name, val := range raw {
		at, ok := s.defs[kind][name]
		if !ok {
			return nil, fmt.Errorf("attribute %s is not defined for %s", name, kind)
		}
		a, err := parseAttribute(at, val)
		if err != nil {
			return nil, fmt.Errorf("%s attribute %s: %w", kind, name, err)
		}
		attrs[name] = a
	}
	return attrs, nil
}

var namedColors = map[string][]float64{
	"black":   {0, 0, 0, 1},
	"white":   {1, 1, 1, 1},
	"red":     {1, 0, 0, 1},
	"green":   {0, 1, 0, 1},
	"blue":    {0, 0, 1, 1},
	"yellow":  {1, 1, 0, 1},
	"cyan":    {0, 1, 1, 1},
	"magenta": {1, 0, 1, 1},
	"clear":   {0, 0, 0, 0},
}

func parseAttribute(at AttributeType, val interface{}) (a Attribute, err error) {
	a.Type = at
	switch at {
	case IntAttribute:
		a.Int, err = toInt(val)
	case RealAttribute:
		a.Real, err = toFloat(val)
	case IntArrayAttribute, RealArrayAttribute:
		list, ok := val.([]interface{})
		if !ok {
			return a, fmt.Errorf("expected an array, have %T", val)
		}
		for _, v := range list {
			if at == IntArrayAttribute {
				var i int
				if i, err = toInt(v); err != nil {
					return
				}
				a.Ints = append(a.Ints, i)
			} else {
				var f float64
				if f, err = toFloat(v); err != nil {
					return
				}
				a.Reals = append(a.Reals, f)
			}
		}
	case ColorAttributeType:
		switch v := val.(type) {
		case string:
			rgba, ok := namedColors[strings.ToLower(v)]
			if !ok {
				return a, fmt.Errorf("unknown color %q", v)
			}
			a.Reals = append([]float64(nil), rgba...)
		case []interface{}:
			if len(v) != 3 && len(v) != 4 {
				return a, fmt.Errorf("colors have 3 or 4 components, have %d", len(v))
			}
			for _, c := range v {
				var f float64
				if f, err = toFloat(c); err != nil {
					return
				}
				a.Reals = append(a.Reals, f)
			}
			if len(a.Reals) == 3 {
				a.Reals = append(a.Reals, 1)
			}
		default:
			return a, fmt.Errorf("expected a color name or components, have %T", val)
		}
	}
	return
}

func toFloat(val interface{}) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("expected a number, have %T", val)
}

func toInt(val interface{}) (int, error) {
	f, err := toFloat(val)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected an integer, have %g", f)
	}
	return int(f), nil
}
