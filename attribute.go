package roadtopo

import (
	"fmt"
	"math"
)

type AttributeKind uint16

const (
	ATTRIBUTE_NULL = AttributeKind(iota + 1)
	ATTRIBUTE_STRING
	ATTRIBUTE_INTEGER
	ATTRIBUTE_FLOAT
)

func (iotaIdx AttributeKind) String() string {
	return [...]string{"null", "string", "integer", "float"}[iotaIdx-1]
}

// AttributeValue is a value attached to a node or an edge. It holds exactly one of
// null, string, integer or float.
type AttributeValue struct {
	kind AttributeKind
	s    string
	i    int64
	f    float64
}

// Attributes is a set of named values carried by graph nodes and edges
type Attributes map[string]AttributeValue

func NullValue() AttributeValue {
	return AttributeValue{kind: ATTRIBUTE_NULL}
}

func StringValue(s string) AttributeValue {
	return AttributeValue{kind: ATTRIBUTE_STRING, s: s}
}

func IntegerValue(i int64) AttributeValue {
	return AttributeValue{kind: ATTRIBUTE_INTEGER, i: i}
}

func FloatValue(f float64) AttributeValue {
	return AttributeValue{kind: ATTRIBUTE_FLOAT, f: f}
}

// Kind returns the variant held. The zero AttributeValue is null.
func (v AttributeValue) Kind() AttributeKind {
	if v.kind == 0 {
		return ATTRIBUTE_NULL
	}
	return v.kind
}

func (v AttributeValue) IsNull() bool {
	return v.Kind() == ATTRIBUTE_NULL
}

func (v AttributeValue) AsString() (string, bool) {
	return v.s, v.kind == ATTRIBUTE_STRING
}

func (v AttributeValue) AsInteger() (int64, bool) {
	return v.i, v.kind == ATTRIBUTE_INTEGER
}

// AsFloat returns float values as is and widens integers.
func (v AttributeValue) AsFloat() (float64, bool) {
	switch v.kind {
	case ATTRIBUTE_FLOAT:
		return v.f, true
	case ATTRIBUTE_INTEGER:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Interface returns the plain Go value (nil, string, int64 or float64)
func (v AttributeValue) Interface() interface{} {
	switch v.Kind() {
	case ATTRIBUTE_STRING:
		return v.s
	case ATTRIBUTE_INTEGER:
		return v.i
	case ATTRIBUTE_FLOAT:
		return v.f
	default:
		return nil
	}
}

func (v AttributeValue) String() string {
	switch v.Kind() {
	case ATTRIBUTE_STRING:
		return v.s
	case ATTRIBUTE_INTEGER:
		return fmt.Sprintf("%d", v.i)
	case ATTRIBUTE_FLOAT:
		return fmt.Sprintf("%f", v.f)
	default:
		return "null"
	}
}

// AttributeValueFromInterface converts decoded JSON-like values. Whole numbers become
// integers; anything that isn't a string, a number or a bool becomes its fmt representation.
func AttributeValueFromInterface(value interface{}) AttributeValue {
	switch t := value.(type) {
	case nil:
		return NullValue()
	case string:
		return StringValue(t)
	case int:
		return IntegerValue(int64(t))
	case int32:
		return IntegerValue(int64(t))
	case int64:
		return IntegerValue(t)
	case float32:
		return AttributeValueFromInterface(float64(t))
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return IntegerValue(int64(t))
		}
		return FloatValue(t)
	case bool:
		if t {
			return IntegerValue(1)
		}
		return IntegerValue(0)
	default:
		return StringValue(fmt.Sprintf("%v", t))
	}
}

// AttributesFromMap converts GeoJSON style properties
func AttributesFromMap(properties map[string]interface{}) Attributes {
	attrs := make(Attributes, len(properties))
	for k, v := range properties {
		attrs[k] = AttributeValueFromInterface(v)
	}
	return attrs
}
