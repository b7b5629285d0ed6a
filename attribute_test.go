package roadtopo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeValueFromInterface(t *testing.T) {
	tests := []struct {
		value    interface{}
		kind     AttributeKind
		expected interface{}
	}{
		{nil, ATTRIBUTE_NULL, nil},
		{"Main street", ATTRIBUTE_STRING, "Main street"},
		{3.0, ATTRIBUTE_INTEGER, int64(3)},
		{2.5, ATTRIBUTE_FLOAT, 2.5},
		{int(7), ATTRIBUTE_INTEGER, int64(7)},
		{int64(-7), ATTRIBUTE_INTEGER, int64(-7)},
		{float32(0.5), ATTRIBUTE_FLOAT, 0.5},
		{true, ATTRIBUTE_INTEGER, int64(1)},
		{false, ATTRIBUTE_INTEGER, int64(0)},
		{[]interface{}{"a"}, ATTRIBUTE_STRING, "[a]"},
	}
	for _, test := range tests {
		value := AttributeValueFromInterface(test.value)
		assert.Equal(t, test.kind, value.Kind(), "%v", test.value)
		assert.Equal(t, test.expected, value.Interface(), "%v", test.value)
	}
}

func TestAttributeValueAccessors(t *testing.T) {
	integer := IntegerValue(4)
	f, ok := integer.AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)
	_, ok = integer.AsString()
	assert.False(t, ok)

	str := StringValue("x")
	_, ok = str.AsFloat()
	assert.False(t, ok)
	s, ok := str.AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	assert.True(t, NullValue().IsNull())
	assert.True(t, AttributeValue{}.IsNull())
	assert.Equal(t, "null", NullValue().String())
	assert.Equal(t, "4", integer.String())
	assert.Equal(t, "1.500000", FloatValue(1.5).String())

	attrs := AttributesFromMap(map[string]interface{}{"lanes": 2.0, "name": "A1"})
	assert.Equal(t, Attributes{"lanes": IntegerValue(2), "name": StringValue("A1")}, attrs)
	assert.Equal(t, "lanes=2,name=A1", formatAttributes(attrs))
}
