package toon

import "fmt"

// Kind represents value tree node types.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a node in the canonical value tree produced by the format
// converters and consumed by the encoder. It is a tagged union: exactly one
// of the payload fields is valid, selected by kind.
type Value struct {
	kind Kind

	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string

	arrVal []*Value
	objVal []Field
}

// Field is a key-value pair in an object. Objects keep their fields in
// source order; keys are unique within one object.
type Field struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindStr, strVal: v}
}

// Array creates an array value.
func Array(elems ...*Value) *Value {
	return &Value{kind: KindArray, arrVal: elems}
}

// Object creates an object value from ordered fields.
func Object(fields ...Field) *Value {
	return &Value{kind: KindObject, objVal: fields}
}

// FieldOf creates a Field for use in Object construction.
func FieldOf(key string, value *Value) Field {
	return Field{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind. A nil value reads as null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean payload.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("toon: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsInt returns the integer payload.
func (v *Value) AsInt() (int64, error) {
	if v.Kind() != KindInt {
		return 0, fmt.Errorf("toon: expected int, got %s", v.Kind())
	}
	return v.intVal, nil
}

// AsFloat returns the float payload.
func (v *Value) AsFloat() (float64, error) {
	if v.Kind() != KindFloat {
		return 0, fmt.Errorf("toon: expected float, got %s", v.Kind())
	}
	return v.floatVal, nil
}

// AsStr returns the string payload.
func (v *Value) AsStr() (string, error) {
	if v.Kind() != KindStr {
		return "", fmt.Errorf("toon: expected str, got %s", v.Kind())
	}
	return v.strVal, nil
}

// Number returns a numeric value as float64 if int or float.
func (v *Value) Number() (float64, bool) {
	switch v.Kind() {
	case KindInt:
		return float64(v.intVal), true
	case KindFloat:
		return v.floatVal, true
	default:
		return 0, false
	}
}

// IsScalar returns true for null, bool, int, float, and str values.
func (v *Value) IsScalar() bool {
	switch v.Kind() {
	case KindNull, KindBool, KindInt, KindFloat, KindStr:
		return true
	default:
		return false
	}
}

// Len returns the length of an array or object, 0 otherwise.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.arrVal)
	case KindObject:
		return len(v.objVal)
	default:
		return 0
	}
}

// Get returns a field value by key from an object, or nil.
func (v *Value) Get(key string) *Value {
	if v.Kind() != KindObject {
		return nil
	}
	for _, f := range v.objVal {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// Fields returns the ordered fields of an object.
func (v *Value) Fields() []Field {
	if v.Kind() != KindObject {
		return nil
	}
	return v.objVal
}

// Elems returns the elements of an array.
func (v *Value) Elems() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.arrVal
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("toon: not an array")
	}
	if i < 0 || i >= len(v.arrVal) {
		return nil, fmt.Errorf("toon: index %d out of bounds (len=%d)", i, len(v.arrVal))
	}
	return v.arrVal[i], nil
}

// ============================================================
// Builders
// ============================================================

// Set sets a field on an object, replacing an existing key in place.
func (v *Value) Set(key string, val *Value) {
	if v.kind != KindObject {
		panic("toon: cannot set on non-object")
	}
	for i := range v.objVal {
		if v.objVal[i].Key == key {
			v.objVal[i].Value = val
			return
		}
	}
	v.objVal = append(v.objVal, Field{Key: key, Value: val})
}

// Append adds an element to an array.
func (v *Value) Append(val *Value) {
	if v.kind != KindArray {
		panic("toon: cannot append to non-array")
	}
	v.arrVal = append(v.arrVal, val)
}
