package toon

import (
	"testing"
)

func TestValueConstructorsAndAccessors(t *testing.T) {
	if !Null().IsNull() {
		t.Error("Null() should be null")
	}
	var nilVal *Value
	if !nilVal.IsNull() || nilVal.Kind() != KindNull {
		t.Error("nil value should read as null")
	}

	b, err := Bool(true).AsBool()
	if err != nil || !b {
		t.Errorf("AsBool: got %v, %v", b, err)
	}
	i, err := Int(42).AsInt()
	if err != nil || i != 42 {
		t.Errorf("AsInt: got %v, %v", i, err)
	}
	f, err := Float(3.5).AsFloat()
	if err != nil || f != 3.5 {
		t.Errorf("AsFloat: got %v, %v", f, err)
	}
	s, err := Str("hi").AsStr()
	if err != nil || s != "hi" {
		t.Errorf("AsStr: got %q, %v", s, err)
	}

	if _, err := Str("hi").AsInt(); err == nil {
		t.Error("AsInt on a str should fail")
	}
}

func TestValueNumber(t *testing.T) {
	if n, ok := Int(7).Number(); !ok || n != 7 {
		t.Errorf("Int.Number: got %v, %v", n, ok)
	}
	if n, ok := Float(2.5).Number(); !ok || n != 2.5 {
		t.Errorf("Float.Number: got %v, %v", n, ok)
	}
	if _, ok := Str("7").Number(); ok {
		t.Error("Str.Number should report not numeric")
	}
}

func TestValueObjectOrderAndGet(t *testing.T) {
	obj := Object(
		FieldOf("z", Int(1)),
		FieldOf("a", Int(2)),
	)

	fields := obj.Fields()
	if len(fields) != 2 || fields[0].Key != "z" || fields[1].Key != "a" {
		t.Errorf("fields out of source order: %v", fields)
	}
	if got, _ := obj.Get("a").AsInt(); got != 2 {
		t.Errorf("Get(a): got %d", got)
	}
	if obj.Get("missing") != nil {
		t.Error("Get on absent key should return nil")
	}
	if obj.Len() != 2 {
		t.Errorf("Len: got %d", obj.Len())
	}
}

func TestValueSetReplacesInPlace(t *testing.T) {
	obj := Object(FieldOf("a", Int(1)), FieldOf("b", Int(2)))
	obj.Set("a", Int(10))
	obj.Set("c", Int(3))

	fields := obj.Fields()
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Key != "a" {
		t.Errorf("replaced key moved: first field is %q", fields[0].Key)
	}
	if got, _ := fields[0].Value.AsInt(); got != 10 {
		t.Errorf("replaced value: got %d", got)
	}
	if fields[2].Key != "c" {
		t.Errorf("new key should append: last field is %q", fields[2].Key)
	}
}

func TestValueArray(t *testing.T) {
	arr := Array(Int(1), Int(2))
	arr.Append(Int(3))

	if arr.Len() != 3 {
		t.Fatalf("Len: got %d", arr.Len())
	}
	el, err := arr.Index(2)
	if err != nil {
		t.Fatalf("Index(2): %v", err)
	}
	if got, _ := el.AsInt(); got != 3 {
		t.Errorf("Index(2): got %d", got)
	}
	if _, err := arr.Index(3); err == nil {
		t.Error("Index out of bounds should fail")
	}
	if _, err := Str("x").Index(0); err == nil {
		t.Error("Index on non-array should fail")
	}
}

func TestValueIsScalar(t *testing.T) {
	for _, v := range []*Value{Null(), Bool(false), Int(0), Float(0), Str("")} {
		if !v.IsScalar() {
			t.Errorf("%s should be scalar", v.Kind())
		}
	}
	for _, v := range []*Value{Array(), Object()} {
		if v.IsScalar() {
			t.Errorf("%s should not be scalar", v.Kind())
		}
	}
}

func TestValueBuilderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Set on non-object should panic")
		}
	}()
	Str("x").Set("k", Int(1))
}
