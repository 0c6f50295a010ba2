package lua

import (
	"errors"
	"strings"
	"testing"
)

func TestDecode_Scalars(t *testing.T) {
	if b, err := Bool(NewBool(true)); err != nil || !b {
		t.Errorf("Bool: got %v, %v", b, err)
	}

	if _, err := Bool(NewInt(1)); !errors.Is(err, ErrNotBool) {
		t.Errorf("Bool on integer: got %v", err)
	}

	if s, err := Str(NewStr("ore")); err != nil || s != "ore" {
		t.Errorf("Str: got %q, %v", s, err)
	}

	if _, err := Str(NewInt(1)); !errors.Is(err, ErrNotStr) {
		t.Errorf("Str on integer: got %v", err)
	}

	if i, err := Int(NewInt(42)); err != nil || i != 42 {
		t.Errorf("Int: got %d, %v", i, err)
	}

	if _, err := Int(NewFloat(1.5)); !errors.Is(err, ErrNotInt) {
		t.Errorf("Int on float: got %v", err)
	}
}

func TestDecode_FloatPromotesInt(t *testing.T) {
	if f, err := Float(NewFloat(0.5)); err != nil || f != 0.5 {
		t.Errorf("Float: got %v, %v", f, err)
	}

	if f, err := Float(NewInt(3)); err != nil || f != 3.0 {
		t.Errorf("Float on integer: got %v, %v", f, err)
	}

	if _, err := Float(NewStr("x")); !errors.Is(err, ErrNotFloat) {
		t.Errorf("Float on string: got %v", err)
	}
}

func TestDecode_Slice(t *testing.T) {
	v := NewArray(NewInt(1), NewInt(2), NewInt(3))

	got, err := Slice(Int)(v)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("unexpected slice: %v", got)
	}

	if _, err := Slice(Int)(NewMap(nil)); !errors.Is(err, ErrNotArray) {
		t.Errorf("Slice on map: got %v", err)
	}
}

func TestDecode_SliceNamesFailingIndex(t *testing.T) {
	v := NewArray(NewInt(1), NewStr("oops"), NewInt(3))

	_, err := Slice(Int)(v)
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}

	if !strings.Contains(err.Error(), "index 1") {
		t.Errorf("error does not name the offending index: %v", err)
	}
}

func TestDecode_Table(t *testing.T) {
	v := NewMap(map[string]*Value{
		"iron": NewInt(9),
		"gear": NewInt(5),
	})

	got, err := Table(Int)(v)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["iron"] != 9 || got["gear"] != 5 {
		t.Errorf("unexpected table: %v", got)
	}
}

func TestDecode_TableNamesFailingKey(t *testing.T) {
	v := NewMap(map[string]*Value{"bad": NewStr("oops")})

	_, err := Table(Int)(v)
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}

	if !strings.Contains(err.Error(), `key "bad"`) {
		t.Errorf("error does not name the offending key: %v", err)
	}
}

func TestDecode_Pair(t *testing.T) {
	name, amount, err := Pair(Str, Int)(NewArray(NewStr("iron"), NewInt(2)))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if name != "iron" || amount != 2 {
		t.Errorf("unexpected pair: %q, %d", name, amount)
	}
}

func TestDecode_PairLengthIsDistinctFailure(t *testing.T) {
	_, _, err := Pair(Str, Int)(NewArray(NewStr("iron")))
	if !errors.Is(err, ErrPairLength) {
		t.Errorf("wrong length: got %v", err)
	}

	_, _, err = Pair(Str, Int)(NewStr("iron"))
	if !errors.Is(err, ErrNotArray) {
		t.Errorf("wrong kind: got %v", err)
	}

	if errors.Is(err, ErrPairLength) {
		t.Error("wrong kind must not report wrong length")
	}
}

func TestDecode_Fields(t *testing.T) {
	v := NewMap(map[string]*Value{
		"name":   NewStr("a"),
		"amount": NewInt(2),
	})

	f, err := AsFields(v)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	name, err := Field(f, "name", Str)
	if err != nil || name != "a" {
		t.Errorf("Field name: got %q, %v", name, err)
	}

	// Field removes the key it decodes
	if _, ok := f["name"]; ok {
		t.Error("decoded field was not removed")
	}

	// Taking fields must not mutate the parsed tree
	if _, ok := v.Map["name"]; !ok {
		t.Error("AsFields mutated the source value")
	}
}

func TestDecode_FieldMissingVsMalformed(t *testing.T) {
	f := Fields{"amount": NewStr("two")}

	_, err := Field(f, "name", Str)
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("absent key: got %v", err)
	}

	_, err = Field(f, "amount", Int)
	if err == nil || errors.Is(err, ErrMissingField) {
		t.Errorf("malformed value must not report missing field: %v", err)
	}

	if !strings.Contains(err.Error(), `field "amount"`) {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestDecode_FieldOr(t *testing.T) {
	f := Fields{"enabled": NewBool(false)}

	category, err := FieldOr(f, "category", Str, "crafting")
	if err != nil || category != "crafting" {
		t.Errorf("absent key default: got %q, %v", category, err)
	}

	enabled, err := FieldOr(f, "enabled", Bool, true)
	if err != nil || enabled {
		t.Errorf("present key: got %v, %v", enabled, err)
	}

	// Present but malformed still fails
	f["speed"] = NewStr("fast")

	if _, err := FieldOr(f, "speed", Float, 1.0); err == nil {
		t.Error("malformed value must not fall back to the default")
	}
}

func TestDecode_NestedPathAccumulates(t *testing.T) {
	v := NewArray(NewArray(NewStr("ok"), NewStr("oops")))

	_, err := Slice(Slice(Str))(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := NewArray(NewArray(NewStr("ok"), NewInt(1)))

	_, err = Slice(Slice(Str))(bad)
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}

	msg := err.Error()
	if !strings.Contains(msg, "index 0") || !strings.Contains(msg, "index 1") {
		t.Errorf("error does not carry the nested path: %q", msg)
	}
}
