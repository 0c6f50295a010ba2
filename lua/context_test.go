package lua

import (
	"context"
	"strings"
	"testing"
)

func TestParseAll_Registration(t *testing.T) {
	src := `data:extend({ { name = "a", ingredients = {{"b", 1}}, results = {{"a", 1}} } })`

	c := NewContext()
	if err := c.ParseAll(context.Background(), src); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(c.Registrations) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(c.Registrations))
	}

	batch := c.Registrations[0]
	if batch.Kind != KindArray || len(batch.Array) != 1 {
		t.Fatalf("expected single-record batch, got %v", batch)
	}

	record := batch.Array[0]
	if record.Kind != KindMap {
		t.Fatalf("expected record map, got %v", record.Kind)
	}

	// Registration values are simplified
	if name := record.Map["name"]; name.Kind != KindStr || name.Str != "a" {
		t.Errorf("unexpected name: %v", name)
	}
}

func TestParseAll_TopLevelForms(t *testing.T) {
	src := `
-- prototype definitions
local turbo = 1.25
local turbo = 2.5

function scale(amount)
	return amount * turbo
end

results = {}
results[1] = "ore"

if enabled then
	flags = {hidden = true}
end

data:extend({{name = "alpha"}})
data:extend({{name = "beta"}})
`

	c := NewContext()
	if err := c.ParseAll(context.Background(), src); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	// Last write wins for bindings
	turbo, ok := c.Bindings["turbo"]
	if !ok {
		t.Fatal("binding turbo not found")
	}

	if turbo.Kind != ExprLiteral || turbo.Literal.Float != 2.5 {
		t.Errorf("unexpected binding value: %v", turbo)
	}

	if _, ok := c.Functions["scale"]; !ok {
		t.Error("function scale not found")
	}

	// Bare statements are parsed and discarded
	if len(c.Bindings) != 1 {
		t.Errorf("expected only the local binding, got %v", c.Bindings)
	}

	// Registrations are kept in file order
	if len(c.Registrations) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(c.Registrations))
	}

	first := c.Registrations[0].Array[0].Map["name"]
	if first.Str != "alpha" {
		t.Errorf("registrations out of order: first is %q", first.Str)
	}
}

func TestParseAll_FailureLeavesAccumulatorUntouched(t *testing.T) {
	c := NewContext()

	src := "local a = 1\ndata:extend({1, 2}"

	err := c.ParseAll(context.Background(), src)
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}

	if len(c.Bindings) != 1 {
		t.Errorf("expected the successful binding only, got %v", c.Bindings)
	}

	if len(c.Registrations) != 0 {
		t.Errorf("failed registration was committed: %v", c.Registrations)
	}

	if len(c.Functions) != 0 {
		t.Errorf("unexpected functions: %v", c.Functions)
	}
}

func TestParseAll_EmptyInput(t *testing.T) {
	c := NewContext()

	if err := c.ParseAll(context.Background(), "  -- nothing here\n"); err != nil {
		t.Errorf("trivia-only input should parse: %v", err)
	}

	if len(c.Registrations)+len(c.Bindings)+len(c.Functions) != 0 {
		t.Error("expected empty accumulator")
	}
}

func TestParseReader(t *testing.T) {
	c := NewContext()

	r := strings.NewReader(`data:extend({{name = "x"}})`)
	if err := c.ParseReader(context.Background(), r); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(c.Registrations) != 1 {
		t.Errorf("expected 1 registration, got %d", len(c.Registrations))
	}
}

func TestParseDataExtend_OneShot(t *testing.T) {
	v, err := ParseDataExtend(`data:extend({{name = "solo"}})`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if v.Kind != KindArray || len(v.Array) != 1 {
		t.Fatalf("unexpected argument value: %v", v)
	}

	if name := v.Array[0].Map["name"]; name.Str != "solo" {
		t.Errorf("unexpected name: %v", name)
	}

	if _, err := ParseDataExtend("local x = 1"); err == nil {
		t.Error("expected parse error for non-registration input")
	}
}
