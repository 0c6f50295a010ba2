package lua

import (
	"testing"
)

func TestParseValue_Booleans(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "true", want: true},
		{input: "false", want: false},
		{input: "true   ", want: true},
		{input: "false -- trailing comment", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseValue(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if v.Kind != KindBool {
				t.Fatalf("expected boolean, got %v", v.Kind)
			}

			if v.Bool != tt.want {
				t.Errorf("expected %v, got %v", tt.want, v.Bool)
			}
		})
	}
}

func TestParseValue_Strings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: `"recipe"`, want: "recipe"},
		{name: "empty", input: `""`, want: ""},
		{name: "spaces kept verbatim", input: `"iron plate"`, want: "iron plate"},
		{name: "punctuation", input: `"a-b_c.d{e}"`, want: "a-b_c.d{e}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseValue(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if v.Kind != KindStr {
				t.Fatalf("expected string, got %v", v.Kind)
			}

			if v.Str != tt.want {
				t.Errorf("expected %q, got %q", tt.want, v.Str)
			}
		})
	}
}

func TestParseValue_Numbers(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		kind      Kind
		wantInt   int64
		wantFloat float64
	}{
		{name: "integer", input: "42", kind: KindInt, wantInt: 42},
		{name: "negative integer", input: "-7", kind: KindInt, wantInt: -7},
		{name: "float", input: "1.5", kind: KindFloat, wantFloat: 1.5},
		{name: "leading dot", input: ".25", kind: KindFloat, wantFloat: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseValue(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if v.Kind != tt.kind {
				t.Fatalf("expected %v, got %v", tt.kind, v.Kind)
			}

			if tt.kind == KindInt && v.Int != tt.wantInt {
				t.Errorf("expected %d, got %d", tt.wantInt, v.Int)
			}

			if tt.kind == KindFloat && v.Float != tt.wantFloat {
				t.Errorf("expected %v, got %v", tt.wantFloat, v.Float)
			}
		})
	}
}

func TestParseValue_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "multiple dots", input: "1.2.3"},
		{name: "bare dash", input: "-"},
		{name: "reserved word", input: "end"},
		{name: "unterminated string", input: `"open`},
		{name: "unclosed array", input: "{1, 2"},
		{name: "empty input", input: ""},
		{name: "trailing input", input: "1 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseValue(tt.input)
			if err == nil {
				t.Errorf("expected parse error, got nil")
			}
		})
	}
}

func TestParseValue_Array(t *testing.T) {
	v, err := ParseValue("{1, 2, 3}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if v.Kind != KindArray {
		t.Fatalf("expected array, got %v", v.Kind)
	}

	if len(v.Array) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(v.Array))
	}

	for i, want := range []int64{1, 2, 3} {
		elem := v.Array[i]
		if elem.Kind != KindInt || elem.Int != want {
			t.Errorf("element %d: expected integer %d, got %v", i, want, elem)
		}
	}
}

func TestParseValue_ArrayTrailingComma(t *testing.T) {
	v, err := ParseValue("{1, 2,}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(v.Array) != 2 {
		t.Errorf("expected 2 elements, got %d", len(v.Array))
	}
}

func TestParseValue_Map(t *testing.T) {
	v, err := ParseValue(`{name = "foo", amount = 2}`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if v.Kind != KindMap {
		t.Fatalf("expected map, got %v", v.Kind)
	}

	if len(v.Map) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(v.Map))
	}

	name := v.Map["name"]
	if name == nil || name.Kind != KindStr || name.Str != "foo" {
		t.Errorf("expected name entry \"foo\", got %v", name)
	}

	amount := v.Map["amount"]
	if amount == nil || amount.Kind != KindInt || amount.Int != 2 {
		t.Errorf("expected amount entry 2, got %v", amount)
	}
}

func TestParseValue_MapEdgeCases(t *testing.T) {
	t.Run("empty map", func(t *testing.T) {
		v, err := ParseValue("{}")
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		if v.Kind != KindMap || len(v.Map) != 0 {
			t.Errorf("expected empty map, got %v", v)
		}
	})

	t.Run("duplicate keys keep last", func(t *testing.T) {
		v, err := ParseValue("{a = 1, a = 2}")
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		if got := v.Map["a"]; got == nil || got.Int != 2 {
			t.Errorf("expected a = 2, got %v", got)
		}
	})
}

func TestParseValue_Nested(t *testing.T) {
	v, err := ParseValue(`{
		name = "assembler", -- display name
		ingredients = {{"iron-plate", 9}, {"gear", 5}},
		flags = {hidden = false},
	}`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	ing := v.Map["ingredients"]
	if ing == nil || ing.Kind != KindArray || len(ing.Array) != 2 {
		t.Fatalf("expected 2-element ingredients array, got %v", ing)
	}

	first := ing.Array[0]
	if first.Kind != KindArray || len(first.Array) != 2 {
		t.Fatalf("expected tuple, got %v", first)
	}

	if first.Array[0].Str != "iron-plate" || first.Array[1].Int != 9 {
		t.Errorf("unexpected tuple contents: %v", first.Array)
	}

	flags := v.Map["flags"]
	if flags == nil || flags.Kind != KindMap {
		t.Fatalf("expected nested map, got %v", flags)
	}

	if hidden := flags.Map["hidden"]; hidden == nil || hidden.Bool != false {
		t.Errorf("expected hidden = false, got %v", hidden)
	}
}

func TestParseValue_BareName(t *testing.T) {
	v, err := ParseValue("data.raw.recipe")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if v.Kind != KindExpr {
		t.Fatalf("expected expression, got %v", v.Kind)
	}

	if v.Expr.Kind != ExprVar {
		t.Fatalf("expected variable reference, got %v", v.Expr.Kind)
	}

	want := []string{"data", "raw", "recipe"}
	if len(v.Expr.Path) != len(want) {
		t.Fatalf("expected path %v, got %v", want, v.Expr.Path)
	}

	for i := range want {
		if v.Expr.Path[i] != want[i] {
			t.Errorf("path segment %d: expected %q, got %q",
				i, want[i], v.Expr.Path[i])
		}
	}
}

func TestParseExpr_Binop(t *testing.T) {
	p := newParser("1 + 2 * 3")

	e, ok := p.parseExpr()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	// Chains associate to the right: 1 + (2 * 3)
	if e.Kind != ExprBinop || e.Op != OpAdd {
		t.Fatalf("expected + at root, got %v %v", e.Kind, e.Op)
	}

	if e.Left.Kind != ExprLiteral || e.Left.Literal.Int != 1 {
		t.Errorf("expected literal 1 on the left, got %v", e.Left)
	}

	right := e.Right
	if right.Kind != ExprBinop || right.Op != OpMul {
		t.Fatalf("expected * on the right, got %v %v", right.Kind, right.Op)
	}

	if right.Left.Literal.Int != 2 || right.Right.Literal.Int != 3 {
		t.Errorf("unexpected operands: %v %v", right.Left, right.Right)
	}
}

func TestParseExpr_Operators(t *testing.T) {
	tests := []struct {
		input string
		op    Op
	}{
		{input: `"a" .. "b"`, op: OpConcat},
		{input: "a == b", op: OpEq},
		{input: "a ~= b", op: OpNe},
		{input: "5 - 3", op: OpSub},
		{input: "5 / 3", op: OpDiv},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := newParser(tt.input)

			e, ok := p.parseExpr()
			if !ok {
				t.Fatalf("parse failed: %v", p.syntaxError())
			}

			if e.Kind != ExprBinop || e.Op != tt.op {
				t.Errorf("expected %v, got %v %v", tt.op, e.Kind, e.Op)
			}
		})
	}
}

func TestParseExpr_Unop(t *testing.T) {
	p := newParser("#list")

	e, ok := p.parseExpr()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	if e.Kind != ExprUnop || e.Op != OpLen {
		t.Fatalf("expected length operator, got %v %v", e.Kind, e.Op)
	}

	if e.Right.Kind != ExprLiteral || e.Right.Literal.Expr.Kind != ExprVar {
		t.Errorf("expected variable operand, got %v", e.Right)
	}
}

func TestParseExpr_Funcall(t *testing.T) {
	p := newParser(`table.insert(list, "item")`)

	e, ok := p.parseExpr()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	if e.Kind != ExprFuncall {
		t.Fatalf("expected call, got %v", e.Kind)
	}

	if len(e.Path) != 2 || e.Path[0] != "table" || e.Path[1] != "insert" {
		t.Errorf("unexpected path: %v", e.Path)
	}

	if len(e.Args) != 2 {
		t.Errorf("expected 2 arguments, got %d", len(e.Args))
	}
}

func TestParseExpr_EmptyCall(t *testing.T) {
	p := newParser("noop()")

	e, ok := p.parseExpr()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	if e.Kind != ExprFuncall || len(e.Args) != 0 {
		t.Errorf("expected zero-argument call, got %v", e)
	}
}

func TestParseExpr_Paren(t *testing.T) {
	p := newParser("(1 + 2)")

	e, ok := p.parseExpr()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	if e.Kind != ExprBinop || e.Op != OpAdd {
		t.Errorf("expected + inside parens, got %v %v", e.Kind, e.Op)
	}
}

func TestParseExpr_AnonFunction(t *testing.T) {
	p := newParser("function(a, b) return a end")

	e, ok := p.parseExpr()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	if e.Kind != ExprFundef {
		t.Fatalf("expected function, got %v", e.Kind)
	}

	if len(e.Func.Params) != 2 {
		t.Errorf("expected 2 parameters, got %v", e.Func.Params)
	}

	if len(e.Func.Body) != 1 || e.Func.Body[0].Kind != StmtReturn {
		t.Errorf("expected single return body, got %v", e.Func.Body)
	}
}

func TestParseStmt_Assign(t *testing.T) {
	p := newParser(`data.raw.fluid = "water"`)

	s, ok := p.parseStmt()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	if s.Kind != StmtAssign {
		t.Fatalf("expected assignment, got %v", s.Kind)
	}

	if s.Target.Kind != LValueDotted || len(s.Target.Path) != 3 {
		t.Errorf("unexpected target: %v", s.Target)
	}
}

func TestParseStmt_SubscriptAssign(t *testing.T) {
	p := newParser(`results[1] = "ore"`)

	s, ok := p.parseStmt()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	if s.Kind != StmtAssign {
		t.Fatalf("expected assignment, got %v", s.Kind)
	}

	target := s.Target
	if target.Kind != LValueSubscript {
		t.Fatalf("expected subscript target, got %v", target.Kind)
	}

	if target.Base.Kind != LValueDotted || target.Base.Path[0] != "results" {
		t.Errorf("unexpected base: %v", target.Base)
	}

	if target.Index.Kind != ExprLiteral || target.Index.Literal.Int != 1 {
		t.Errorf("unexpected index: %v", target.Index)
	}
}

func TestParseStmt_IfThenElse(t *testing.T) {
	t.Run("with else", func(t *testing.T) {
		p := newParser("if x == 1 then y = 2 else y = 3 end")

		s, ok := p.parseStmt()
		if !ok {
			t.Fatalf("parse failed: %v", p.syntaxError())
		}

		if s.Kind != StmtIf {
			t.Fatalf("expected conditional, got %v", s.Kind)
		}

		if s.Cond.Kind != ExprBinop || s.Cond.Op != OpEq {
			t.Errorf("unexpected condition: %v", s.Cond)
		}

		if len(s.Then) != 1 || len(s.Else) != 1 {
			t.Errorf("expected 1 statement per branch, got %d/%d",
				len(s.Then), len(s.Else))
		}
	})

	t.Run("without else", func(t *testing.T) {
		p := newParser("if ok then y = 2 end")

		s, ok := p.parseStmt()
		if !ok {
			t.Fatalf("parse failed: %v", p.syntaxError())
		}

		if len(s.Then) != 1 || len(s.Else) != 0 {
			t.Errorf("expected empty else branch, got %d/%d",
				len(s.Then), len(s.Else))
		}
	})
}

func TestParseStmt_Return(t *testing.T) {
	p := newParser("return {1, 2}")

	s, ok := p.parseStmt()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	if s.Kind != StmtReturn {
		t.Fatalf("expected return, got %v", s.Kind)
	}
}

func TestParseNamedFunction(t *testing.T) {
	p := newParser("function scale(amount) return amount end")

	name, fn, ok := p.parseNamedFunction()
	if !ok {
		t.Fatalf("parse failed: %v", p.syntaxError())
	}

	if name != "scale" {
		t.Errorf("expected name scale, got %q", name)
	}

	if len(fn.Params) != 1 || fn.Params[0] != "amount" {
		t.Errorf("unexpected parameters: %v", fn.Params)
	}
}

func TestSkipTrivia(t *testing.T) {
	p := newParser("  -- comment\n\t-- another\n  true")
	p.skipTrivia()

	before := p.pos

	// Idempotent: a second application consumes nothing.
	p.skipTrivia()

	if p.pos != before {
		t.Errorf("second skip advanced from %d to %d", before, p.pos)
	}

	v, ok := p.parseBool()
	if !ok || !v.Bool {
		t.Errorf("expected true after trivia, got %v", v)
	}
}

func TestSyntaxError_Rendering(t *testing.T) {
	_, err := ParseValue("{name = }")
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}

	msg := err.Error()
	if !containsAll(msg, "line 1", "column") {
		t.Errorf("error lacks position: %q", msg)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		found := false

		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}
