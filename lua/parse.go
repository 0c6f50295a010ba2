package lua

import (
	"slices"
	"strconv"
	"strings"
)

// parser holds the parser state.
//
// Every rule is all-or-nothing: it either consumes its full form and returns
// true, or restores pos to where the rule started and returns false. Rules
// consume trailing whitespace and comments after their own lexemes; leading
// trivia is the preceding rule's responsibility (or the driver's, for the
// first token).
type parser struct {
	input   string
	pos     int
	trail   []string
	deepest *SyntaxError
}

func newParser(input string) *parser {
	return &parser{input: input}
}

// reserved identifiers cannot be used as bare names.
var reserved = map[string]bool{
	"return": true,
	"true":   true,
	"false":  true,
	"if":     true,
	"then":   true,
	"else":   true,
	"end":    true,
}

const numChars = "-0123456789."

// Helper methods

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

// expect consumes tag if it prefixes the remaining input.
func (p *parser) expect(tag string) bool {
	if strings.HasPrefix(p.input[p.pos:], tag) {
		p.pos += len(tag)

		return true
	}

	return false
}

// fail records the failure position for diagnostics when it is the deepest
// reached so far. It always returns false so rules can fail in one line.
func (p *parser) fail(expected string) bool {
	if p.deepest == nil || p.pos > p.deepest.Offset {
		p.deepest = &SyntaxError{
			Source:   p.input,
			Offset:   p.pos,
			Expected: expected,
			Trail:    slices.Clone(p.trail),
		}
	}

	return false
}

// scope pushes a rule name onto the diagnostic trail.
// The returned func pops it.
func (p *parser) scope(rule string) func() {
	p.trail = append(p.trail, rule)

	return func() { p.trail = p.trail[:len(p.trail)-1] }
}

// syntaxError returns the deepest recorded failure.
func (p *parser) syntaxError() *SyntaxError {
	if p.deepest != nil {
		return p.deepest
	}

	return &SyntaxError{
		Source:   p.input,
		Offset:   p.pos,
		Expected: "top-level form",
	}
}

// skipTrivia consumes whitespace and line comments until a fixed point.
// A line comment is "--" followed by at least one character other than a
// line break, running through end of line.
func (p *parser) skipTrivia() {
	for {
		start := p.pos

		for !p.eof() && isSpace(p.input[p.pos]) {
			p.pos++
		}

		if strings.HasPrefix(p.input[p.pos:], "--") {
			if c := p.pos + 2; c < len(p.input) && !isLineBreak(p.input[c]) {
				p.pos = c

				for !p.eof() && !isLineBreak(p.input[p.pos]) {
					p.pos++
				}
			}
		}

		if p.pos == start {
			return
		}
	}
}

// comma consumes a comma separator and trailing trivia.
func (p *parser) comma() bool {
	if !p.expect(",") {
		return false
	}

	p.skipTrivia()

	return true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isLineBreak(b byte) bool {
	return b == '\r' || b == '\n'
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// Token rules

// parseIdent parses an identifier that is not a reserved word.
func (p *parser) parseIdent() (string, bool) {
	start := p.pos

	if p.eof() || !isIdentStart(p.input[p.pos]) {
		return "", p.fail("identifier")
	}

	p.pos++

	for !p.eof() && isIdentPart(p.input[p.pos]) {
		p.pos++
	}

	ident := p.input[start:p.pos]

	p.skipTrivia()

	if reserved[ident] {
		p.pos = start

		return "", p.fail("identifier")
	}

	return ident, true
}

// parsePath parses a dotted path of identifiers: a.b.c.
func (p *parser) parsePath() ([]string, bool) {
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}

	path := []string{name}

	for {
		start := p.pos

		if !p.expect(".") {
			break
		}

		next, ok := p.parseIdent()
		if !ok {
			p.pos = start

			break
		}

		path = append(path, next)
	}

	p.skipTrivia()

	return path, true
}

// Value rules

// parseNum parses the longest run of numeric characters as an integer,
// falling back to a float. Runs that parse as neither fail the rule.
func (p *parser) parseNum() (*Value, bool) {
	start := p.pos

	for !p.eof() && strings.IndexByte(numChars, p.input[p.pos]) >= 0 {
		p.pos++
	}

	if p.pos == start {
		return nil, p.fail("number")
	}

	text := p.input[start:p.pos]

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		p.skipTrivia()

		return NewInt(i), true
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		p.skipTrivia()

		return NewFloat(f), true
	}

	p.fail("number")
	p.pos = start

	return nil, false
}

func (p *parser) parseBool() (*Value, bool) {
	switch {
	case p.expect("true"):
		p.skipTrivia()

		return NewBool(true), true

	case p.expect("false"):
		p.skipTrivia()

		return NewBool(false), true
	}

	return nil, p.fail("boolean")
}

// parseStr parses a double-quoted string. The body is taken verbatim and
// may not contain quote or backslash characters; there are no escapes.
func (p *parser) parseStr() (*Value, bool) {
	start := p.pos

	if !p.expect(`"`) {
		return nil, p.fail("string")
	}

	begin := p.pos

	for !p.eof() && p.input[p.pos] != '"' && p.input[p.pos] != '\\' {
		p.pos++
	}

	body := p.input[begin:p.pos]

	if !p.expect(`"`) {
		p.fail(`"`)
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	return NewStr(body), true
}

// parseArray parses a non-empty array literal: { expr, expr, ... }.
// A trailing comma is permitted.
func (p *parser) parseArray() (*Value, bool) {
	defer p.scope("array")()

	start := p.pos

	if !p.expect("{") {
		return nil, p.fail("{")
	}

	p.skipTrivia()

	first, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return nil, false
	}

	elems := []*Value{NewExpr(first)}

	for {
		sep := p.pos

		if !p.comma() {
			break
		}

		e, ok := p.parseExpr()
		if !ok {
			p.pos = sep

			break
		}

		elems = append(elems, NewExpr(e))
	}

	p.skipTrivia()
	p.comma()

	if !p.expect("}") {
		p.fail("}")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	return NewArray(elems...), true
}

// parseMap parses a possibly-empty map literal: { ident = expr, ... }.
// A trailing comma is permitted. Duplicate keys keep the last value.
func (p *parser) parseMap() (*Value, bool) {
	defer p.scope("map")()

	start := p.pos

	if !p.expect("{") {
		return nil, p.fail("{")
	}

	p.skipTrivia()

	fields := make(map[string]*Value)

	if key, val, ok := p.parseField(); ok {
		fields[key] = val

		for {
			sep := p.pos

			if !p.comma() {
				break
			}

			key, val, ok := p.parseField()
			if !ok {
				p.pos = sep

				break
			}

			fields[key] = val
		}
	}

	p.skipTrivia()
	p.comma()

	if !p.expect("}") {
		p.fail("}")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	return NewMap(fields), true
}

// parseField parses one map entry: ident = expr.
func (p *parser) parseField() (string, *Value, bool) {
	defer p.scope("field")()

	start := p.pos

	ident, ok := p.parseIdent()
	if !ok {
		return "", nil, false
	}

	p.skipTrivia()

	if !p.expect("=") {
		p.fail("=")
		p.pos = start

		return "", nil, false
	}

	p.skipTrivia()

	e, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return "", nil, false
	}

	return ident, NewExpr(e), true
}

// parseValue parses one literal value. Bare dotted names become deferred
// variable-reference expression values.
func (p *parser) parseValue() (*Value, bool) {
	if v, ok := p.parseNum(); ok {
		return v, true
	}

	if v, ok := p.parseBool(); ok {
		return v, true
	}

	if v, ok := p.parseStr(); ok {
		return v, true
	}

	if v, ok := p.parseArray(); ok {
		return v, true
	}

	if v, ok := p.parseMap(); ok {
		return v, true
	}

	if path, ok := p.parsePath(); ok {
		return NewExpr(&Expr{Kind: ExprVar, Path: path}), true
	}

	return nil, p.fail("value")
}

// Expression rules

// parseExpr parses one expression.
func (p *parser) parseExpr() (*Expr, bool) {
	defer p.scope("expression")()

	if fn, ok := p.parseAnonFunction(); ok {
		return &Expr{Kind: ExprFundef, Func: fn}, true
	}

	if e, ok := p.parseFuncall(); ok {
		return e, true
	}

	if e, ok := p.parseBinop(); ok {
		return e, true
	}

	if e, ok := p.parseUnop(); ok {
		return e, true
	}

	if e, ok := p.parseParen(); ok {
		return e, true
	}

	if v, ok := p.parseValue(); ok {
		return &Expr{Kind: ExprLiteral, Literal: v}, true
	}

	return nil, p.fail("expression")
}

// parseFuncall parses a call: path ( expr, ... ).
func (p *parser) parseFuncall() (*Expr, bool) {
	defer p.scope("call")()

	start := p.pos

	path, ok := p.parsePath()
	if !ok {
		return nil, false
	}

	if !p.expect("(") {
		p.fail("(")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	var args []*Expr

	if e, ok := p.parseExpr(); ok {
		args = append(args, e)

		for {
			sep := p.pos

			if !p.comma() {
				break
			}

			e, ok := p.parseExpr()
			if !ok {
				p.pos = sep

				break
			}

			args = append(args, e)
		}
	}

	if !p.expect(")") {
		p.fail(")")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	return &Expr{Kind: ExprFuncall, Path: path, Args: args}, true
}

// parseBinop parses a binary operation. The left operand is a single value
// literal and the right operand is a full expression, so chains associate to
// the right with no precedence levels. This matches the limited expression
// shapes present in prototype files and is not corrected here.
func (p *parser) parseBinop() (*Expr, bool) {
	start := p.pos

	lhs, ok := p.parseValue()
	if !ok {
		return nil, false
	}

	op, ok := p.parseBinopOp()
	if !ok {
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	rhs, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return nil, false
	}

	return &Expr{
		Kind:  ExprBinop,
		Op:    op,
		Left:  &Expr{Kind: ExprLiteral, Literal: lhs},
		Right: rhs,
	}, true
}

func (p *parser) parseBinopOp() (Op, bool) {
	switch {
	case p.expect("+"):
		return OpAdd, true

	case p.expect("-"):
		return OpSub, true

	case p.expect("*"):
		return OpMul, true

	case p.expect("/"):
		return OpDiv, true

	case p.expect(".."):
		return OpConcat, true

	case p.expect("=="):
		return OpEq, true

	case p.expect("~="):
		return OpNe, true
	}

	return 0, p.fail("operator")
}

// parseUnop parses the length operator: # expr.
func (p *parser) parseUnop() (*Expr, bool) {
	start := p.pos

	if !p.expect("#") {
		return nil, p.fail("#")
	}

	p.skipTrivia()

	e, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return nil, false
	}

	return &Expr{Kind: ExprUnop, Op: OpLen, Right: e}, true
}

// parseParen parses a parenthesized sub-expression.
func (p *parser) parseParen() (*Expr, bool) {
	start := p.pos

	if !p.expect("(") {
		return nil, p.fail("(")
	}

	p.skipTrivia()

	e, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return nil, false
	}

	if !p.expect(")") {
		p.fail(")")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	return e, true
}

// Statement rules

// parseLValue parses an assignment target: a dotted path, optionally
// followed by one bracketed index expression.
func (p *parser) parseLValue() (*LValue, bool) {
	defer p.scope("lvalue")()

	start := p.pos

	path, ok := p.parsePath()
	if !ok {
		return nil, false
	}

	if !p.expect("[") {
		return &LValue{Kind: LValueDotted, Path: path}, true
	}

	p.skipTrivia()

	idx, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return nil, false
	}

	if !p.expect("]") {
		p.fail("]")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	return &LValue{
		Kind:  LValueSubscript,
		Base:  &LValue{Kind: LValueDotted, Path: path},
		Index: idx,
	}, true
}

// parseAssign parses: lvalue = expr.
func (p *parser) parseAssign() (*Stmt, bool) {
	defer p.scope("assignment")()

	start := p.pos

	target, ok := p.parseLValue()
	if !ok {
		return nil, false
	}

	p.skipTrivia()

	if !p.expect("=") {
		p.fail("=")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	rhs, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return nil, false
	}

	return &Stmt{Kind: StmtAssign, Target: target, Expr: rhs}, true
}

// parseLocal parses: local name = expr.
func (p *parser) parseLocal() (string, *Expr, bool) {
	defer p.scope("local")()

	start := p.pos

	if !p.expect("local") {
		p.fail("local")

		return "", nil, false
	}

	p.skipTrivia()

	name, ok := p.parseIdent()
	if !ok {
		p.pos = start

		return "", nil, false
	}

	p.skipTrivia()

	if !p.expect("=") {
		p.fail("=")
		p.pos = start

		return "", nil, false
	}

	p.skipTrivia()

	e, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return "", nil, false
	}

	p.skipTrivia()

	return name, e, true
}

// parseReturn parses: return expr.
func (p *parser) parseReturn() (*Stmt, bool) {
	start := p.pos

	if !p.expect("return") {
		return nil, p.fail("return")
	}

	p.skipTrivia()

	e, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	return &Stmt{Kind: StmtReturn, Expr: e}, true
}

// parseIfThen parses: if expr then stmts [else stmts] end.
// The condition is captured as a syntax tree, never evaluated.
func (p *parser) parseIfThen() (*Stmt, bool) {
	defer p.scope("conditional")()

	start := p.pos

	if !p.expect("if") {
		return nil, p.fail("if")
	}

	p.skipTrivia()

	cond, ok := p.parseExpr()
	if !ok {
		p.pos = start

		return nil, false
	}

	if !p.expect("then") {
		p.fail("then")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	then, ok := p.parseStmts()
	if !ok {
		p.pos = start

		return nil, false
	}

	var els []*Stmt

	switch {
	case p.expect("else"):
		p.skipTrivia()

		els, ok = p.parseStmts()
		if !ok {
			p.pos = start

			return nil, false
		}

		if !p.expect("end") {
			p.fail("end")
			p.pos = start

			return nil, false
		}

	case p.expect("end"):
		// no else branch

	default:
		p.fail("else or end")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	return &Stmt{Kind: StmtIf, Cond: cond, Then: then, Else: els}, true
}

// parseStmt parses one statement.
func (p *parser) parseStmt() (*Stmt, bool) {
	defer p.scope("statement")()

	if s, ok := p.parseReturn(); ok {
		return s, true
	}

	if s, ok := p.parseAssign(); ok {
		return s, true
	}

	if name, e, ok := p.parseLocal(); ok {
		return &Stmt{
			Kind:   StmtAssign,
			Target: &LValue{Kind: LValueDotted, Path: []string{name}},
			Expr:   e,
		}, true
	}

	if s, ok := p.parseIfThen(); ok {
		return s, true
	}

	if e, ok := p.parseExpr(); ok {
		return &Stmt{Kind: StmtExpr, Expr: e}, true
	}

	return nil, p.fail("statement")
}

// parseStmts parses one or more statements.
func (p *parser) parseStmts() ([]*Stmt, bool) {
	s, ok := p.parseStmt()
	if !ok {
		return nil, false
	}

	stmts := []*Stmt{s}

	for {
		s, ok := p.parseStmt()
		if !ok {
			break
		}

		stmts = append(stmts, s)
	}

	return stmts, true
}

// Function rules

// parseFunction parses a function definition. The name position is supplied
// by the caller: named functions parse and keep an identifier, anonymous
// functions consume nothing.
func (p *parser) parseFunction(nameFn func() (string, bool)) (string, *Function, bool) {
	defer p.scope("function")()

	start := p.pos

	if !p.expect("function") {
		return "", nil, p.fail("function")
	}

	p.skipTrivia()

	name, ok := nameFn()
	if !ok {
		p.pos = start

		return "", nil, false
	}

	if !p.expect("(") {
		p.fail("(")
		p.pos = start

		return "", nil, false
	}

	p.skipTrivia()

	var params []string

	if id, ok := p.parseIdent(); ok {
		params = append(params, id)

		for {
			sep := p.pos

			if !p.comma() {
				break
			}

			id, ok := p.parseIdent()
			if !ok {
				p.pos = sep

				break
			}

			params = append(params, id)
		}
	}

	if !p.expect(")") {
		p.fail(")")
		p.pos = start

		return "", nil, false
	}

	p.skipTrivia()

	body, ok := p.parseStmts()
	if !ok {
		p.pos = start

		return "", nil, false
	}

	if !p.expect("end") {
		p.fail("end")
		p.pos = start

		return "", nil, false
	}

	p.skipTrivia()

	return name, &Function{Params: params, Body: body}, true
}

// parseNamedFunction parses: function name ( params ) body end.
func (p *parser) parseNamedFunction() (string, *Function, bool) {
	return p.parseFunction(func() (string, bool) {
		name, ok := p.parseIdent()
		if !ok {
			return "", false
		}

		p.skipTrivia()

		return name, true
	})
}

// parseAnonFunction parses: function ( params ) body end.
func (p *parser) parseAnonFunction() (*Function, bool) {
	_, fn, ok := p.parseFunction(func() (string, bool) { return "", true })

	return fn, ok
}

// parseDataExtend parses the registration call form and returns its single
// argument value.
func (p *parser) parseDataExtend() (*Value, bool) {
	defer p.scope("data:extend")()

	start := p.pos

	if !p.expect("data:extend(") {
		return nil, p.fail("data:extend(")
	}

	p.skipTrivia()

	v, ok := p.parseValue()
	if !ok {
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	if !p.expect(")") {
		p.fail(")")
		p.pos = start

		return nil, false
	}

	p.skipTrivia()

	return v, true
}
