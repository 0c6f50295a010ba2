package lua

// ExprKind indicates which variant of an Expr is set.
type ExprKind int

const (
	// ExprVar represents a dotted variable reference.
	ExprVar ExprKind = iota

	// ExprLiteral represents a literal value.
	ExprLiteral

	// ExprFuncall represents a function call.
	ExprFuncall

	// ExprFundef represents an anonymous function definition.
	ExprFundef

	// ExprUnop represents a unary operation.
	ExprUnop

	// ExprBinop represents a binary operation.
	ExprBinop
)

// String returns a string representation of the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprVar:
		return "variable"

	case ExprLiteral:
		return "literal"

	case ExprFuncall:
		return "call"

	case ExprFundef:
		return "function"

	case ExprUnop:
		return "unary"

	case ExprBinop:
		return "binary"

	default:
		return "unknown"
	}
}

// Expr represents one node of an unevaluated expression tree.
// Unary operations store their operand in Right.
type Expr struct {
	Kind ExprKind
	// The fields set depend on Kind
	Path    []string  // ExprVar, ExprFuncall
	Literal *Value    // ExprLiteral
	Args    []*Expr   // ExprFuncall
	Func    *Function // ExprFundef
	Op      Op        // ExprUnop, ExprBinop
	Left    *Expr     // ExprBinop
	Right   *Expr     // ExprUnop, ExprBinop
}

// Op identifies a unary or binary operator.
type Op int

const (
	// OpAdd is the binary + operator.
	OpAdd Op = iota

	// OpSub is the binary - operator.
	OpSub

	// OpMul is the binary * operator.
	OpMul

	// OpDiv is the binary / operator.
	OpDiv

	// OpConcat is the binary .. string concatenation operator.
	OpConcat

	// OpEq is the binary == operator.
	OpEq

	// OpNe is the binary ~= operator.
	OpNe

	// OpLen is the unary # length operator.
	OpLen
)

// String returns the source spelling of the operator.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"

	case OpSub:
		return "-"

	case OpMul:
		return "*"

	case OpDiv:
		return "/"

	case OpConcat:
		return ".."

	case OpEq:
		return "=="

	case OpNe:
		return "~="

	case OpLen:
		return "#"

	default:
		return "?"
	}
}

// LValueKind indicates which variant of an LValue is set.
type LValueKind int

const (
	// LValueDotted represents a dotted-path assignment target.
	LValueDotted LValueKind = iota

	// LValueSubscript represents a bracket-subscript assignment target.
	LValueSubscript
)

// LValue represents an assignment target: a dotted path like a.b.c, or a
// subscript like a.b[expr].
type LValue struct {
	Kind  LValueKind
	Path  []string // LValueDotted
	Base  *LValue  // LValueSubscript
	Index *Expr    // LValueSubscript
}

// StmtKind indicates which variant of a Stmt is set.
type StmtKind int

const (
	// StmtReturn represents a return statement.
	StmtReturn StmtKind = iota

	// StmtAssign represents an assignment, including local bindings.
	StmtAssign

	// StmtIf represents an if/then/else/end conditional.
	StmtIf

	// StmtExpr represents a bare expression statement.
	StmtExpr
)

// Stmt represents one statement. Conditionals are parsed into syntax trees
// but never evaluated.
type Stmt struct {
	Kind StmtKind
	// The fields set depend on Kind
	Expr   *Expr   // StmtReturn, StmtExpr, and the value of StmtAssign
	Target *LValue // StmtAssign
	Cond   *Expr   // StmtIf
	Then   []*Stmt // StmtIf
	Else   []*Stmt // StmtIf; empty when the source has no else branch
}

// Function represents a function definition: ordered parameter names and a
// statement body.
type Function struct {
	Params []string
	Body   []*Stmt
}
