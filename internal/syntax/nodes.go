package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 classes of nodes: Expressions and Statements. Declarations
// (var, fun) are statements because they may appear wherever a statement
// may, including inside blocks.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Expressions

// LitKind classifies a BasicLit.
type LitKind uint8

const (
	NumberLit LitKind = iota
	StringLit
	TrueLit
	FalseLit
	NilLit
)

var litKindNames = [...]string{
	NumberLit: "number",
	StringLit: "string",
	TrueLit:   "true",
	FalseLit:  "false",
	NilLit:    "nil",
}

func (k LitKind) String() string {
	if int(k) < len(litKindNames) {
		return litKindNames[k]
	}
	return "LitKind(?)"
}

// BasicLit represents a literal value.
type BasicLit struct {
	expr
	Kind  LitKind
	Value string  // literal text, without quotes for strings
	Num   float64 // parsed value for NumberLit
}

// Name represents a variable reference.
type Name struct {
	expr
	Value string // identifier string
}

// AssignExpr represents an assignment: Name = Value
type AssignExpr struct {
	expr
	Name  *Name
	Value Expr
}

// LogicalExpr represents a short-circuit operation: X and Y, X or Y
type LogicalExpr struct {
	expr
	Op Token // _And or _Or
	X  Expr
	Y  Expr
}

// BinaryExpr represents an arithmetic or comparison operation: X Op Y
type BinaryExpr struct {
	expr
	Op Token
	X  Expr
	Y  Expr
}

// UnaryExpr represents a prefix operation: -X, !X
type UnaryExpr struct {
	expr
	Op Token // _Sub or _Not
	X  Expr
}

// ParenExpr represents a parenthesized expression: (X)
type ParenExpr struct {
	expr
	X Expr // inner expression
}

// CallExpr represents a function call: Fun(Args...)
type CallExpr struct {
	expr
	Fun    Expr   // function expression
	Args   []Expr // argument list
	Rparen Pos    // position of closing paren; runtime call errors are reported here
}

// BadExpr is a placeholder for an expression that failed to parse.
type BadExpr struct {
	expr
}

// ----------------------------------------------------------------------------
// Statements

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr // expression
}

// VarDecl represents a variable declaration: var Name = Value;
type VarDecl struct {
	stmt
	Name  *Name // variable name
	Value Expr  // initial value (nil if none, meaning nil)
}

// BlockStmt represents a block statement: { Stmts... }
// A block introduces a new scope.
type BlockStmt struct {
	stmt
	Stmts  []Stmt // statements
	Rbrace Pos    // position of closing brace
}

// IfStmt represents an if statement: if (Cond) Then [else Else]
type IfStmt struct {
	stmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

// WhileStmt represents a while loop. for loops are desugared into one.
type WhileStmt struct {
	stmt
	Cond Expr
	Body Stmt
}

// FuncDecl represents a function declaration: fun Name(Params) { Body }
type FuncDecl struct {
	stmt
	Name   *Name      // function name
	Params []*Name    // parameter names
	Body   *BlockStmt // function body
}

// ReturnStmt represents a return statement: return [Result];
type ReturnStmt struct {
	stmt
	Result Expr // return value (nil for bare return)
}
