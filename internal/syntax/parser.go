package syntax

import (
	"fmt"
	"io"
	"strconv"
)

// Default maximum number of errors before aborting parse.
const maxErrors = 10

// Maximum number of parameters in a declaration or arguments in a call.
const maxArgs = 255

// Parser performs syntax analysis on a scanned Lox token stream.
type Parser struct {
	tokens []Lexeme
	idx    int // index of the current token in tokens

	// Current token info (cached from tokens[idx])
	tok Token
	lit string
	pos Pos

	// Error handling
	errh      ErrorHandler
	errcnt    int
	first     error // first error encountered
	abort     bool  // set to true when error limit reached
	maxErrors int   // 0 means no limit

	// panicking is set by a syntax error and cleared once the parser has
	// synchronized at the next statement boundary. Errors reported while
	// panicking are dropped since they are almost always knock-on effects.
	panicking bool
}

// NewParser creates a new Parser over tokens, which should end with an
// EOF token as produced by Scan; one is appended if missing.
// The errh function is called for each syntax error; it may be nil.
func NewParser(tokens []Lexeme, errh ErrorHandler) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Tok != _EOF {
		var pos Pos
		if n > 0 {
			pos = tokens[n-1].Pos
		}
		tokens = append(tokens[:n:n], Lexeme{Tok: _EOF, Pos: pos})
	}

	p := &Parser{
		tokens:    tokens,
		idx:       -1,
		errh:      errh,
		maxErrors: maxErrors,
	}
	p.next() // prime the parser with first token
	return p
}

// SetErrorLimit sets the number of errors after which parsing stops.
// A limit of 0 disables the check.
func (p *Parser) SetErrorLimit(n int) {
	if n < 0 {
		n = 0
	}
	p.maxErrors = n
}

// ParseFile scans and parses src. Parsing succeeded if and only if both
// returned diagnostic lists are empty.
func ParseFile(filename string, src io.Reader) ([]Stmt, []*ScanError, []*SyntaxError) {
	tokens, scanErrs := Scan(filename, src)

	var syntaxErrs []*SyntaxError
	p := NewParser(tokens, func(err *SyntaxError) {
		syntaxErrs = append(syntaxErrs, err)
	})
	stmts := p.Parse()
	return stmts, scanErrs, syntaxErrs
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token. It never moves past EOF.
func (p *Parser) next() {
	if p.abort {
		return
	}
	if p.idx < len(p.tokens)-1 {
		p.idx++
	}
	t := p.tokens[p.idx]
	p.tok = t.Tok
	p.lit = t.Lit
	p.pos = t.Pos
}

// lexeme returns the current token.
func (p *Parser) lexeme() Lexeme {
	return Lexeme{Tok: p.tok, Lit: p.lit, Pos: p.pos}
}

// prev returns the kind of the token before the current one.
func (p *Parser) prev() Token {
	if p.idx > 0 {
		return p.tokens[p.idx-1].Tok
	}
	return _EOF
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, reports a missing-token error and returns false.
func (p *Parser) want(tok Token) bool {
	if p.got(tok) {
		return true
	}
	kind, ok := missingKinds[tok]
	if !ok {
		kind = ExpectedExpression
	}
	p.syntaxError(kind, fmt.Sprintf("%s, found %s", kind, describe(p.lexeme())))
	return false
}

// expect is like want but returns the expected token, or an ERROR
// placeholder at the current position if it was missing.
func (p *Parser) expect(tok Token) Lexeme {
	lex := p.lexeme()
	if p.want(tok) {
		return lex
	}
	return Lexeme{Tok: _Error, Pos: lex.Pos}
}

var missingKinds = map[Token]SyntaxErrorKind{
	_Semi:   MissingSemicolon,
	_Lparen: MissingLeftParen,
	_Rparen: MissingRightParen,
	_Lbrace: MissingLeftBrace,
	_Rbrace: MissingRightBrace,
	_Name:   ExpectedIdentifier,
}

// describe renders a token for use in an error message.
func describe(l Lexeme) string {
	switch l.Tok {
	case _EOF:
		return "EOF"
	case _Name:
		return "name " + l.Lit
	case _Number:
		return "number " + l.Lit
	case _String:
		return "string " + l.Lit
	}
	return "'" + l.Tok.String() + "'"
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError reports a syntax error at the current token and puts the
// parser in panic mode until the enclosing declaration synchronizes.
func (p *Parser) syntaxError(kind SyntaxErrorKind, msg string) {
	if p.panicking {
		return
	}
	p.panicking = true
	p.syntaxErrorAt(p.lexeme(), kind, msg)
}

// syntaxErrorAt reports a syntax error at a specific token without
// entering panic mode. Used for errors that leave the parser in a
// well-defined state.
func (p *Parser) syntaxErrorAt(tok Lexeme, kind SyntaxErrorKind, msg string) {
	if p.abort {
		return
	}
	err := &SyntaxError{Pos: tok.Pos, Kind: kind, Tok: tok, Msg: msg}
	if p.errcnt == 0 {
		p.first = err
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(err)
	}

	p.errorLimitCheck(tok)
}

// errorLimitCheck aborts parsing if too many errors have occurred.
func (p *Parser) errorLimitCheck(tok Lexeme) {
	if p.maxErrors > 0 && p.errcnt >= p.maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(&SyntaxError{
				Pos:  tok.Pos,
				Kind: TooManyErrors,
				Tok:  tok,
				Msg:  "too many errors; aborting parse",
			})
		}
		p.tok = _EOF
	}
}

// synchronize skips tokens until a statement boundary: just past a ';',
// or before a token that starts a statement. start is the token index at
// which the failed declaration began; at least one token is consumed
// if the declaration consumed none, so the parser always makes progress.
func (p *Parser) synchronize(start int) {
	p.panicking = false
	if p.idx == start {
		p.next()
	}

	for p.tok != _EOF {
		if p.prev() == _Semi {
			return
		}
		switch p.tok {
		case _Fun, _Var, _For, _If, _While, _Return, _Lbrace:
			return
		}
		p.next()
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses the whole token stream and returns its statements.
// The result is only meaningful if no errors were reported.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !p.abort && p.tok != _EOF {
		stmts = append(stmts, p.decl())
	}
	return stmts
}

// ----------------------------------------------------------------------------
// Helper methods

// name parses an identifier and returns a Name node.
func (p *Parser) name() *Name {
	if p.tok != _Name {
		p.syntaxError(ExpectedIdentifier, fmt.Sprintf("expected identifier, found %s", describe(p.lexeme())))
		// Return a placeholder for error recovery
		n := &Name{Value: "_"}
		n.pos = p.pos
		return n
	}
	n := &Name{Value: p.lit}
	n.pos = p.pos
	p.next()
	return n
}

// ----------------------------------------------------------------------------
// Declarations

// decl parses a declaration or statement, synchronizing afterwards if it
// contained a syntax error.
func (p *Parser) decl() Stmt {
	start := p.idx

	var s Stmt
	switch p.tok {
	case _Var:
		s = p.varDecl()
	case _Fun:
		s = p.funcDecl()
	default:
		s = p.stmt()
	}

	if p.panicking {
		p.synchronize(start)
	}
	return s
}

// varDecl parses: var Name [= Value];
func (p *Parser) varDecl() *VarDecl {
	d := &VarDecl{}
	d.pos = p.pos

	p.want(_Var)
	d.Name = p.name()

	// Optional initializer
	if p.got(_Assign) {
		d.Value = p.expr()
	}

	p.want(_Semi)
	return d
}

// funcDecl parses: fun Name(params) { body }
func (p *Parser) funcDecl() *FuncDecl {
	d := &FuncDecl{}
	d.pos = p.pos

	p.want(_Fun)
	d.Name = p.name()
	d.Params = p.paramList()
	d.Body = p.blockStmt()

	return d
}

// paramList parses (p1, p2, ...)
func (p *Parser) paramList() []*Name {
	if !p.want(_Lparen) {
		return nil
	}

	var params []*Name
	if p.tok != _Rparen {
		for {
			if len(params) == maxArgs {
				p.syntaxErrorAt(p.lexeme(), TooManyParameters,
					fmt.Sprintf("too many parameters (max %d)", maxArgs))
			}
			params = append(params, p.name())
			if !p.got(_Comma) {
				break
			}
		}
	}

	p.want(_Rparen)
	return params
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a statement.
func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Lbrace:
		return p.blockStmt()

	case _If:
		return p.ifStmt()

	case _While:
		return p.whileStmt()

	case _For:
		return p.forStmt()

	case _Return:
		return p.returnStmt()

	default:
		return p.exprStmt()
	}
}

// exprStmt parses an expression statement: expr;
func (p *Parser) exprStmt() *ExprStmt {
	s := &ExprStmt{}
	s.pos = p.pos
	s.X = p.expr()
	p.want(_Semi)
	return s
}

// blockStmt parses { decls... }
func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.pos

	if !p.want(_Lbrace) {
		b.Rbrace = p.pos
		return b
	}

	for p.tok != _Rbrace && p.tok != _EOF {
		b.Stmts = append(b.Stmts, p.decl())
	}

	b.Rbrace = p.pos
	p.want(_Rbrace)

	return b
}

// ifStmt parses: if (cond) then [else else]
func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.pos

	p.want(_If)
	p.want(_Lparen)
	s.Cond = p.expr()
	p.want(_Rparen)
	s.Then = p.stmt()

	if p.got(_Else) {
		s.Else = p.stmt()
	}

	return s
}

// whileStmt parses: while (cond) body
func (p *Parser) whileStmt() Stmt {
	s := &WhileStmt{}
	s.pos = p.pos

	p.want(_While)
	p.want(_Lparen)
	s.Cond = p.expr()
	p.want(_Rparen)
	s.Body = p.stmt()

	return s
}

// forStmt parses: for (init; cond; incr) body
//
// There is no for node: the loop is desugared into
//
//	{ init; while (cond) { body; incr; } }
//
// with the outer block omitted when there is no initializer, the inner
// block omitted when there is no increment, and a missing condition
// replaced by true.
func (p *Parser) forStmt() Stmt {
	pos := p.pos

	p.want(_For)
	p.want(_Lparen)

	var init Stmt
	switch p.tok {
	case _Semi:
		p.next()
	case _Var:
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond Expr
	if p.tok != _Semi {
		cond = p.expr()
	}
	condEnd := p.pos
	p.want(_Semi)

	var incr Expr
	if p.tok != _Rparen {
		incr = p.expr()
	}
	p.want(_Rparen)

	body := p.stmt()

	if incr != nil {
		step := &ExprStmt{X: incr}
		step.pos = incr.Pos()
		b := &BlockStmt{Stmts: []Stmt{body, step}}
		b.pos = body.Pos()
		b.Rbrace = p.pos
		body = b
	}

	if cond == nil {
		lit := &BasicLit{Kind: TrueLit, Value: "true"}
		lit.pos = condEnd
		cond = lit
	}

	loop := &WhileStmt{Cond: cond, Body: body}
	loop.pos = pos

	if init == nil {
		return loop
	}
	outer := &BlockStmt{Stmts: []Stmt{init, loop}}
	outer.pos = pos
	outer.Rbrace = p.pos
	return outer
}

// returnStmt parses: return [expr];
func (p *Parser) returnStmt() Stmt {
	s := &ReturnStmt{}
	s.pos = p.pos

	p.want(_Return)

	// Optional return value (check for statement terminators)
	if p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		s.Result = p.expr()
	}

	p.want(_Semi)
	return s
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression.
func (p *Parser) expr() Expr {
	return p.assignment()
}

// assignment parses: Name = assignment | binaryExpr
// The target is parsed as an ordinary expression first and checked
// afterwards, so any expression may appear left of '='.
func (p *Parser) assignment() Expr {
	x := p.binaryExpr(0)

	if p.tok != _Assign {
		return x
	}
	eq := p.lexeme()
	p.next()
	value := p.assignment()

	if n, ok := x.(*Name); ok {
		a := &AssignExpr{Name: n, Value: value}
		a.pos = n.pos
		return a
	}

	if !p.panicking {
		p.syntaxErrorAt(eq, InvalidAssignmentTarget, "invalid assignment target")
	}
	return x
}

// binaryExpr parses a binary expression with minimum precedence prec.
// Implements precedence climbing; all operators are left associative.
func (p *Parser) binaryExpr(prec int) Expr {
	x := p.unaryExpr()

	for {
		// Check if current token is a binary operator with sufficient precedence
		oprec := p.tok.Precedence()
		if oprec <= prec {
			return x
		}

		op := p.tok
		pos := x.Pos()
		p.next() // consume operator

		// Parse right operand with higher precedence (left associative)
		y := p.binaryExpr(oprec)

		if op == _And || op == _Or {
			l := &LogicalExpr{Op: op, X: x, Y: y}
			l.pos = pos
			x = l
		} else {
			b := &BinaryExpr{Op: op, X: x, Y: y}
			b.pos = pos
			x = b
		}
	}
}

// unaryExpr parses a unary expression.
func (p *Parser) unaryExpr() Expr {
	switch p.tok {
	case _Not, _Sub:
		u := &UnaryExpr{Op: p.tok}
		u.pos = p.pos
		p.next()
		u.X = p.unaryExpr()
		return u

	default:
		return p.primaryExpr()
	}
}

// primaryExpr parses an operand followed by any number of calls.
func (p *Parser) primaryExpr() Expr {
	x := p.operand()
	for p.tok == _Lparen {
		x = p.callExpr(x)
	}
	return x
}

// operand parses a literal, a name or a parenthesized expression.
func (p *Parser) operand() Expr {
	switch p.tok {
	case _Name:
		n := &Name{Value: p.lit}
		n.pos = p.pos
		p.next()
		return n

	case _Number:
		lit := &BasicLit{Kind: NumberLit, Value: p.lit}
		lit.pos = p.pos
		// The scanner only produces digits with an optional fraction,
		// which always parse; overflow saturates to +Inf.
		lit.Num, _ = strconv.ParseFloat(p.lit, 64)
		p.next()
		return lit

	case _String:
		lit := &BasicLit{Kind: StringLit, Value: p.lexeme().StringValue()}
		lit.pos = p.pos
		p.next()
		return lit

	case _True, _False, _Nil:
		kind := NilLit
		switch p.tok {
		case _True:
			kind = TrueLit
		case _False:
			kind = FalseLit
		}
		lit := &BasicLit{Kind: kind, Value: p.lit}
		lit.pos = p.pos
		p.next()
		return lit

	case _Lparen: // parenthesized expression
		pos := p.pos
		p.next()
		x := p.expr()
		p.want(_Rparen)
		paren := &ParenExpr{X: x}
		paren.pos = pos
		return paren

	default:
		p.syntaxError(ExpectedExpression, fmt.Sprintf("expected value, found %s", describe(p.lexeme())))
		bad := &BadExpr{}
		bad.pos = p.pos
		return bad
	}
}

// callExpr parses Fun(args...)
func (p *Parser) callExpr(fun Expr) Expr {
	call := &CallExpr{Fun: fun}
	call.pos = fun.Pos()

	p.want(_Lparen)
	if p.tok != _Rparen {
		call.Args = p.exprList()
	}
	call.Rparen = p.expect(_Rparen).Pos

	return call
}

// exprList parses a comma-separated argument list.
func (p *Parser) exprList() []Expr {
	var list []Expr
	for {
		if len(list) == maxArgs {
			p.syntaxErrorAt(p.lexeme(), TooManyArguments,
				fmt.Sprintf("too many arguments (max %d)", maxArgs))
		}
		list = append(list, p.expr())
		if !p.got(_Comma) {
			break
		}
	}
	return list
}
