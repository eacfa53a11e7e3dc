// Package syntax implements lexical and syntactic analysis for the Lox language.
package syntax

import "fmt"

// Token represents the kind of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of file
	_Error              // placeholder for a missing or unscannable token

	// Literals
	_Name   // identifier: foo, makeCounter
	_Number // 12, 12.5
	_String // "hello"

	// Operators
	_Assign // =

	// Comparison operators
	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	// Arithmetic operators
	_Add // +
	_Sub // -
	_Mul // *
	_Div // /

	// Unary operators
	_Not // !

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Dot    // .
	_Semi   // ;

	// Keywords
	_And
	_Else
	_False
	_For
	_Fun
	_If
	_Nil
	_Or
	_Return
	_True
	_Var
	_While

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:   "NAME",
	_Number: "NUMBER",
	_String: "STRING",

	_Assign: "=",

	_Eql: "==",
	_Neq: "!=",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",

	_Add: "+",
	_Sub: "-",
	_Mul: "*",
	_Div: "/",

	_Not: "!",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Dot:    ".",
	_Semi:   ";",

	_And:    "and",
	_Else:   "else",
	_False:  "false",
	_For:    "for",
	_Fun:    "fun",
	_If:     "if",
	_Nil:    "nil",
	_Or:     "or",
	_Return: "return",
	_True:   "true",
	_Var:    "var",
	_While:  "while",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the binding power of t as an infix operator.
// Returns 0 for non-operators.
// Precedence levels (higher = binds tighter):
//
//	1: or
//	2: and
//	3: == !=
//	4: < <= > >=
//	5: + -
//	6: * /
func (t Token) Precedence() int {
	switch t {
	case _Or:
		return 1
	case _And:
		return 2
	case _Eql, _Neq:
		return 3
	case _Lss, _Leq, _Gtr, _Geq:
		return 4
	case _Add, _Sub:
		return 5
	case _Mul, _Div:
		return 6
	}
	return 0
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _And && t <= _While
}

// IsLiteral reports whether t carries a literal value.
func (t Token) IsLiteral() bool {
	switch t {
	case _Number, _String, _True, _False, _Nil:
		return true
	}
	return false
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Not || t == _And || t == _Or
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// Exported tokens for the evaluator and for tests outside this package.
const (
	EOF Token = _EOF

	Assign Token = _Assign
	Eql    Token = _Eql
	Neq    Token = _Neq
	Lss    Token = _Lss
	Leq    Token = _Leq
	Gtr    Token = _Gtr
	Geq    Token = _Geq
	Add    Token = _Add
	Sub    Token = _Sub
	Mul    Token = _Mul
	Div    Token = _Div
	Not    Token = _Not
	AndOp  Token = _And
	OrOp   Token = _Or
)

// keywords maps keyword strings to their token type.
// print and clock are not keywords: they are ordinary names bound to
// built-in functions in the global scope.
var keywords = map[string]Token{
	"and":    _And,
	"else":   _Else,
	"false":  _False,
	"for":    _For,
	"fun":    _Fun,
	"if":     _If,
	"nil":    _Nil,
	"or":     _Or,
	"return": _Return,
	"true":   _True,
	"var":    _Var,
	"while":  _While,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

// Lexeme is a single scanned token: its kind, the exact source text it was
// scanned from, and the position of its first character.
type Lexeme struct {
	Tok Token
	Lit string
	Pos Pos
}

// String returns "kind(lit)@pos", the form used by -emit-tokens.
func (l Lexeme) String() string {
	switch l.Tok {
	case _Name, _Number, _String, _Error:
		return fmt.Sprintf("%s(%s)@%s", l.Tok, l.Lit, l.Pos)
	}
	return fmt.Sprintf("%s@%s", l.Tok, l.Pos)
}

// StringValue returns the content of a string literal without its quotes.
func (l Lexeme) StringValue() string {
	if l.Tok != _String || len(l.Lit) < 2 {
		return l.Lit
	}
	return l.Lit[1 : len(l.Lit)-1]
}
