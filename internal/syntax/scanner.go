package syntax

import "io"

// Scanner performs lexical analysis on Lox source code.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token  // token type
	lit    string // exact source text of the token
	tokPos Pos    // token start position
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(err *ScanError)) *Scanner {
	return &Scanner{source: *newSource(filename, src, errh)}
}

// Scan reads all of src and returns its tokens, always terminated by a
// single EOF token, together with every lexical error found on the way.
func Scan(filename string, src io.Reader) ([]Lexeme, []*ScanError) {
	var errs []*ScanError
	s := NewScanner(filename, src, func(err *ScanError) {
		errs = append(errs, err)
	})

	var toks []Lexeme
	for {
		s.Next()
		toks = append(toks, s.Lexeme())
		if s.tok == _EOF {
			return toks, errs
		}
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	s.skipWhitespace()

	s.tokPos = s.pos()
	s.mark()

	switch {
	case s.ch < 0:
		s.tok = _EOF

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		if !s.scanString() {
			goto redo
		}

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			// scanOperator returned true, meaning we skipped a comment
			goto redo
		}

	default:
		// A byte that failed to decode was already reported by nextch.
		if !s.badEncoding() {
			s.report(&ScanError{Pos: s.tokPos, Kind: UnrecognizedCharacter, Char: s.ch})
		}
		s.nextch()
		goto redo
	}

	s.lit = s.segment()
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the source text of the current token.
func (s *Scanner) Literal() string {
	return s.lit
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// Lexeme returns the current token as an immutable value.
func (s *Scanner) Lexeme() Lexeme {
	return Lexeme{Tok: s.tok, Lit: s.lit, Pos: s.tokPos}
}

// skipWhitespace skips spaces, tabs, carriage returns and newlines.
func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.nextch()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.nextch()
	}
	s.tok = LookupKeyword(s.segment())
}

// scanNumber scans a number literal: digits with an optional fraction.
// A '.' that is not followed by a digit is left for the next token.
func (s *Scanner) scanNumber() {
	for isDigit(s.ch) {
		s.nextch()
	}
	if s.ch == '.' && isDigit(s.peek()) {
		s.nextch() // consume .
		for isDigit(s.ch) {
			s.nextch()
		}
	}
	s.tok = _Number
}

// scanString scans a string literal. Strings may span lines and have no
// escape sequences. It reports false when the string is not terminated;
// the rest of the input has been consumed in that case.
func (s *Scanner) scanString() bool {
	s.nextch() // skip opening "
	for s.ch != '"' {
		if s.ch < 0 {
			s.report(&ScanError{Pos: s.tokPos, Kind: UnterminatedString})
			return false
		}
		s.nextch()
	}
	s.nextch() // skip closing "
	s.tok = _String
	return true
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.tok = _Add
	case '-':
		s.tok = _Sub
	case '*':
		s.tok = _Mul
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return true
		}
		s.tok = _Div
	case '<':
		s.tok = s.twoChar('=', _Leq, _Lss)
	case '>':
		s.tok = s.twoChar('=', _Geq, _Gtr)
	case '=':
		s.tok = s.twoChar('=', _Eql, _Assign)
	case '!':
		s.tok = s.twoChar('=', _Neq, _Not)
	case '(':
		s.tok = _Lparen
	case ')':
		s.tok = _Rparen
	case '{':
		s.tok = _Lbrace
	case '}':
		s.tok = _Rbrace
	case ',':
		s.tok = _Comma
	case ';':
		s.tok = _Semi
	case '.':
		s.tok = _Dot
	}

	return false
}

// twoChar consumes next and returns long if the current character is next,
// otherwise it returns short without consuming anything.
func (s *Scanner) twoChar(next rune, long, short Token) Token {
	if s.ch == next {
		s.nextch()
		return long
	}
	return short
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	// Already consumed the first /
	s.nextch()
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
