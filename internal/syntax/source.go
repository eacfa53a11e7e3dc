package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// It reads UTF-8 encoded source text and provides character-by-character
// access plus the raw text of the segment scanned since the last mark.
type source struct {
	// Input
	buf []byte // source buffer (entire input read into memory)

	// Position tracking
	filename string // source file name
	line     uint32 // current line number (1-based)
	col      uint32 // current column number (1-based, in characters)

	// Current state
	ch    rune // current character, -1 for EOF
	chw   int  // width of ch in bytes
	offs  int  // byte offset of ch in buf
	start int  // byte offset where the current segment began

	// Error handling
	errh func(err *ScanError)
}

// newSource creates a new source from an io.Reader.
// The entire content is read into memory.
// The errh function is called for each error; if nil, errors are silently ignored.
func newSource(filename string, src io.Reader, errh func(err *ScanError)) *source {
	s := &source{
		filename: filename,
		line:     1,
		col:      0,  // Will be incremented to 1 by first nextch()
		ch:       -1, // Sentinel: -1 means "before first char"
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.report(&ScanError{Pos: NewPos(filename, 1, 1), Kind: ReadFailure, Msg: err.Error()})
		s.buf = nil
		s.col = 1
		return s
	}

	s.nextch()
	return s
}

// nextch reads the next character from the source and updates position.
// Sets s.ch to -1 at EOF.
//
// Position tracking: (line, col) always refers to the position of s.ch after nextch() returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.offs += s.chw
	s.chw = 0
	if s.offs >= len(s.buf) {
		s.offs = len(s.buf)
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	s.ch = r
	s.chw = width
	if r == utf8.RuneError && width == 1 {
		s.report(&ScanError{Pos: s.pos(), Kind: InvalidEncoding, Char: r})
	}
}

// peek returns the character after s.ch without consuming anything.
func (s *source) peek() rune {
	next := s.offs + s.chw
	if next >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[next:])
	return r
}

// mark starts a new segment at the current character.
func (s *source) mark() {
	s.start = s.offs
}

// segment returns the source text from the last mark up to (not including) s.ch.
func (s *source) segment() string {
	return string(s.buf[s.start:s.offs])
}

// pos returns the current position (position of current character).
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// report forwards a lexical error to the error handler.
func (s *source) report(err *ScanError) {
	if s.errh != nil {
		s.errh(err)
	}
}

// badEncoding reports whether ch is a byte that is not valid UTF-8, as
// opposed to an encoded U+FFFD.
func (s *source) badEncoding() bool {
	return s.ch == utf8.RuneError && s.chw == 1
}

// Character classification helpers

// isLetter reports whether r may start an identifier (a-z, A-Z, or _).
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isWhitespace reports whether r is skipped between tokens.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// isOperatorStart reports whether r can start an operator or delimiter.
func isOperatorStart(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '<', '>', '=', '!',
		'(', ')', '{', '}', ',', ';', '.':
		return true
	}
	return false
}
