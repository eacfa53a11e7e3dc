package syntax

import (
	"fmt"
	"sort"
)

// ScanErrorKind classifies a lexical error.
type ScanErrorKind uint8

const (
	UnrecognizedCharacter ScanErrorKind = iota + 1
	UnterminatedString
	InvalidEncoding
	ReadFailure
)

var scanErrorKindNames = [...]string{
	UnrecognizedCharacter: "unrecognized character",
	UnterminatedString:    "unterminated string",
	InvalidEncoding:       "invalid UTF-8 encoding",
	ReadFailure:           "read failure",
}

func (k ScanErrorKind) String() string {
	if k > 0 && int(k) < len(scanErrorKindNames) {
		return scanErrorKindNames[k]
	}
	return fmt.Sprintf("ScanErrorKind(%d)", k)
}

// ScanError is a lexical diagnostic. The scanner never stops on one;
// it records it and keeps going.
type ScanError struct {
	Pos  Pos
	Kind ScanErrorKind
	Char rune   // offending character (UnrecognizedCharacter, InvalidEncoding)
	Msg  string // extra detail (ReadFailure)
}

func (e *ScanError) Error() string {
	switch e.Kind {
	case UnrecognizedCharacter:
		return fmt.Sprintf("%s: %s %q", e.Pos, e.Kind, e.Char)
	case ReadFailure:
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
	}
	return e.Pos.String() + ": " + e.Kind.String()
}

// SyntaxErrorKind classifies a syntax error.
type SyntaxErrorKind uint8

const (
	MissingSemicolon SyntaxErrorKind = iota + 1
	MissingLeftParen
	MissingRightParen
	MissingLeftBrace
	MissingRightBrace
	ExpectedIdentifier
	ExpectedExpression
	InvalidAssignmentTarget
	TooManyParameters
	TooManyArguments
	TooManyErrors
)

var syntaxErrorKindNames = [...]string{
	MissingSemicolon:        "missing ';'",
	MissingLeftParen:        "missing '('",
	MissingRightParen:       "missing ')'",
	MissingLeftBrace:        "missing '{'",
	MissingRightBrace:       "missing '}'",
	ExpectedIdentifier:      "expected identifier",
	ExpectedExpression:      "expected value",
	InvalidAssignmentTarget: "invalid assignment target",
	TooManyParameters:       "too many parameters",
	TooManyArguments:        "too many arguments",
	TooManyErrors:           "too many errors",
}

func (k SyntaxErrorKind) String() string {
	if k > 0 && int(k) < len(syntaxErrorKindNames) {
		return syntaxErrorKindNames[k]
	}
	return fmt.Sprintf("SyntaxErrorKind(%d)", k)
}

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos  Pos
	Kind SyntaxErrorKind
	Tok  Lexeme // offending token
	Msg  string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrorHandler is called by the parser for each syntax error.
type ErrorHandler func(err *SyntaxError)

// IsIncomplete reports whether the given diagnostics only describe input
// that ended too early: an unterminated string or a syntax error found at
// EOF. A REPL uses this to keep reading lines instead of reporting.
func IsIncomplete(scanErrs []*ScanError, syntaxErrs []*SyntaxError) bool {
	if len(scanErrs) == 0 && len(syntaxErrs) == 0 {
		return false
	}
	for _, e := range scanErrs {
		if e.Kind != UnterminatedString {
			return false
		}
	}
	for _, e := range syntaxErrs {
		if e.Kind == TooManyErrors {
			continue
		}
		if e.Tok.Tok != _EOF {
			return false
		}
	}
	return true
}

// Diagnostics merges lexical and syntax errors into one list ordered by
// source position. Scan errors sort first on ties since they explain
// the syntax errors that follow them.
func Diagnostics(scanErrs []*ScanError, syntaxErrs []*SyntaxError) []error {
	type entry struct {
		pos Pos
		err error
	}
	entries := make([]entry, 0, len(scanErrs)+len(syntaxErrs))
	for _, e := range scanErrs {
		entries = append(entries, entry{e.Pos, e})
	}
	for _, e := range syntaxErrs {
		entries = append(entries, entry{e.Pos, e})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].pos.Before(entries[j].pos)
	})
	out := make([]error, len(entries))
	for i, e := range entries {
		out[i] = e.err
	}
	return out
}
