package syntax

import (
	"errors"
	"strings"
	"testing"
)

func TestSourceNewline(t *testing.T) {
	src := newSource("test", strings.NewReader("a\nb\nc"), nil)

	steps := []struct {
		ch        rune
		line, col uint32
	}{
		{'a', 1, 1},
		{'\n', 1, 2},
		{'b', 2, 1},
		{'\n', 2, 2},
		{'c', 3, 1},
		{-1, 3, 2},
	}
	for i, want := range steps {
		if i > 0 {
			src.nextch()
		}
		if src.ch != want.ch || src.line != want.line || src.col != want.col {
			t.Errorf("step %d: got ch=%q pos=%d:%d, want ch=%q pos=%d:%d",
				i, src.ch, src.line, src.col, want.ch, want.line, want.col)
		}
	}
}

func TestSourceSegment(t *testing.T) {
	src := newSource("test", strings.NewReader("ab中cd"), nil)
	src.nextch() // 'b'
	src.mark()
	src.nextch() // '中'
	src.nextch() // 'c'
	if got := src.segment(); got != "b中" {
		t.Errorf("segment = %q, want %q", got, "b中")
	}
	if src.col != 4 {
		t.Errorf("col = %d, want 4 (columns count characters)", src.col)
	}
}

func TestSourcePeek(t *testing.T) {
	src := newSource("test", strings.NewReader("1.5"), nil)
	src.nextch() // '.'
	if got := src.peek(); got != '5' {
		t.Errorf("peek = %q, want '5'", got)
	}
	src.nextch() // '5'
	if got := src.peek(); got != -1 {
		t.Errorf("peek at end = %q, want EOF", got)
	}
}

func TestSourceEmpty(t *testing.T) {
	src := newSource("test", strings.NewReader(""), nil)
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
	if got := src.pos().String(); got != "test:1:1" {
		t.Errorf("pos = %s, want test:1:1", got)
	}
}

func TestSourceInvalidUTF8(t *testing.T) {
	var got []*ScanError
	newSource("test", strings.NewReader("a\xffb"), func(err *ScanError) { got = append(got, err) })
	if len(got) != 0 {
		t.Fatalf("error reported before reaching the bad byte: %v", got)
	}

	src := newSource("test", strings.NewReader("a\xffb"), func(err *ScanError) { got = append(got, err) })
	src.nextch()
	if len(got) != 1 || got[0].Kind != InvalidEncoding {
		t.Fatalf("errors = %v, want one InvalidEncoding", got)
	}
	if got[0].Pos.Col() != 2 {
		t.Errorf("error col = %d, want 2", got[0].Pos.Col())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestSourceReadFailure(t *testing.T) {
	var got []*ScanError
	src := newSource("broken.lox", failingReader{}, func(err *ScanError) { got = append(got, err) })
	if src.ch != -1 {
		t.Errorf("ch = %q, want EOF after read failure", src.ch)
	}
	if len(got) != 1 || got[0].Kind != ReadFailure {
		t.Fatalf("errors = %v, want one ReadFailure", got)
	}
	if !strings.Contains(got[0].Error(), "disk on fire") {
		t.Errorf("error text %q lost the reader's message", got[0].Error())
	}
}

func TestCharClasses(t *testing.T) {
	for _, r := range []rune{'a', 'z', 'A', 'Z', '_'} {
		if !isLetter(r) {
			t.Errorf("isLetter(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'0', ' ', '+', '中'} {
		if isLetter(r) {
			t.Errorf("isLetter(%q) = true, want false", r)
		}
	}
	for _, r := range []rune{' ', '\t', '\r', '\n'} {
		if !isWhitespace(r) {
			t.Errorf("isWhitespace(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'+', '-', '*', '/', '<', '>', '=', '!', '(', ')', '{', '}', ',', ';', '.'} {
		if !isOperatorStart(r) {
			t.Errorf("isOperatorStart(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'%', '&', '|', '[', ':', '@', '#'} {
		if isOperatorStart(r) {
			t.Errorf("isOperatorStart(%q) = true, want false", r)
		}
	}
}
