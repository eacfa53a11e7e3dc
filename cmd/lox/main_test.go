package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterh/liner"

	"github.com/you-not-fish/lox/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunFile(t *testing.T) {
	src := `fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
for (var i = 0; i < 6; i = i + 1) print(fib(i));
`
	filename := writeTempLoxFile(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runFile(filename, config.Default(), discardLogger())
	})

	if code != exitOK {
		t.Fatalf("runFile exit=%d\nstderr:\n%s", code, errOut)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	if out != "0\n1\n1\n2\n3\n5\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunFileSyntaxErrors(t *testing.T) {
	filename := writeTempLoxFile(t, "var x = ;\nprint(1)\nvar ok = 2;\n")
	code, out, errOut := captureOutput(t, func() int {
		return runFile(filename, config.Default(), discardLogger())
	})

	if code != exitSyntax {
		t.Fatalf("exit=%d, want %d", code, exitSyntax)
	}
	if out != "" {
		t.Fatalf("program ran despite syntax errors: %q", out)
	}
	lines := strings.Split(strings.TrimSpace(errOut), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 diagnostics, got:\n%s", errOut)
	}
	if !strings.HasPrefix(lines[0], filename+":1:9: expected value") {
		t.Errorf("first diagnostic = %q", lines[0])
	}
	if !strings.Contains(lines[1], "missing ';'") {
		t.Errorf("second diagnostic = %q", lines[1])
	}
}

func TestRunFileRuntimeError(t *testing.T) {
	filename := writeTempLoxFile(t, "print(1);\nprint(1 / 0);\nprint(2);\n")

	code, out, errOut := captureOutput(t, func() int {
		return runFile(filename, config.Default(), discardLogger())
	})
	if code != exitRuntime {
		t.Fatalf("exit=%d, want %d", code, exitRuntime)
	}
	if out != "1\n" {
		t.Errorf("stdout = %q, want %q", out, "1\n")
	}
	if !strings.Contains(errOut, "runtime error: "+filename+":2:7: division by zero") {
		t.Errorf("stderr = %q", errOut)
	}

	cfg := config.Default()
	cfg.ContinueOnError = true
	code, out, _ = captureOutput(t, func() int {
		return runFile(filename, cfg, discardLogger())
	})
	if code != exitRuntime || out != "1\n2\n" {
		t.Errorf("continue_on_error: exit=%d stdout=%q", code, out)
	}
}

func TestRunFileStepLimit(t *testing.T) {
	filename := writeTempLoxFile(t, "while (true) {}\n")
	cfg := config.Default()
	cfg.StepLimit = 50

	code, _, errOut := captureOutput(t, func() int {
		return runFile(filename, cfg, discardLogger())
	})
	if code != exitRuntime || !strings.Contains(errOut, "step limit") {
		t.Errorf("exit=%d stderr=%q", code, errOut)
	}
}

func TestRunFileMissing(t *testing.T) {
	code, _, errOut := captureOutput(t, func() int {
		return runFile(filepath.Join(t.TempDir(), "absent.lox"), config.Default(), discardLogger())
	})
	if code != exitFailure || !strings.HasPrefix(errOut, "error: ") {
		t.Errorf("exit=%d stderr=%q", code, errOut)
	}
}

func TestRunFileTrace(t *testing.T) {
	filename := writeTempLoxFile(t, "print(1 + 2);\n")
	cfg := config.Default()
	cfg.LogLevel = "debug"

	var logs bytes.Buffer
	code, out, _ := captureOutput(t, func() int {
		return runFile(filename, cfg, newLogger(&logs, cfg))
	})
	if code != exitOK || out != "3\n" {
		t.Fatalf("exit=%d stdout=%q", code, out)
	}
	for _, want := range []string{"msg=parse", "nodes=6", "msg=execute", "steps=1"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("trace output missing %q:\n%s", want, logs.String())
		}
	}
}

func TestRunEmitTokens(t *testing.T) {
	filename := writeTempLoxFile(t, "var s = \"a\nb\";\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitTokens(filename)
	})

	if code != exitOK {
		t.Fatalf("runEmitTokens exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.HasPrefix(out, "POSITION") {
		t.Fatalf("missing header:\n%s", out)
	}
	for _, want := range []string{"var", "NAME", "STRING", `"a\nb"`, "EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("token output missing %q:\n%s", want, out)
		}
	}

	bad := writeTempLoxFile(t, "1 # 2")
	code, out, _ = captureOutput(t, func() int {
		return runEmitTokens(bad)
	})
	if code != exitSyntax || !strings.Contains(out, "Errors:") {
		t.Errorf("exit=%d output:\n%s", code, out)
	}
}

func TestRunEmitAST(t *testing.T) {
	filename := writeTempLoxFile(t, "var a = 1 + 2;\n")

	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename, config.Default())
	})
	if code != exitOK {
		t.Fatalf("runEmitAST exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "VarDecl") || !strings.Contains(out, "BinaryExpr") {
		t.Fatalf("text AST missing nodes:\n%s", out)
	}

	old := *astFormat
	*astFormat = "json"
	defer func() { *astFormat = old }()

	code, out, errOut = captureOutput(t, func() int {
		return runEmitAST(filename, config.Default())
	})
	if code != exitOK {
		t.Fatalf("runEmitAST json exit=%d\nstderr:\n%s", code, errOut)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not a JSON list: %v\n%s", err, out)
	}
	if len(decoded) != 1 || decoded[0]["type"] != "VarDecl" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvVar, "")

	saved := []int{*maxErrors, *stepLimit}
	savedTrace := *trace
	defer func() {
		*maxErrors, *stepLimit, *trace = saved[0], saved[1], savedTrace
	}()

	*maxErrors, *stepLimit, *trace = 4, 99, true
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxErrors != 4 || cfg.StepLimit != 99 || cfg.Level() != slog.LevelDebug {
		t.Errorf("flags not applied: %+v", cfg)
	}

	*maxErrors, *stepLimit, *trace = -1, -1, false
	if cfg, err = loadConfig(); err != nil || cfg.MaxErrors != config.Default().MaxErrors {
		t.Errorf("unset flags overrode defaults: %+v, %v", cfg, err)
	}
}

func TestReplEval(t *testing.T) {
	var out, errOut bytes.Buffer
	r := newRepl(config.Default(), discardLogger(), &out, &errOut)

	steps := []struct {
		input   string
		out     string
		errOut  string
		quitted bool
	}{
		{input: "var a = 1;"},
		{input: "a + 1;", out: "2\n"},
		{input: `"s" + a;`, out: "s1\n"},
		{input: "a = 5;"},
		{input: "print(a);", out: "5\n"},
		{input: "fun f() { return a; }"},
		{input: "f;", out: "<fn f>\n"},
		{input: ":env", out: "a = 5\nf = <fn f>\n"},
		{input: "b;", errOut: "runtime error: <stdin>:1:1: undefined variable 'b'\n"},
		{input: "var = 1;", errOut: "<stdin>:1:5: expected identifier"},
		{input: ":help", out: "unknown command"},
		{input: "a;", out: "5\n"},
		{input: ":quit", quitted: true},
	}

	for _, st := range steps {
		out.Reset()
		errOut.Reset()
		quit := r.eval(st.input)
		if quit != st.quitted {
			t.Errorf("%q: quit = %v", st.input, quit)
		}
		if st.out != "" && !strings.HasPrefix(out.String(), st.out) || st.out == "" && out.Len() > 0 {
			t.Errorf("%q: stdout = %q, want %q", st.input, out.String(), st.out)
		}
		if st.errOut != "" && !strings.HasPrefix(errOut.String(), st.errOut) || st.errOut == "" && errOut.Len() > 0 {
			t.Errorf("%q: stderr = %q, want %q", st.input, errOut.String(), st.errOut)
		}
	}

	if !r.eval("q") {
		t.Error("q should end the session")
	}
}

// scripted feeds fixed lines to readInput, then reports end of input.
type scripted struct {
	lines   []string
	prompts []string
}

func (s *scripted) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    string
		ok      bool
		prompts int
	}{
		{"complete", []string{"print(1);"}, "print(1);", true, 1},
		{"multi-line block", []string{"{", "  print(1);", "}"}, "{\n  print(1);\n}", true, 3},
		{"missing semicolon", []string{"1 + 2"}, "1 + 2;", true, 1},
		{"unterminated string", []string{`print("a`, `b");`}, "print(\"a\nb\");", true, 2},
		{"blank continuation submits", []string{"fun f() {", ""}, "fun f() {", true, 2},
		{"command", []string{":env"}, ":env", true, 1},
		{"quit", []string{"q"}, "q", true, 1},
		{"syntax error is not continued", []string{"var = 1;"}, "var = 1;", true, 1},
		{"aborted", []string{"^C"}, "", true, 1},
		{"end of input", nil, "", false, 1},
		{"end inside block", []string{"{"}, "", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scripted{lines: tt.lines}
			got, ok := readInput(p, "> ", "... ", 10)
			if got != tt.want || ok != tt.ok {
				t.Errorf("readInput = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
			if len(p.prompts) != tt.prompts {
				t.Errorf("prompted %d times, want %d", len(p.prompts), tt.prompts)
			}
			for i, pr := range p.prompts {
				want := "> "
				if i > 0 {
					want = "... "
				}
				if pr != want {
					t.Errorf("prompt %d = %q, want %q", i, pr, want)
				}
			}
		})
	}
}

func TestReplErrorsDoNotLeak(t *testing.T) {
	var out, errOut bytes.Buffer
	r := newRepl(config.Default(), discardLogger(), &out, &errOut)
	r.eval("var x = 1;")
	r.eval("x = x / 0;")
	if !strings.Contains(errOut.String(), "division by zero") {
		t.Fatalf("stderr = %q", errOut.String())
	}
	out.Reset()
	r.eval("x;")
	if out.String() != "1\n" {
		t.Errorf("x after failed assignment = %q, want 1", out.String())
	}
}

func writeTempLoxFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.lox")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
