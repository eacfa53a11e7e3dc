package golden

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/lox/internal/interp"
	"github.com/you-not-fish/lox/internal/syntax"
)

// stepLimit keeps a broken test program from hanging the suite.
const stepLimit = 1_000_000

// TestGolden runs every .lox file in testdata/ and compares what it prints
// against the matching .golden file. Diagnostics and runtime errors are
// part of the expected output. Set UPDATE_GOLDEN=1 to rewrite the files.
func TestGolden(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.lox")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .lox test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".lox")
		t.Run(name, func(t *testing.T) {
			runGoldenTest(t, testFile)
		})
	}
}

func runGoldenTest(t *testing.T, loxFile string) {
	t.Helper()

	got := execute(t, loxFile)

	goldenFile := strings.TrimSuffix(loxFile, ".lox") + ".golden"
	if os.Getenv("UPDATE_GOLDEN") != "" {
		if err := os.WriteFile(goldenFile, []byte(got), 0o644); err != nil {
			t.Fatalf("writing golden file: %v", err)
		}
		return
	}

	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if want := string(expected); got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// execute runs a program the way the lox command does, with diagnostics
// and runtime errors written into the same stream as program output.
func execute(t *testing.T, loxFile string) string {
	t.Helper()

	src, err := os.ReadFile(loxFile)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// Positions use the base name so golden files do not depend on the
	// checkout location.
	stmts, scanErrs, syntaxErrs := syntax.ParseFile(filepath.Base(loxFile), bytes.NewReader(src))

	var out bytes.Buffer
	if diags := syntax.Diagnostics(scanErrs, syntaxErrs); len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(&out, d)
		}
		return out.String()
	}

	in := interp.New(&out, interp.WithStepLimit(stepLimit))
	if err := in.Interpret(stmts); err != nil {
		fmt.Fprintf(&out, "runtime error: %v\n", err)
	}
	return out.String()
}

// TestGoldenFilesPaired makes sure no expectation is left without a program.
func TestGoldenFilesPaired(t *testing.T) {
	goldens, err := filepath.Glob("testdata/*.golden")
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range goldens {
		src := strings.TrimSuffix(g, ".golden") + ".lox"
		if _, err := os.Stat(src); err != nil {
			t.Errorf("%s has no matching program: %v", g, err)
		}
	}
}
