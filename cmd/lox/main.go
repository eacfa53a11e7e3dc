// Package main implements the lox interpreter entry point.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/you-not-fish/lox/internal/config"
	"github.com/you-not-fish/lox/internal/interp"
	"github.com/you-not-fish/lox/internal/syntax"
)

// Interpreter flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text or json)")
	configPath = flag.String("config", "", "Configuration file (default $LOX_CONFIG, then ~/.loxrc.yml)")
	trace      = flag.Bool("trace", false, "Output timing trace")
	maxErrors  = flag.Int("max-errors", -1, "Stop parsing after this many syntax errors (0 = no limit)")
	stepLimit  = flag.Int("step-limit", -1, "Abort after executing this many statements (0 = no limit)")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1  // usage, I/O or configuration problem
	exitSyntax  = 65 // the input did not scan or parse
	exitRuntime = 70 // a runtime error stopped the program
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Lox Interpreter %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: lox [options] [file.lox]\n\n")
		fmt.Fprintf(os.Stderr, "Without a file, lox starts an interactive session.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("lox version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(exitOK)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitFailure)
	}
	logger := newLogger(os.Stderr, cfg)
	if cfg.Path != "" {
		logger.Debug("loaded configuration", "path", cfg.Path)
	}

	args := flag.Args()
	if len(args) == 0 {
		if *emitTokens || *emitAST {
			fmt.Fprintln(os.Stderr, "error: no input file")
			fmt.Fprintln(os.Stderr, "usage: lox [options] <file.lox>")
			os.Exit(exitFailure)
		}
		os.Exit(runRepl(cfg, logger))
	}

	filename := args[0]

	// Handle -emit-tokens
	if *emitTokens {
		os.Exit(runEmitTokens(filename))
	}

	// Handle -emit-ast
	if *emitAST {
		os.Exit(runEmitAST(filename, cfg))
	}

	os.Exit(runFile(filename, cfg, logger))
}

// loadConfig resolves the configuration file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(*configPath)
	if err != nil {
		return nil, err
	}
	if *maxErrors >= 0 {
		cfg.MaxErrors = *maxErrors
	}
	if *stepLimit >= 0 {
		cfg.StepLimit = *stepLimit
	}
	if *trace {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
}

// parseSource scans and parses src, stopping after maxErrors syntax errors.
func parseSource(filename string, src io.Reader, maxErrors int) ([]syntax.Stmt, []*syntax.ScanError, []*syntax.SyntaxError) {
	tokens, scanErrs := syntax.Scan(filename, src)

	var syntaxErrs []*syntax.SyntaxError
	p := syntax.NewParser(tokens, func(err *syntax.SyntaxError) {
		syntaxErrs = append(syntaxErrs, err)
	})
	p.SetErrorLimit(maxErrors)
	return p.Parse(), scanErrs, syntaxErrs
}

// printDiagnostics writes diagnostics in source order and reports whether
// there were any.
func printDiagnostics(w io.Writer, scanErrs []*syntax.ScanError, syntaxErrs []*syntax.SyntaxError) bool {
	diags := syntax.Diagnostics(scanErrs, syntaxErrs)
	for _, d := range diags {
		fmt.Fprintln(w, d)
	}
	return len(diags) > 0
}

// runFile parses and executes a program file.
func runFile(filename string, cfg *config.Config, logger *slog.Logger) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitFailure
	}
	defer f.Close()

	start := time.Now()
	stmts, scanErrs, syntaxErrs := parseSource(filename, f, cfg.MaxErrors)
	logger.Debug("parse",
		"file", filename,
		"stmts", len(stmts),
		"nodes", syntax.CountNodes(stmts),
		"errors", len(scanErrs)+len(syntaxErrs),
		"elapsed", time.Since(start))

	if printDiagnostics(os.Stderr, scanErrs, syntaxErrs) {
		return exitSyntax
	}

	start = time.Now()
	in := interp.New(os.Stdout, interp.WithStepLimit(cfg.StepLimit), interp.WithLogger(logger))
	defer func() {
		logger.Debug("execute", "file", filename, "steps", in.Steps(), "elapsed", time.Since(start))
	}()

	if cfg.ContinueOnError {
		errs := in.InterpretEach(stmts)
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		}
		if len(errs) > 0 {
			return exitRuntime
		}
		return exitOK
	}

	if err := in.Interpret(stmts); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return exitRuntime
	}
	return exitOK
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string, cfg *config.Config) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitFailure
	}
	defer f.Close()

	stmts, scanErrs, syntaxErrs := parseSource(filename, f, cfg.MaxErrors)

	// Print errors first
	failed := printDiagnostics(os.Stderr, scanErrs, syntaxErrs)

	// Output AST
	switch *astFormat {
	case "json":
		if err := syntax.FprintListJSON(os.Stdout, stmts); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitFailure
		}
	default:
		syntax.FprintList(os.Stdout, stmts)
	}

	if failed {
		return exitSyntax
	}
	return exitOK
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitFailure
	}
	defer f.Close()

	var errors []string
	s := syntax.NewScanner(filename, f, func(err *syntax.ScanError) {
		errors = append(errors, err.Error())
	})

	// Print header
	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for {
		s.Next()
		tok := s.Token()
		fmt.Printf("%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}

	// Print any errors
	if len(errors) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errors {
			fmt.Printf("  %s\n", e)
		}
		return exitSyntax
	}

	return exitOK
}

// formatLiteral makes control characters in a literal visible.
func formatLiteral(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
