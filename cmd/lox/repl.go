package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/you-not-fish/lox/internal/config"
	"github.com/you-not-fish/lox/internal/interp"
	"github.com/you-not-fish/lox/internal/runtime"
	"github.com/you-not-fish/lox/internal/syntax"
)

const replFilename = "<stdin>"

var banner = fmt.Sprintf("Lox %s\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", Version)

// prompter reads one line of input. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// runRepl runs the interactive session until EOF or :quit.
func runRepl(cfg *config.Config, logger *slog.Logger) int {
	fmt.Println(banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := config.ExpandPath(cfg.HistoryFile)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				logger.Debug("read history", "path", histPath, "err", err)
			}
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(histPath)
			if err != nil {
				logger.Warn("cannot save history", "path", histPath, "err", err)
				return
			}
			if _, err := ln.WriteHistory(f); err != nil {
				logger.Warn("cannot save history", "path", histPath, "err", err)
			}
			_ = f.Close()
		}()
	}

	// Interrupts outside the prompt (a runaway loop) end the session.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	r := newRepl(cfg, logger, os.Stdout, os.Stderr)
	for {
		src, ok := readInput(ln, cfg.Prompt, cfg.ContinuationPrompt, cfg.MaxErrors)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if r.eval(src) {
			break
		}
	}
	return exitOK
}

// repl evaluates REPL input against one persistent interpreter.
type repl struct {
	in        *interp.Interpreter
	out       io.Writer
	errOut    io.Writer
	maxErrors int
}

func newRepl(cfg *config.Config, logger *slog.Logger, out, errOut io.Writer) *repl {
	in := interp.New(out, interp.WithStepLimit(cfg.StepLimit), interp.WithLogger(logger))
	in.ReplMode()
	return &repl{in: in, out: out, errOut: errOut, maxErrors: cfg.MaxErrors}
}

// eval handles one complete input and reports whether the session should end.
func (r *repl) eval(src string) (quit bool) {
	if isCommand(src) {
		return r.command(strings.TrimSpace(src))
	}

	stmts, scanErrs, syntaxErrs := parseSource(replFilename, strings.NewReader(src), r.maxErrors)
	if printDiagnostics(r.errOut, scanErrs, syntaxErrs) {
		return false
	}

	// A lone expression statement echoes its value, unless evaluating it
	// already has a visible effect.
	if x, ok := echoable(stmts); ok {
		v, err := r.in.Eval(x)
		if err != nil {
			fmt.Fprintf(r.errOut, "runtime error: %v\n", err)
			return false
		}
		fmt.Fprintln(r.out, runtime.Format(v))
		return false
	}

	if err := r.in.Interpret(stmts); err != nil {
		fmt.Fprintf(r.errOut, "runtime error: %v\n", err)
	}
	return false
}

func echoable(stmts []syntax.Stmt) (syntax.Expr, bool) {
	if len(stmts) != 1 {
		return nil, false
	}
	s, ok := stmts[0].(*syntax.ExprStmt)
	if !ok {
		return nil, false
	}
	switch s.X.(type) {
	case *syntax.AssignExpr, *syntax.CallExpr:
		return nil, false
	}
	return s.X, true
}

func isCommand(src string) bool {
	src = strings.TrimSpace(src)
	return strings.HasPrefix(src, ":") || src == "q"
}

func (r *repl) command(cmd string) (quit bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", "q":
		return true
	case ":env":
		scope := r.in.Scope()
		for _, name := range scope.Names() {
			v, _ := scope.Get(name)
			fmt.Fprintf(r.out, "%s = %s\n", name, runtime.Format(v))
		}
	default:
		fmt.Fprintln(r.out, "unknown command. Commands: :env, :quit")
	}
	return false
}

// readInput reads lines until they form a complete input. Input that is
// only missing its final ';' is completed. A blank continuation line
// submits what was typed so far. The bool is false at end of input.
func readInput(p prompter, prompt, cont string, maxErrors int) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = p.Prompt(prompt)
		} else {
			line, err = p.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "" || isCommand(src) || !incomplete(src, maxErrors) {
			return src, true
		}
		if completed := src + ";"; !failsToParse(completed, maxErrors) {
			return completed, true
		}
	}
}

func incomplete(src string, maxErrors int) bool {
	_, scanErrs, syntaxErrs := parseSource(replFilename, strings.NewReader(src), maxErrors)
	return syntax.IsIncomplete(scanErrs, syntaxErrs)
}

func failsToParse(src string, maxErrors int) bool {
	_, scanErrs, syntaxErrs := parseSource(replFilename, strings.NewReader(src), maxErrors)
	return len(scanErrs) > 0 || len(syntaxErrs) > 0
}
