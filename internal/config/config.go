// Package config loads the interpreter's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no -config flag
// is given.
const EnvVar = "LOX_CONFIG"

// DefaultFile is the file looked up in the home directory as a last resort.
const DefaultFile = ".loxrc.yml"

// Config holds the user-tunable settings. CLI flags override file values.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	MaxErrors          int    `yaml:"max_errors"`
	StepLimit          int    `yaml:"step_limit"`
	LogLevel           string `yaml:"log_level"`
	ContinueOnError    bool   `yaml:"continue_on_error"`

	// Path is the file the settings came from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the settings used when no configuration file exists.
func Default() *Config {
	return &Config{
		Prompt:             "> ",
		ContinuationPrompt: "... ",
		HistoryFile:        "~/.lox_history",
		MaxErrors:          10,
		LogLevel:           "warn",
	}
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "config: %s failed validation:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load parses the configuration file at path on top of the defaults.
// An empty file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = absPath
			return nil, verr
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Decode reads YAML settings from r on top of the defaults and validates
// them. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	cfg := Default()
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.MaxErrors < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_errors must not be negative, got %d", c.MaxErrors))
	}
	if c.StepLimit < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("step_limit must not be negative, got %d", c.StepLimit))
	}
	if _, ok := levels[strings.ToLower(c.LogLevel)]; !ok {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if c.Prompt == "" {
		errs.Issues = append(errs.Issues, "prompt must not be empty")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	if l, ok := levels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelWarn
}

// Resolve finds and loads the configuration. An explicit path wins, then
// $LOX_CONFIG, then ~/.loxrc.yml if it exists; otherwise the defaults
// are returned. Only an explicitly named file must exist.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return Load(flagPath)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, DefaultFile)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// ExpandPath replaces a leading "~/" with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
