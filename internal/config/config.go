// Package config parses the flame command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/jacoelho/flame/internal/exit"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	ErrNoArguments           = errors.New("no arguments provided")
	ErrNoScripts             = errors.New("no script files specified")
	ErrInvalidLogFormat      = errors.New("log format must be text or json")
	ErrInvalidRateLimit      = errors.New("rate limit must not be negative")
	ErrInvalidVariableFormat = errors.New("variable must be in format name=value")
	ErrEmptyVariableName     = errors.New("variable name cannot be empty")
)

// Config is the CLI configuration.
type Config struct {
	Scripts   []string
	Database  string  // seed document, .json or .yaml/.yml
	RateLimit float64 // operations per second, 0 = unpaced
	Debug     bool
	LogFormat string
	Variables map[string]any
}

// Validate checks that referenced files exist and options are in range.
func (c *Config) Validate() error {
	if len(c.Scripts) == 0 {
		return ErrNoScripts
	}
	for _, file := range c.Scripts {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("script file %s not found: %w", file, err)
		}
	}
	if c.Database != "" {
		if _, err := os.Stat(c.Database); err != nil {
			return fmt.Errorf("database file %s not found: %w", c.Database, err)
		}
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("%w, got: %s", ErrInvalidLogFormat, c.LogFormat)
	}
	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

// variablesFlag collects repeated -variable name=value flags.
type variablesFlag map[string]any

func (v variablesFlag) String() string {
	pairs := make([]string, 0, len(v))
	for k, val := range v {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, val))
	}
	return strings.Join(pairs, ",")
}

func (v variablesFlag) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("%w, got: %s", ErrInvalidVariableFormat, value)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyVariableName
	}

	v[name] = val
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// On failure or -help it returns a nil config and the exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		database     = fs.String("db", "", "Seed document loaded before the scripts run")
		rateLimit    = fs.Float64("rate-limit", 0, "Operations per second (0 for unpaced)")
		debug        = fs.Bool("debug", false, "Log every store operation")
		logFormat    = fs.String("log-format", LogFormatText, "Log format: text or json")
		variables    = make(variablesFlag)
		variableFile = fs.String("variable-file", "", "Path to key=value file containing template variables")
	)
	fs.Var(variables, "variable", "Variable in format name=value (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	scripts := fs.Args()
	if len(scripts) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoScripts, Usage())
	}

	// Command-line variables take precedence over file variables.
	vars := make(map[string]any)
	if *variableFile != "" {
		fileVars, err := loadVariableFile(*variableFile)
		if err != nil {
			return nil, exit.Errorf("Error: failed to load variable file: %v\n\n%s", err, Usage())
		}
		maps.Copy(vars, fileVars)
	}
	maps.Copy(vars, variables)

	cfg := &Config{
		Scripts:   scripts,
		Database:  *database,
		RateLimit: *rateLimit,
		Debug:     *debug,
		LogFormat: *logFormat,
		Variables: vars,
	}
	if err := cfg.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}
	return cfg, nil
}

// loadVariableFile reads key=value lines, skipping blanks and # comments.
func loadVariableFile(filename string) (map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	vars := make(map[string]any)
	for lineNum, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid format at line %d: %s (expected key=value)", lineNum+1, line)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty key at line %d: %s", lineNum+1, line)
		}
		vars[key] = strings.TrimSpace(value)
	}
	return vars, nil
}

// Usage returns the CLI help text.
func Usage() string {
	return `flame - in-memory hierarchical document store

Usage: flame [options] <script1.yaml> [script2.yaml] ...

Options:
  --db FILE               Seed document (.json, .yaml or .yml) loaded before the scripts run
  --rate-limit N          Operations per second (0 for unpaced)
  --debug                 Log every store operation
  --log-format FORMAT     Log format: text or json (default: text)
  --variable NAME=VALUE   Template variable (can be used multiple times)
  --variable-file FILE    Path to key=value file containing template variables
  -h, --help              Show this help message

Examples:
  flame --db seed.json smoke.yaml          # Run a script against a seeded store
  flame --rate-limit 10 smoke.yaml         # Pace to 10 operations per second
  flame --variable user=abcd smoke.yaml    # Provide {{ .user }} to the script
`
}
