package ival

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is looked up by FindConfig.
const ConfigFileName = "ival.toml"

// Config represents an ival.toml project configuration file.
type Config struct {
	// Strict makes reads of unbound variables fault.
	Strict bool `toml:"strict,omitempty"`

	// CreateScope is "innermost" or "outermost".
	CreateScope string `toml:"create_scope,omitempty"`

	// ArgScope is "callee" or "caller".
	ArgScope string `toml:"arg_scope,omitempty"`

	MaxCallDepth int `toml:"max_call_depth,omitempty"`
}

// LoadConfig loads an ival.toml file from the given path. Unknown keys are
// rejected so typos don't silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	var config Config
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parsing %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := config.Options().Validate(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &config, nil
}

// FindConfig searches for an ival.toml file starting from dir and walking up
// to parent directories. Returns the path and the parsed config, or
// ("", nil, nil) if not found.
func FindConfig(dir string) (string, *Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			config, err := LoadConfig(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// ApplyEnv overrides config values from IVAL_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("IVAL_STRICT"); ok && v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("IVAL_STRICT: %w", err)
		}
		c.Strict = strict
	}
	if v := os.Getenv("IVAL_CREATE_SCOPE"); v != "" {
		c.CreateScope = v
	}
	if v := os.Getenv("IVAL_ARG_SCOPE"); v != "" {
		c.ArgScope = v
	}
	if v := os.Getenv("IVAL_MAX_CALL_DEPTH"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IVAL_MAX_CALL_DEPTH: %w", err)
		}
		c.MaxCallDepth = depth
	}
	return c.Options().Validate()
}

// Options converts the config into runtime options.
func (c *Config) Options() Options {
	return Options{
		Strict:       c.Strict,
		Create:       ScopePolicy(c.CreateScope),
		ArgScope:     ArgScope(c.ArgScope),
		MaxCallDepth: c.MaxCallDepth,
	}
}
