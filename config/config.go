// Package config loads radix-canon CLI defaults from a YAML document.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lattice-substrate/radix-canon/radixfloat"
)

// EnvConfigPath names the environment variable holding the default config
// path when no --config option is given.
const EnvConfigPath = "RADIX_CANON_CONFIG"

// DefaultMaxInputSize caps the bytes read from stdin or an input file.
const DefaultMaxInputSize = 1 << 20

// OutputMode selects how results are written.
type OutputMode string

const (
	// OutputText writes one bare result per line.
	OutputText OutputMode = "text"
	// OutputJSON writes one canonical JSON record per line.
	OutputJSON OutputMode = "json"
)

// Config holds CLI defaults. Command-line options override every field.
type Config struct {
	Base         int        `yaml:"base"`
	Output       OutputMode `yaml:"output"`
	Float32      bool       `yaml:"float32"`
	BitsInput    bool       `yaml:"bits_input"`
	MaxInputSize int        `yaml:"max_input_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Base:         10,
		Output:       OutputText,
		MaxInputSize: DefaultMaxInputSize,
	}
}

// Load reads, decodes, and validates a YAML config document. Keys absent
// from the document keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve loads the config at path, falling back to $RADIX_CANON_CONFIG and
// then to Default when both are empty.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}
	return Load(path)
}

// Validate checks a config for internal consistency.
func Validate(c *Config) error {
	if !radixfloat.ValidBase(c.Base) {
		return fmt.Errorf("config: base %d must be between %d and %d", c.Base, radixfloat.MinBase, radixfloat.MaxBase)
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("config: unknown output mode %q", c.Output)
	}
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("config: max_input_size must be positive, got %d", c.MaxInputSize)
	}
	return nil
}
