package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxCallDepth is the stack-overflow detection ceiling used when the
// caller does not configure one.
const DefaultMaxCallDepth = 256

// DefaultMaxErrors bounds how many diagnostics accumulate before the
// collector stops accepting more.
const DefaultMaxErrors = 100

// Options are the knobs the semantic core honors. The enclosing compiler
// constructs one value and passes it by reference to every phase; there is
// no global configuration state.
type Options struct {
	// MaxErrors caps collected diagnostics. <= 0 means unbounded.
	MaxErrors int `yaml:"max_errors"`
	// StrictMode treats warnings as errors and aborts the remaining
	// pipeline at the first phase boundary with any error recorded.
	StrictMode bool `yaml:"strict_mode"`
	// SafetyAnalysis enables the safety analyzer pass.
	SafetyAnalysis bool `yaml:"safety_analysis"`
	// MaxCallDepth is the call-stack ceiling for stack-overflow detection.
	MaxCallDepth int `yaml:"max_call_depth"`
}

// Default returns the options used when nothing is configured.
func Default() *Options {
	return &Options{
		MaxErrors:      DefaultMaxErrors,
		StrictMode:     false,
		SafetyAnalysis: true,
		MaxCallDepth:   DefaultMaxCallDepth,
	}
}

// Load parses YAML option data over the defaults, so partial files work.
func Load(data []byte) (*Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("invalid compiler options: %w", err)
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	return opts, nil
}

// LoadFile reads and parses an options file.
func LoadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading compiler options: %w", err)
	}
	return Load(data)
}
