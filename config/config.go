// Package config loads optional YAML run configuration. Values from a file
// sit between the built-in defaults and explicit command-line flags: a file
// overrides a default, a flag given on the command line overrides the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the fully resolved run configuration handed to the rest of the
// program after defaults, file values, and flags have been merged.
type Options struct {
	Internal        string
	External        string
	Threads         int
	TimeoutSeconds  int
	FollowRedirects bool
	PrintAll        bool
	Retries         int
	UserAgent       string
}

// Default returns the built-in options: check every link in both scopes,
// single-threaded, ten second timeout, redirects followed.
func Default() Options {
	return Options{
		Internal:        "check",
		External:        "check",
		Threads:         1,
		TimeoutSeconds:  10,
		FollowRedirects: true,
		UserAgent:       "linkrot/1.0",
	}
}

// Validate reports the first problem with the merged options.
func (o Options) Validate() error {
	for name, action := range map[string]string{"internal": o.Internal, "external": o.External} {
		switch action {
		case "check", "ignore", "follow":
		default:
			return fmt.Errorf("%s: invalid action %q (valid: check, ignore, follow)", name, action)
		}
	}
	if o.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", o.Threads)
	}
	if o.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", o.TimeoutSeconds)
	}
	if o.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", o.Retries)
	}
	return nil
}

// File mirrors the YAML document. Every field is a pointer so that an absent
// key can be told apart from an explicit zero when merging.
type File struct {
	Internal        *string `yaml:"internal"`
	External        *string `yaml:"external"`
	Threads         *int    `yaml:"threads"`
	TimeoutSeconds  *int    `yaml:"timeout_seconds"`
	FollowRedirects *bool   `yaml:"follow_redirects"`
	PrintAll        *bool   `yaml:"print_all"`
	Retries         *int    `yaml:"retries"`
	UserAgent       *string `yaml:"user_agent"`
}

// Load parses a YAML document. Unknown keys are an error so that a typo in a
// config file never silently falls back to a default.
func Load(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil // empty file, nothing to merge
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses the YAML file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Apply copies every value present in the file onto opts.
func (f *File) Apply(opts *Options) {
	if f.Internal != nil {
		opts.Internal = *f.Internal
	}
	if f.External != nil {
		opts.External = *f.External
	}
	if f.Threads != nil {
		opts.Threads = *f.Threads
	}
	if f.TimeoutSeconds != nil {
		opts.TimeoutSeconds = *f.TimeoutSeconds
	}
	if f.FollowRedirects != nil {
		opts.FollowRedirects = *f.FollowRedirects
	}
	if f.PrintAll != nil {
		opts.PrintAll = *f.PrintAll
	}
	if f.Retries != nil {
		opts.Retries = *f.Retries
	}
	if f.UserAgent != nil {
		opts.UserAgent = *f.UserAgent
	}
}
