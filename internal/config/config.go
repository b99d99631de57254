// Package config loads the tapin configuration file.
//
// Configuration is YAML, validated against an embedded CUE schema before
// anything touches it. The file is optional: absent, the defaults apply.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// DefaultPath is where the config file is looked for when no explicit
// path is given.
const DefaultPath = "tapin.yaml"

// Config holds the runtime settings for tapin.
type Config struct {
	Database        string `yaml:"database" json:"database"`
	DebounceSeconds int    `yaml:"debounce_seconds" json:"debounce_seconds"`
	StopKeyword     string `yaml:"stop_keyword" json:"stop_keyword"`
	ExportDir       string `yaml:"export_dir" json:"export_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:        "tapin.db",
		DebounceSeconds: 30,
		StopKeyword:     "stop",
		ExportDir:       ".",
	}
}

// DebounceWindow returns the debounce setting as a duration.
func (c Config) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceSeconds) * time.Second
}

// Load reads and validates the configuration.
//
// With an empty path, DefaultPath is tried and a missing file silently
// yields the defaults. An explicit path that cannot be read is an error.
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks a configuration against the embedded CUE schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup config schema: %w", err)
	}

	unified := def.Unify(ctx.Encode(cfg))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid configuration: %s", cueerrors.Details(err, nil))
	}
	return nil
}
