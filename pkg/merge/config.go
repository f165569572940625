package merge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the config file picked up from the working directory
// when no explicit config path is given.
const ConfigFileName = ".srcmerge.yaml"

// fileConfig mirrors the YAML layout of a config file.
type fileConfig struct {
	Directory   string   `yaml:"directory"`
	Extensions  []string `yaml:"extensions"`
	Output      string   `yaml:"output"`
	Exclude     []string `yaml:"exclude"`
	ExcludeFrom string   `yaml:"exclude_from"`
}

// LoadConfig loads Options from the YAML file at path, layered over
// DefaultOptions. A missing file yields the defaults without error; a
// malformed file or an unknown key is an error.
func LoadConfig(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if raw.Directory != "" {
		opts.Directory = raw.Directory
	}
	if len(raw.Extensions) > 0 {
		opts.Extensions = raw.Extensions
	}
	if raw.Output != "" {
		opts.Output = raw.Output
	}
	if len(raw.Exclude) > 0 {
		opts.Excludes = raw.Exclude
	}
	if raw.ExcludeFrom != "" {
		opts.ExcludeFrom = raw.ExcludeFrom
	}

	return opts, nil
}

// LoadConfigFromDir loads ConfigFileName from dir, falling back to defaults.
func LoadConfigFromDir(dir string) (Options, error) {
	return LoadConfig(filepath.Join(dir, ConfigFileName))
}

// MergeWithFlags overrides options with flag values. Nil pointers mean the
// flag was not set on the command line.
func (o *Options) MergeWithFlags(directory *string, extensions *[]string, output *string, excludes *[]string, excludeFrom *string) {
	if directory != nil {
		o.Directory = *directory
	}
	if extensions != nil {
		o.Extensions = *extensions
	}
	if output != nil {
		o.Output = *output
	}
	if excludes != nil {
		o.Excludes = *excludes
	}
	if excludeFrom != nil {
		o.ExcludeFrom = *excludeFrom
	}
}

// Validate reports option values that cannot start a run.
func (o Options) Validate() error {
	if len(o.Extensions) == 0 {
		return fmt.Errorf("at least one extension is required")
	}
	if o.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	return nil
}
