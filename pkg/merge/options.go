package merge

import (
	"fmt"
	"time"

	"srcmerge/pkg/ignore"

	"go.uber.org/zap"
)

// Defaults used when an option is left empty.
const (
	DefaultDirectory = "."
	DefaultOutput    = "merged_cpp_files.cpp"
)

// DefaultExtensions returns the extension set used when none is given.
func DefaultExtensions() []string {
	return []string{".h", ".cpp"}
}

// Options holds the inputs of one merge run.
type Options struct {
	Directory   string   // Root directory to scan.
	Extensions  []string // Filename suffixes to include, matched case-sensitively in this order.
	Output      string   // Destination path for the merged file.
	Excludes    []string // Gitignore-style patterns to skip, relative to Directory.
	ExcludeFrom string   // Optional file of additional exclude patterns.
}

// DefaultOptions returns Options populated with the defaults.
func DefaultOptions() Options {
	return Options{
		Directory:  DefaultDirectory,
		Extensions: DefaultExtensions(),
		Output:     DefaultOutput,
	}
}

func (o Options) withDefaults() Options {
	if o.Directory == "" {
		o.Directory = DefaultDirectory
	}
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions()
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	return o
}

// excludeMatcher compiles Excludes and ExcludeFrom. It returns nil when no
// patterns were given.
func (o Options) excludeMatcher(logger *zap.Logger) (*ignore.Matcher, error) {
	if len(o.Excludes) == 0 && o.ExcludeFrom == "" {
		return nil, nil
	}

	m := ignore.New(logger)
	if o.ExcludeFrom != "" {
		if err := m.AddFile(o.ExcludeFrom); err != nil {
			return nil, fmt.Errorf("failed to load exclude file: %w", err)
		}
	}
	m.AddLines(o.Excludes...)
	return m, nil
}

// Result summarizes a completed run.
type Result struct {
	Output    string        // Absolute path of the merged file.
	Total     int           // Files enumerated, counting duplicates across extensions.
	Processed int           // Files written to the output.
	Failed    []FileError   // Files skipped because of a recoverable error.
	Elapsed   time.Duration // Wall time of the run.
}

// FileError records a recoverable failure for one input file.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}
