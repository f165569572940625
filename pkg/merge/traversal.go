package merge

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"srcmerge/pkg/ignore"

	"go.uber.org/zap"
)

// ValidateDirectory resolves dir to an absolute path and checks that it is an
// existing directory.
func ValidateDirectory(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("'%s' is %w: %v", dir, ErrInvalidDirectory, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("'%s' is %w: %v", dir, ErrInvalidDirectory, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("'%s' is %w", dir, ErrInvalidDirectory)
	}
	return abs, nil
}

// Enumerator lists files under a root directory whose names end with one of
// a set of extensions. Each extension is a separate walk of the tree, so a
// file matching two extensions is listed twice.
type Enumerator struct {
	root       string
	extensions []string
	excludes   *ignore.Matcher
	skip       string
	logger     *zap.Logger
}

// NewEnumerator returns an Enumerator over root, which must be an absolute
// path to an existing directory (see ValidateDirectory). excludes may be nil.
// skip names one absolute path that is never listed, typically the output file.
func NewEnumerator(root string, extensions []string, excludes *ignore.Matcher, skip string, logger *zap.Logger) *Enumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enumerator{
		root:       root,
		extensions: extensions,
		excludes:   excludes,
		skip:       skip,
		logger:     logger,
	}
}

// Count walks the tree once per extension and returns the number of paths
// All will yield, duplicates included.
func (e *Enumerator) Count() int {
	total := 0
	for range e.All() {
		total++
	}
	return total
}

// All yields the files of every extension, in extension order.
func (e *Enumerator) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, ext := range e.extensions {
			for path := range e.Files(ext) {
				if !yield(path) {
					return
				}
			}
		}
	}
}

// Files lazily yields files whose base name ends with ext. Matching is a
// case-sensitive suffix test on the name exactly as given.
func (e *Enumerator) Files(ext string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				e.logger.Debug("Skipping unreadable path", zap.String("path", path), zap.Error(err))
				return nil
			}
			if path == e.root {
				return nil
			}

			if e.excluded(path, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || path == e.skip || !strings.HasSuffix(d.Name(), ext) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (e *Enumerator) excluded(path string, isDir bool) bool {
	if e.excludes == nil {
		return false
	}
	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		return false
	}
	if matched, p := e.excludes.MatchWithPattern(rel, isDir); matched {
		e.logger.Debug("Excluded path", zap.String("path", rel), zap.String("pattern", p.Line))
		return true
	}
	return false
}
