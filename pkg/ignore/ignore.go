// Package ignore matches relative paths against gitignore-style exclude patterns.
package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Pattern is one compiled exclude pattern.
type Pattern struct {
	Regexp *regexp.Regexp // Compiled form of Line.
	Negate bool           // Pattern started with '!' and re-includes matches.
	Line   string         // Original pattern text.
	LineNo int            // 1-based position among the lines it was added with.
}

// Matcher is an ordered set of exclude patterns. Later patterns override
// earlier ones, so a negated pattern can re-include a path.
type Matcher struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// New returns an empty Matcher. A nil logger disables logging.
func New(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// AddLines compiles pattern lines. Blank lines and '#' comments are skipped,
// as are lines that do not compile.
func (m *Matcher) AddLines(lines ...string) {
	for i, line := range lines {
		p, ok := m.parseLine(line, i+1)
		if !ok {
			continue
		}
		m.patterns = append(m.patterns, p)
		m.logger.Debug("Compiled exclude pattern",
			zap.Int("lineNo", p.LineNo),
			zap.String("pattern", p.Line),
			zap.Bool("negate", p.Negate))
	}
}

// AddFile reads newline-separated patterns from path.
func (m *Matcher) AddFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		m.logger.Error("Failed to read exclude file", zap.String("filePath", path), zap.Error(err))
		return err
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	m.AddLines(lines...)
	m.logger.Debug("Loaded exclude file", zap.String("filePath", path), zap.Int("lineCount", len(lines)))
	return nil
}

// Match reports whether relPath is excluded. isDir marks directory paths.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	matched, _ := m.MatchWithPattern(relPath, isDir)
	return matched
}

// MatchWithPattern is Match that also returns the last pattern that decided
// the result, or nil when none applied.
func (m *Matcher) MatchWithPattern(relPath string, isDir bool) (bool, *Pattern) {
	path := normalizePath(relPath, isDir)

	matched := false
	var decided *Pattern
	for _, p := range m.patterns {
		if p.Regexp.MatchString(path) {
			matched = !p.Negate
			decided = p
		}
	}
	return matched, decided
}

func (m *Matcher) parseLine(line string, lineNo int) (*Pattern, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}
	// "\#" and "\!" match a literal leading '#' or '!'.
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	re, err := compilePattern(trimmed)
	if err != nil {
		m.logger.Warn("Invalid exclude pattern",
			zap.String("pattern", line),
			zap.Int("lineNo", lineNo),
			zap.Error(err))
		return nil, false
	}

	return &Pattern{Regexp: re, Negate: negate, Line: line, LineNo: lineNo}, true
}

// normalizePath uses forward slashes and marks directories with a trailing slash.
func normalizePath(path string, isDir bool) string {
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	if isDir && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}
