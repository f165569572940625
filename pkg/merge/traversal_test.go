package merge

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"srcmerge/pkg/ignore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func collect(e *Enumerator) []string {
	var out []string
	for path := range e.All() {
		out = append(out, path)
	}
	return out
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.h")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	abs, err := ValidateDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, abs)

	_, err = ValidateDirectory(file)
	assert.ErrorIs(t, err, ErrInvalidDirectory)

	_, err = ValidateDirectory(filepath.Join(dir, "gone"))
	assert.ErrorIs(t, err, ErrInvalidDirectory)
	assert.Contains(t, err.Error(), "is not a valid directory")
}

func TestEnumeratorExtensionOrder(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.cpp":     "",
		"a.h":       "",
		"sub/c.cpp": "",
		"sub/d.h":   "",
	})

	got := collect(NewEnumerator(root, []string{".cpp", ".h"}, nil, "", zaptest.NewLogger(t)))

	cpp := got[:2]
	h := got[2:]
	assert.ElementsMatch(t, []string{filepath.Join(root, "b.cpp"), filepath.Join(root, "sub", "c.cpp")}, cpp)
	assert.ElementsMatch(t, []string{filepath.Join(root, "a.h"), filepath.Join(root, "sub", "d.h")}, h)
}

func TestEnumeratorSuffixMatching(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lower.cpp":  "",
		"UPPER.CPP":  "",
		"nodotcpp":   "",
		"main.cpp.x": "",
	})

	tests := []struct {
		name string
		ext  string
		want []string
	}{
		{"case sensitive", ".cpp", []string{"lower.cpp"}},
		{"upper case", ".CPP", []string{"UPPER.CPP"}},
		{"missing dot is not normalized", "cpp", []string{"lower.cpp", "nodotcpp"}},
		{"suffix not extension", ".x", []string{"main.cpp.x"}},
		{"empty matches everything", "", []string{"UPPER.CPP", "lower.cpp", "main.cpp.x", "nodotcpp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for path := range NewEnumerator(root, nil, nil, "", nil).Files(tt.ext) {
				names = append(names, filepath.Base(path))
			}
			slices.Sort(names)
			want := slices.Clone(tt.want)
			slices.Sort(want)
			assert.Equal(t, want, names)
		})
	}
}

func TestEnumeratorSkipsDirectoriesNamedLikeExtension(t *testing.T) {
	root := writeTree(t, map[string]string{"pkg.cpp/inner.cpp": ""})

	got := collect(NewEnumerator(root, []string{".cpp"}, nil, "", nil))
	assert.Equal(t, []string{filepath.Join(root, "pkg.cpp", "inner.cpp")}, got)
}

func TestEnumeratorCountIncludesDuplicates(t *testing.T) {
	root := writeTree(t, map[string]string{"a.cpp": "", "b.h": ""})

	e := NewEnumerator(root, []string{".cpp", ".h", ".cpp"}, nil, "", nil)
	assert.Equal(t, 3, e.Count())
	assert.Len(t, collect(e), 3)
}

func TestEnumeratorSkipPath(t *testing.T) {
	root := writeTree(t, map[string]string{"a.cpp": "", "out.cpp": ""})

	got := collect(NewEnumerator(root, []string{".cpp"}, nil, filepath.Join(root, "out.cpp"), nil))
	assert.Equal(t, []string{filepath.Join(root, "a.cpp")}, got)
}

func TestEnumeratorExcludes(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/a.h":          "",
		"build/b.h":        "",
		"src/build/c.h":    "",
		"src/keep/build.h": "",
	})
	m := ignore.New(zaptest.NewLogger(t))
	m.AddLines("build/")

	got := collect(NewEnumerator(root, []string{".h"}, m, "", nil))
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "src", "a.h"),
		filepath.Join(root, "src", "keep", "build.h"),
	}, got)
}

func TestEnumeratorStopsEarly(t *testing.T) {
	root := writeTree(t, map[string]string{"a.h": "", "b.h": "", "c.h": ""})

	seen := 0
	for range NewEnumerator(root, []string{".h", ".h"}, nil, "", nil).All() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}
