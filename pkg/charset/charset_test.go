package charset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDetectBytes(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name   string
		sample []byte
		want   string
	}{
		{"empty", nil, LabelUTF8},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "int x;"...), LabelUTF8},
		{"utf16le bom", []byte{0xFF, 0xFE, 'a', 0}, LabelUTF16LE},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'a'}, LabelUTF16BE},
		{"utf32le bom", []byte{0xFF, 0xFE, 0, 0, 'a', 0, 0, 0}, LabelUTF32LE},
		{"utf32be bom", []byte{0, 0, 0xFE, 0xFF, 0, 0, 0, 'a'}, LabelUTF32BE},
		{"plain ascii", []byte("#include <vector>\nint main() { return 0; }\n"), LabelASCII},
		{"nul bytes", []byte("ELF\x00\x01\x02\x00\x00"), ""},
		{"mostly control bytes", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 'a', 0xC3}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.DetectBytes(tt.sample))
		})
	}
}

func TestDetectBytesUTF8Text(t *testing.T) {
	d := NewDetector()
	sample := []byte("// Überprüfung der Größe: naïve café, señor, déjà vu, smörgåsbord\nint größe = 1;\n")

	assert.Equal(t, LabelUTF8, d.DetectBytes(sample))
}

func TestDetectBytesTruncatedUTF8(t *testing.T) {
	d := NewDetector()
	sample := []byte("int größe;\n\xC3")

	assert.Equal(t, LabelUTF8, d.DetectBytes(sample))
}

func TestDetectBytesLegacySingleByte(t *testing.T) {
	d := NewDetector()
	sample := []byte("// Cette fonction g\xE9n\xE8re la cl\xE9 du caf\xE9 na\xEFf, d\xE9j\xE0 vu.\n" +
		"// El se\xF1or compr\xF3 un caf\xE9 en la estaci\xF3n.\n")

	label := d.DetectBytes(sample)
	assert.NotEmpty(t, label)
	assert.NotEqual(t, LabelUTF8, label)
	assert.NotEqual(t, LabelASCII, label)
}

func TestDetectReadsOnlySample(t *testing.T) {
	data := append(bytes.Repeat([]byte("a"), SampleSize), 0xE9)
	path := writeFile(t, "late.cpp", data)

	label, err := NewDetector().Detect(path)
	require.NoError(t, err)
	assert.Equal(t, LabelASCII, label)

	_, err = ReadFile(path, label)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestDetectMissingFile(t *testing.T) {
	_, err := NewDetector().Detect(filepath.Join(t.TempDir(), "missing.h"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		label string
		data  []byte
		want  string
	}{
		{"ascii", "ascii", []byte("int x;"), "int x;"},
		{"utf8", "UTF-8", []byte("naïve"), "naïve"},
		{"utf8 strips bom", "UTF-8", []byte("\xEF\xBB\xBFint x;"), "int x;"},
		{"windows-1252", "windows-1252", []byte("caf\xE9"), "café"},
		{"iso-8859-1", "ISO-8859-1", []byte("se\xF1or"), "señor"},
		{"utf16le strips bom", LabelUTF16LE, []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"utf16be", LabelUTF16BE, []byte{0, 'o', 0, 'k'}, "ok"},
		{"utf32le", LabelUTF32LE, []byte{'a', 0, 0, 0}, "a"},
		{"empty input", "ascii", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.label, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		label string
		data  []byte
		want  error
	}{
		{"empty label", "", []byte("x"), ErrUndetermined},
		{"unknown label", "klingon-8", []byte("x"), ErrUnsupportedEncoding},
		{"non-ascii under ascii", "ascii", []byte("caf\xE9"), ErrUndecodable},
		{"invalid utf8", "utf-8", []byte{'o', 'k', 0xFF, 0xFE}, ErrUndecodable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.label, tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.cpp"), LabelUTF8)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
