// Package charset guesses the text encoding of a file from a bounded sample
// and decodes whole files to UTF-8 under that guess.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/saintfish/chardet"
)

// SampleSize is the number of leading bytes inspected when guessing an encoding.
const SampleSize = 10000

// Labels returned for the cases resolved without the statistical detector.
const (
	LabelUTF8    = "UTF-8"
	LabelASCII   = "ascii"
	LabelUTF16LE = "UTF-16LE"
	LabelUTF16BE = "UTF-16BE"
	LabelUTF32LE = "UTF-32LE"
	LabelUTF32BE = "UTF-32BE"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detector guesses encodings with ICU-style statistical recognizers.
// The zero value is not usable; call NewDetector.
type Detector struct {
	text *chardet.Detector
}

// NewDetector returns a Detector backed by chardet's text detector.
func NewDetector() *Detector {
	return &Detector{text: chardet.NewTextDetector()}
}

// Detect reads at most SampleSize bytes of the file at path and returns the
// best-guess encoding label. An empty label means the encoding could not be
// determined; that is not an error.
func (d *Detector) Detect(path string) (string, error) {
	sample, err := readSample(path, SampleSize)
	if err != nil {
		return "", err
	}
	return d.DetectBytes(sample), nil
}

// DetectBytes returns the best-guess encoding label for sample.
func (d *Detector) DetectBytes(sample []byte) string {
	if len(sample) == 0 {
		return LabelUTF8
	}

	// UTF-32 must be checked before UTF-16, their little-endian BOMs share a prefix.
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return LabelUTF8
	case bytes.HasPrefix(sample, bomUTF32LE):
		return LabelUTF32LE
	case bytes.HasPrefix(sample, bomUTF32BE):
		return LabelUTF32BE
	case bytes.HasPrefix(sample, bomUTF16LE):
		return LabelUTF16LE
	case bytes.HasPrefix(sample, bomUTF16BE):
		return LabelUTF16BE
	}

	if isASCII(sample) {
		return LabelASCII
	}
	if looksBinary(sample) {
		return ""
	}
	if validUTF8(sample) {
		return LabelUTF8
	}

	result, err := d.text.DetectBest(sample)
	if err != nil || result == nil {
		return ""
	}
	return result.Charset
}

// readSample reads up to n bytes from the start of the file.
func readSample(path string, n int) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("reading sample: %w", err)
	}
	return buf[:read], nil
}

// isASCII reports whether every byte is 7-bit and non-NUL.
func isASCII(sample []byte) bool {
	for _, b := range sample {
		if b == 0 || b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// validUTF8 reports whether sample is valid UTF-8, tolerating one multi-byte
// sequence cut off by the end of the sample.
func validUTF8(sample []byte) bool {
	if utf8.Valid(sample) {
		return true
	}
	for k := 1; k < utf8.UTFMax && k < len(sample); k++ {
		head, tail := sample[:len(sample)-k], sample[len(sample)-k:]
		if utf8.RuneStart(tail[0]) && !utf8.FullRune(tail) && utf8.Valid(head) {
			return true
		}
	}
	return false
}

// looksBinary reports whether sample is likely not text: it contains NUL
// bytes, or more than 30% control bytes. Bytes >= 0x80 count as printable so
// single-byte encodings of non-Latin scripts are not mistaken for binary.
func looksBinary(sample []byte) bool {
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	control := 0
	for _, b := range sample {
		if isControl(b) {
			control++
		}
	}
	return float64(control)/float64(len(sample)) > 0.3
}

func isControl(b byte) bool {
	switch b {
	case '\n', '\r', '\t', '\f', '\v':
		return false
	}
	return b < 0x20 || b == 0x7F
}
