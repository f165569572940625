package charset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var (
	// ErrUndetermined is returned when decoding is asked for with an empty label.
	ErrUndetermined = errors.New("encoding could not be determined")
	// ErrUnsupportedEncoding is returned for labels no decoder is known for.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	// ErrUndecodable is returned when content is not valid under the label.
	ErrUndecodable = errors.New("content is not valid in the guessed encoding")
)

// Detector labels that neither index knows under that exact spelling.
var aliases = map[string]string{
	"gb-18030": "gb18030",
}

// ReadFile reads the whole file at path and decodes it under label.
func ReadFile(path, label string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Decode(label, data)
}

// Decode converts data from the encoding named by label to a UTF-8 string.
// A leading byte-order mark is dropped. Content that the encoding cannot
// represent is an error rather than being replaced.
func Decode(label string, data []byte) (string, error) {
	name := strings.ToLower(strings.TrimSpace(label))
	if name == "" {
		return "", ErrUndetermined
	}

	switch name {
	case "ascii", "us-ascii":
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return "", fmt.Errorf("%w: byte 0x%02x at offset %d is not %s", ErrUndecodable, b, i, label)
			}
		}
		return string(data), nil
	case "utf-8", "utf8":
		data = bytes.TrimPrefix(data, bomUTF8)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: invalid %s sequence at offset %d", ErrUndecodable, label, invalidUTF8Offset(data))
		}
		return string(data), nil
	}

	enc, err := lookup(name)
	if err != nil {
		return "", err
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if i := bytes.IndexRune(out, utf8.RuneError); i >= 0 {
		return "", fmt.Errorf("%w: %s decoder produced a replacement character at output offset %d", ErrUndecodable, label, i)
	}
	return strings.TrimPrefix(string(out), "\uFEFF"), nil
}

// lookup resolves a lower-cased label to an encoding.
func lookup(name string) (encoding.Encoding, error) {
	switch name {
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "utf-32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), nil
	case "utf-32be":
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), nil
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, name)
}

func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
