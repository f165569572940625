package merge

import (
	"fmt"

	"srcmerge/pkg/charset"

	"go.uber.org/zap"
)

// headerFormat precedes every merged file in the output.
const headerFormat = "\n\n// File: %s\n"

// EncodingDetector guesses the text encoding of a file. An empty label with a
// nil error means the encoding could not be determined.
type EncodingDetector interface {
	Detect(path string) (string, error)
}

// readSource guesses the encoding of the file at path and decodes all of it
// under that guess.
func (m *Merger) readSource(path string) (string, error) {
	label, err := m.detector.Detect(path)
	if err != nil {
		return "", err
	}
	if label == "" {
		return "", charset.ErrUndetermined
	}
	m.logger.Debug("Detected encoding", zap.String("filePath", path), zap.String("encoding", label))

	content, err := charset.ReadFile(path, label)
	if err != nil {
		return "", fmt.Errorf("decoding as %s: %w", label, err)
	}
	return content, nil
}
