// Package merge concatenates the source files of a directory tree into one
// UTF-8 file, each preceded by a "// File: <path>" header.
package merge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"srcmerge/pkg/charset"

	"go.uber.org/zap"
)

// Merger runs the enumerate, detect, decode and write pipeline. It is not
// safe for concurrent use.
type Merger struct {
	detector EncodingDetector
	reporter *Reporter
	logger   *zap.Logger
}

// NewMerger returns a Merger. A nil detector uses charset.NewDetector and a
// nil logger disables logging.
func NewMerger(detector EncodingDetector, reporter *Reporter, logger *zap.Logger) *Merger {
	if detector == nil {
		detector = charset.NewDetector()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{detector: detector, reporter: reporter, logger: logger}
}

// Run merges with the default detector, reporting to console.
func Run(ctx context.Context, opts Options, console io.Writer, logger *zap.Logger) (*Result, error) {
	return NewMerger(nil, NewReporter(console), logger).Run(ctx, opts)
}

// Run validates the root directory, opens the output and merges every
// enumerated file. Per-file failures are reported and collected in
// Result.Failed; only an invalid directory, exclude file or output error,
// or cancellation of ctx, is returned as an error.
func (m *Merger) Run(ctx context.Context, opts Options) (*Result, error) {
	startTime := time.Now()
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	root, err := ValidateDirectory(opts.Directory)
	if err != nil {
		m.logger.Error("Invalid root directory", zap.String("directory", opts.Directory), zap.Error(err))
		return nil, err
	}
	outputPath, err := filepath.Abs(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrOutputOpen, opts.Output, err)
	}
	excludes, err := opts.excludeMatcher(m.logger)
	if err != nil {
		return nil, err
	}

	m.logger.Info("Starting merge",
		zap.String("directory", root),
		zap.Strings("extensions", opts.Extensions),
		zap.String("output", outputPath))

	enum := NewEnumerator(root, opts.Extensions, excludes, outputPath, m.logger)
	result := &Result{Output: outputPath, Total: enum.Count()}

	out, err := os.Create(outputPath)
	if err != nil {
		m.logger.Error("Failed to create output file", zap.String("file", outputPath), zap.Error(err))
		return nil, fmt.Errorf("%w %s: %v", ErrOutputOpen, outputPath, err)
	}

	runErr := m.mergeInto(ctx, out, enum, result)
	if closeErr := out.Close(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("%w %s: %v", ErrOutputWrite, outputPath, closeErr)
	}
	result.Elapsed = time.Since(startTime)
	if runErr != nil {
		m.logger.Error("Merge aborted", zap.String("output", outputPath), zap.Error(runErr))
		return result, runErr
	}

	if m.reporter != nil {
		m.reporter.Done(outputPath)
	}
	m.logger.Info("Merge completed",
		zap.String("output", outputPath),
		zap.Int("total", result.Total),
		zap.Int("processed", result.Processed),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// mergeInto writes every enumerated file to out, stopping only on a write
// error or cancellation.
func (m *Merger) mergeInto(ctx context.Context, out io.Writer, enum *Enumerator, result *Result) error {
	writer := bufio.NewWriter(out)

	for path := range enum.All() {
		if err := ctx.Err(); err != nil {
			if flushErr := writer.Flush(); flushErr != nil {
				return fmt.Errorf("%w %s: %v", ErrOutputWrite, result.Output, flushErr)
			}
			return err
		}

		content, err := m.readSource(path)
		if err != nil {
			m.logger.Debug("Skipping file", zap.String("filePath", path), zap.Error(err))
			result.Failed = append(result.Failed, FileError{Path: path, Err: err})
			if m.reporter != nil {
				m.reporter.Failure(path, err)
			}
			continue
		}

		if _, err := fmt.Fprintf(writer, headerFormat, path); err != nil {
			return fmt.Errorf("%w %s: %v", ErrOutputWrite, result.Output, err)
		}
		if _, err := writer.WriteString(content); err != nil {
			return fmt.Errorf("%w %s: %v", ErrOutputWrite, result.Output, err)
		}

		result.Processed++
		if m.reporter != nil {
			m.reporter.Progress(result.Processed, result.Total)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("%w %s: %v", ErrOutputWrite, result.Output, err)
	}
	return nil
}
