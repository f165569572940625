package cmd

import (
	"fmt"
	"os"

	"srcmerge/pkg/logging"
	"srcmerge/pkg/merge"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runMerge resolves the options and runs the merge, reporting to the
// command's output stream.
func runMerge(cmd *cobra.Command, flags *rootFlags, args []string) error {
	opts, err := resolveOptions(cmd, flags, args)
	if err != nil {
		return err
	}

	logger := logging.Logger
	result, err := merge.Run(cmd.Context(), opts, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		logger.Warn("Some files were skipped",
			zap.Int("failed", len(result.Failed)),
			zap.Int("processed", result.Processed))
	}
	return nil
}

// resolveOptions layers defaults, the config file and explicitly set flags,
// in that order of precedence.
func resolveOptions(cmd *cobra.Command, flags *rootFlags, args []string) (merge.Options, error) {
	var (
		opts merge.Options
		err  error
	)
	if flags.config != "" {
		if _, statErr := os.Stat(flags.config); statErr != nil {
			return opts, fmt.Errorf("config file: %w", statErr)
		}
		opts, err = merge.LoadConfig(flags.config)
	} else {
		opts, err = merge.LoadConfigFromDir(".")
	}
	if err != nil {
		return opts, err
	}

	f := cmd.Flags()
	var (
		directory, output, excludeFrom *string
		extensions, excludes           *[]string
	)
	if f.Changed("directory") {
		directory = &flags.directory
	}
	if f.Changed("extensions") {
		exts := append(append([]string{}, flags.extensions...), args...)
		extensions = &exts
	}
	if f.Changed("output") {
		output = &flags.output
	}
	if f.Changed("exclude") {
		excludes = &flags.excludes
	}
	if f.Changed("exclude-from") {
		excludeFrom = &flags.excludeFrom
	}
	opts.MergeWithFlags(directory, extensions, output, excludes, excludeFrom)

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}
