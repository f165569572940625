package cmd

import (
	"context"
	"fmt"

	"srcmerge/pkg/logging"
	"srcmerge/pkg/merge"
	"srcmerge/pkg/version"

	"github.com/spf13/cobra"
)

// rootFlags holds the values bound to the root command's flags.
type rootFlags struct {
	directory   string
	extensions  []string
	output      string
	excludes    []string
	excludeFrom string
	config      string
	debug       bool
}

// NewRootCommand creates the srcmerge command. Running it without a
// subcommand performs a merge.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "srcmerge",
		Short: "Merge the source files of a directory tree into one file",
		Long: `srcmerge walks a directory tree, collects every file whose name ends with
one of the given extensions and concatenates them into a single UTF-8 file.
Each file is preceded by a "// File: <path>" header, which makes the result
easy to paste into an LLM prompt or a review tool.

The encoding of each file is guessed from its first 10,000 bytes and the
file is transcoded to UTF-8. Files that cannot be read or decoded are
reported and skipped.`,
		Example: `  srcmerge
  srcmerge -d ./engine -e .h .cpp .inl -o engine.cpp
  srcmerge -d . -e .go -x vendor/ -x "*_test.go" -o bundle.go`,
		Version:       version.Version,
		Args:          extensionArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Setup(flags.debug, "srcmerge", version.Version); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.directory, "directory", "d", merge.DefaultDirectory, "Directory to search for files")
	f.StringSliceVarP(&flags.extensions, "extensions", "e", merge.DefaultExtensions(), "File extensions to include; may be repeated, comma-separated or followed by more extensions")
	f.StringVarP(&flags.output, "output", "o", merge.DefaultOutput, "Output file name")
	f.StringArrayVarP(&flags.excludes, "exclude", "x", nil, "Gitignore-style pattern to skip; may be repeated")
	f.StringVar(&flags.excludeFrom, "exclude-from", "", "File of gitignore-style patterns to skip")
	f.StringVarP(&flags.config, "config", "c", "", "YAML config file (default: "+merge.ConfigFileName+" in the working directory, if present)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

// extensionArgs accepts positional arguments only as a continuation of
// --extensions, so "-e .h .cpp" lists two extensions.
func extensionArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && !cmd.Flags().Changed("extensions") {
		return fmt.Errorf("unexpected arguments %q; use -e to list extensions", args)
	}
	return nil
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
