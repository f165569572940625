package cmd

import (
	"fmt"

	"srcmerge/pkg/version"

	"github.com/spf13/cobra"
)

// newVersionCommand creates the version command. The --short flag prints
// only the version number.
func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of srcmerge",
		Long:  `Display the version, commit, build time and platform of the srcmerge binary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return cmd
}
