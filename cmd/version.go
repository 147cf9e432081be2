// File: cmd/version.go
package cmd

import (
	"fmt"

	"repo2prompt/pkg/version"

	"github.com/spf13/cobra"
)

// newVersionCmd returns the version command.
// It displays the current version of repo2prompt.
// The --short flag allows users to retrieve a concise version string.
func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of repo2prompt",
		Long:  `Display the current version information of the repo2prompt CLI tool.`,
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

	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return versionCmd
}
