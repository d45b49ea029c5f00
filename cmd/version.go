package cmd

import (
	"github.com/spf13/cobra"

	"gradlemeta/internal/version"
)

// Version information that build systems may set via ldflags on this package
// instead of internal/version.
var (
	Version   string
	Commit    string
	BuildTime string
)

// newVersionCmd creates and returns the version command.
func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the version, commit and build time of the gradlemeta binary.`,
		// Printing the version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show only version number")
	return cmd
}

// runVersion writes the version of the binary.
func runVersion(cmd *cobra.Command, short bool) error {
	if Version != "" || Commit != "" || BuildTime != "" {
		version.SetBuildVars(Version, Commit, BuildTime)
	}
	return version.GetVersion().Write(cmd.OutOrStdout(), short)
}
