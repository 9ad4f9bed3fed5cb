package app

import (
	"github.com/spf13/cobra"
)

// NewPostInstallCmd returns the command that runs the formatter hook.
func NewPostInstallCmd(mgr Manager) *cobra.Command {
	return &cobra.Command{
		Use:     "postinstall",
		Aliases: []string{"after-all-installed"},
		Short:   "Format package.json and .yarnrc.yml with the project's prettier",
		Long: `
Resolve the project that owns the working directory, look up the prettier binary among
the binaries its dependencies expose and run:

  prettier --log-level error -w package.json .yarnrc.yml

The command fails with "Prettier not found." when the project cannot run prettier, and
with the exit code when prettier fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mgr.PostInstall(cmd.Context())
		},
	}
}
