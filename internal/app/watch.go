package app

import (
	"github.com/spf13/cobra"
)

// NewWatchCmd returns the command that reformats on every change to the formatted files.
func NewWatchCmd(mgr Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reformat package.json and .yarnrc.yml whenever they change",
		Long: `
Watch the working directory and rerun the hook after package.json or .yarnrc.yml is
written. Failed runs are reported and watching continues until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mgr.Watch(cmd.Context(), nil)
		},
	}
}
