package app

import (
	"github.com/spf13/cobra"

	"github.com/andyballingall/prettier-hook/internal/report"
)

// NewBinsCmd returns the command that lists the binaries accessible from the working directory.
func NewBinsCmd(mgr Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bins",
		Short: "List the binaries the current workspace can run",
		Args:  cobra.NoArgs,
	}

	outputVal := formatValue(report.FormatText)
	cmd.Flags().VarP(&outputVal, "format", "f", "Output format (text, json)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		noColour, _ := cmd.Flags().GetBool("nocolour")
		return mgr.ListBinaries(cmd.Context(), report.Format(outputVal), !noColour)
	}

	return cmd
}
