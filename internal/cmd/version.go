package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/certwatch-app/cw-expiry/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, git commit, and build date of cw-expiry.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetInfo()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, info.Short())
		fmt.Fprintf(out, "  Version:    %s\n", info.Version)
		fmt.Fprintf(out, "  Commit:     %s\n", info.GitCommit)
		fmt.Fprintf(out, "  Build Date: %s\n", info.BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(out, "  Platform:   %s\n", info.Platform())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
