package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion   = "dev"
	appBuildTime = "unknown"
)

// SetVersion records build information for the version command.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = version
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// No config or client needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rustmaps %s (built %s)\n", appVersion, appBuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
