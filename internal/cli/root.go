// Package cli implements the horalis CLI commands.
package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// rpcTimeout bounds every unary call to the daemon.
var rpcTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:   "horalis",
	Short: "Track time from the system tray",
	Long: `Horalis tracks time against projects from the system tray.

The horalisd daemon owns the tray icon, the running timer and the
reminders; this command talks to it over a local gRPC connection and
starts it when needed.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&rpcTimeout, "timeout", rpcTimeout, "Timeout for daemon requests")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(iconCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(reminderCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}
