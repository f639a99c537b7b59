package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fremvaerk/horalis/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the timer and daemon events live",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !stdoutIsTerminal() {
			return fmt.Errorf("watch needs an interactive terminal")
		}
		if err := EnsureDaemon(); err != nil {
			return err
		}
		c, err := connectDaemon()
		if err != nil {
			return err
		}
		defer c.Close()
		return tui.Run(c)
	},
}
