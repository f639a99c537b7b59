package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fremvaerk/horalis/internal/config"
	"github.com/fremvaerk/horalis/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show the daemon settings",
	Long: `Show the settings file the daemon reads.

The daemon watches this file and applies changes to the reminder and
tracking options while it runs. Port and telemetry changes take effect
on the next start.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		out, err := yaml.Marshal(s)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GlobalSettingsFile()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var settingsTelemetryCmd = &cobra.Command{
	Use:       "telemetry <on|off>",
	Short:     "Turn anonymous usage reporting on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var enabled bool
		switch args[0] {
		case "on":
			enabled = true
		case "off":
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}
		if _, err := config.UpdateSettings(func(s *models.Settings) {
			s.Telemetry.Enabled = enabled
		}); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println(styleSuccess.Render("Saved."), styleHint.Render("Restart the daemon to apply."))
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsTelemetryCmd)
}
