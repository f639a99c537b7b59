package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fremvaerk/horalis/internal/config"
	"github.com/fremvaerk/horalis/internal/updater"
)

var updateCheckOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update horalis to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := updater.New("")
		fmt.Println(styleHint.Render("Checking for updates..."))

		result, err := client.CheckForUpdate()
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}

		if !result.Available {
			fmt.Println(styleSuccess.Render(fmt.Sprintf("Already up to date (v%s).", result.CurrentVersion)))
			return nil
		}

		fmt.Println(styleUpdate.Render(fmt.Sprintf("Update available: v%s → v%s", result.CurrentVersion, result.LatestVersion)))
		if result.ReleaseURL != "" {
			fmt.Printf("%s %s\n", styleLabel.Render("Release:"), styleValue.Render(result.ReleaseURL))
		}
		if updateCheckOnly {
			return nil
		}

		cliAsset := updater.FindAsset(result.Release, updater.CLIAssetName())
		daemonAsset := updater.FindAsset(result.Release, updater.DaemonAssetName())
		if cliAsset == nil {
			return fmt.Errorf("CLI binary not found in release (expected %s)", updater.CLIAssetName())
		}
		if daemonAsset == nil {
			return fmt.Errorf("daemon binary not found in release (expected %s)", updater.DaemonAssetName())
		}

		daemonWasRunning, daemonInfo, _ := config.IsDaemonRunning()
		if daemonWasRunning && daemonInfo != nil {
			fmt.Println("Stopping daemon...")
			if err := stopDaemon(cmd.Context(), daemonInfo); err != nil {
				fmt.Println(styleWarning.Render(fmt.Sprintf("Warning: failed to stop daemon: %v", err)))
			}
		}

		fmt.Printf("Downloading CLI (%s)...\n", cliAsset.Name)
		cliTmpPath, err := client.DownloadAsset(cliAsset)
		if err != nil {
			return fmt.Errorf("failed to download CLI: %w", err)
		}
		defer os.Remove(cliTmpPath)

		fmt.Printf("Downloading daemon (%s)...\n", daemonAsset.Name)
		daemonTmpPath, err := client.DownloadAsset(daemonAsset)
		if err != nil {
			return fmt.Errorf("failed to download daemon: %w", err)
		}
		defer os.Remove(daemonTmpPath)

		selfPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to find self: %w", err)
		}
		selfPath, err = filepath.EvalSymlinks(selfPath)
		if err != nil {
			return fmt.Errorf("failed to resolve self: %w", err)
		}

		fmt.Println("Installing CLI...")
		if err := updater.ReplaceBinary(selfPath, cliTmpPath); err != nil {
			return fmt.Errorf("failed to update CLI: %w", err)
		}

		daemonBinPath, err := findDaemonBinary()
		if err != nil {
			return fmt.Errorf("failed to find daemon binary: %w", err)
		}
		fmt.Println("Installing daemon...")
		if err := updater.ReplaceBinary(daemonBinPath, daemonTmpPath); err != nil {
			return fmt.Errorf("failed to update daemon: %w", err)
		}

		if daemonWasRunning {
			fmt.Println("Restarting daemon...")
			if err := startDaemon(); err != nil {
				fmt.Println(styleWarning.Render(fmt.Sprintf("Warning: failed to restart daemon: %v", err)))
			}
		}

		fmt.Println(styleSuccess.Render(fmt.Sprintf("Updated to v%s.", result.LatestVersion)))
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "Only check, do not install")
}
