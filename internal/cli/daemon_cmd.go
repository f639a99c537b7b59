package cli

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fremvaerk/horalis/internal/config"
	"github.com/fremvaerk/horalis/internal/models"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the Horalis daemon",
	Long:  `Manage the horalisd daemon process.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

var daemonLogsLines int

var daemonLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the end of the daemon log",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := config.TailDaemonLog(daemonLogsLines)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}

func init() {
	daemonLogsCmd.Flags().IntVarP(&daemonLogsLines, "lines", "n", 50, "Number of lines to show")

	daemonCmd.AddCommand(daemonLogsCmd)
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running && info != nil {
		fmt.Printf("Daemon is already running (PID %d, port %d).\n", info.PID, info.Port)
		return nil
	}

	// Clean up stale daemon info if it exists
	if info != nil {
		_ = config.RemoveDaemonInfo()
	}

	fmt.Print("Starting daemon...")
	if startErr := startDaemon(); startErr != nil {
		fmt.Println()
		return startErr
	}

	_, freshInfo, err := GetDaemonStatus()
	if err != nil || freshInfo == nil {
		fmt.Println(" started.")
		return nil
	}

	fmt.Printf(" started (PID %d, port %d).\n", freshInfo.PID, freshInfo.Port)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	running, info, err := GetDaemonStatus()
	if err != nil {
		return err
	}

	if !running || info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	uptime := time.Since(info.StartedAt).Truncate(time.Second)

	fmt.Println("Daemon is running.")
	fmt.Printf("  Host:       %s\n", info.Host)
	fmt.Printf("  Port:       %d\n", info.Port)
	if info.WebPort > 0 {
		fmt.Printf("  Web port:   %d\n", info.WebPort)
	}
	fmt.Printf("  PID:        %d\n", info.PID)
	fmt.Printf("  Uptime:     %s\n", uptime)

	c, err := connectDaemon()
	if err != nil {
		return nil // Non-fatal: just skip live state
	}
	defer c.Close()
	ctx, cancel := context.WithTimeout(cmd.Context(), rpcTimeout)
	defer cancel()
	st, err := c.GetStatus(ctx)
	if err != nil {
		fmt.Printf("  %s\n", styleWarning.Render("Daemon did not answer: "+err.Error()))
		return nil
	}

	fmt.Printf("  Version:    %s\n", st.Version)
	fmt.Println()
	printStatus(st)
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running || info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	if err := stopDaemon(cmd.Context(), info); err != nil {
		return err
	}
	fmt.Println("Daemon stopped.")
	return nil
}

// stopDaemon asks the daemon to shut down over gRPC, falling back to a
// signal, and waits for it to go away.
func stopDaemon(ctx context.Context, info *models.DaemonInfo) error {
	if err := requestShutdown(ctx); err != nil {
		process, err := os.FindProcess(info.PID)
		if err != nil {
			return fmt.Errorf("failed to find daemon process: %w", err)
		}
		if err := process.Signal(syscall.SIGTERM); err != nil {
			// Windows only supports Kill.
			if err := process.Kill(); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}
		}
	}

	// Poll for shutdown (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		stillRunning, _, err := config.IsDaemonRunning()
		if err == nil && !stillRunning {
			return nil
		}
	}

	return fmt.Errorf("daemon did not stop within timeout")
}

func requestShutdown(ctx context.Context) error {
	c, err := connectDaemon()
	if err != nil {
		return err
	}
	defer c.Close()
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	return c.Shutdown(ctx)
}
