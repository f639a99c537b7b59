package cli

import (
	"context"
	"fmt"

	"github.com/fremvaerk/horalis/internal/api"
	"github.com/fremvaerk/horalis/internal/config"
)

// connectDaemon establishes a gRPC connection to the running daemon.
func connectDaemon() (*api.Client, error) {
	info, err := config.LoadDaemonInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to load daemon info: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("daemon not running (start it with: horalis daemon start)")
	}
	return api.Dial(info.Addr())
}

// withDaemon starts the daemon if needed, connects and runs fn with a
// request-scoped context.
func withDaemon(ctx context.Context, fn func(ctx context.Context, c *api.Client) error) error {
	if err := EnsureDaemon(); err != nil {
		return err
	}
	c, err := connectDaemon()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	return fn(ctx, c)
}
