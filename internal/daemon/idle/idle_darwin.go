//go:build darwin

package idle

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

type ioregQuerier struct{}

// New returns the IOKit-backed querier.
func New() Querier {
	return ioregQuerier{}
}

func (ioregQuerier) IdleDuration() (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("run ioreg: %w", err)
	}
	return parseHIDIdleTime(out)
}
