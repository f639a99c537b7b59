package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// OpenDaemonLog opens ~/.horalis/logs/horalisd.log for appending, creating
// the logs directory as needed.
func OpenDaemonLog() (*os.File, error) {
	path, err := GlobalLogFile()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// TailDaemonLog returns the last n lines of the daemon log.
// A missing log yields no lines.
func TailDaemonLog(n int) ([]string, error) {
	path, err := GlobalLogFile()
	if err != nil {
		return nil, err
	}
	return tailFile(path, n)
}

func tailFile(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	if n <= 0 {
		return nil, nil
	}

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(ring) == n {
			ring = append(ring[1:], scanner.Text())
			continue
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ring, nil
}
