package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/fremvaerk/horalis/internal/models"
)

// LoadDaemonInfo reads the address record horalisd writes on startup.
// It returns nil, nil when no daemon has announced itself.
func LoadDaemonInfo() (*models.DaemonInfo, error) {
	path, err := GlobalDaemonFile()
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		return nil, nil
	}

	var info models.DaemonInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, fmt.Errorf("read daemon info: %w", err)
	}
	return &info, nil
}

// SaveDaemonInfo announces the daemon's listening address.
func SaveDaemonInfo(info *models.DaemonInfo) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveDaemonInfo deletes the address record. A missing record is not an
// error.
func RemoveDaemonInfo() error {
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// IsDaemonRunning reports whether the recorded daemon is alive. A record
// whose process is gone, or that was never completed, is removed.
func IsDaemonRunning() (bool, *models.DaemonInfo, error) {
	info, err := LoadDaemonInfo()
	if err != nil || info == nil {
		return false, nil, err
	}

	if info.Port <= 0 || !processAlive(info.PID) {
		_ = RemoveDaemonInfo()
		return false, info, nil
	}
	return true, info, nil
}

// processAlive checks pid with signal 0. FindProcess always succeeds on
// Unix, so the signal is the real test.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
