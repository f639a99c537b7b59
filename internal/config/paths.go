// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global Horalis directory.
	GlobalDirName = ".horalis"

	// HomeEnv overrides the global directory when set.
	HomeEnv = "HORALIS_HOME"

	// LogsDirName holds the daemon log under the global directory.
	LogsDirName = "logs"
)

// File names
const (
	DaemonFileName   = "daemon.yaml"
	SettingsFileName = "settings.yaml"
	DatabaseFileName = "horalis.db"
	LogFileName      = "horalisd.log"
)

// GlobalDir returns the path to the global Horalis directory (~/.horalis/).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

func globalFile(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) {
	return globalFile(DaemonFileName)
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	return globalFile(SettingsFileName)
}

// GlobalDatabaseFile returns the path to the SQLite database.
func GlobalDatabaseFile() (string, error) {
	return globalFile(DatabaseFileName)
}

// GlobalLogFile returns the path to the daemon log file
// (~/.horalis/logs/horalisd.log).
func GlobalLogFile() (string, error) {
	return globalFile(filepath.Join(LogsDirName, LogFileName))
}

// EnsureGlobalDir creates the global Horalis directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
