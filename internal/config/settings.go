package config

import (
	"github.com/google/uuid"

	"github.com/fremvaerk/horalis/internal/models"
)

// LoadSettings loads the global settings from ~/.horalis/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewSettings)
}

// SaveSettings saves the global settings to ~/.horalis/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// UpdateSettings loads the settings, applies fn and saves the result.
func UpdateSettings(fn func(s *models.Settings)) (*models.Settings, error) {
	settings, err := LoadSettings()
	if err != nil {
		return nil, err
	}
	fn(settings)
	if err := SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// EnsureInstallID assigns a random telemetry install ID if none is set.
// It reports whether the settings were changed.
func EnsureInstallID(settings *models.Settings) bool {
	if settings.Telemetry.InstallID != "" {
		return false
	}
	settings.Telemetry.InstallID = uuid.NewString()
	return true
}
