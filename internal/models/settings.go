package models

import "time"

// TraySettings holds status-bar display settings.
type TraySettings struct {
	ShowTimer bool `yaml:"show_timer"`
}

// IdleSettings holds idle detection settings.
type IdleSettings struct {
	Enabled        bool `yaml:"enabled"`
	TimeoutMinutes int  `yaml:"timeout_minutes"`
}

// ReminderSettings holds the "not tracking" reminder policy.
type ReminderSettings struct {
	Enabled         bool   `yaml:"enabled"`
	IntervalMinutes int    `yaml:"interval_minutes"`
	Start           string `yaml:"start"`    // "HH:MM", 24-hour
	End             string `yaml:"end"`      // "HH:MM", 24-hour
	Weekdays        []int  `yaml:"weekdays"` // 0 = Sunday
	Title           string `yaml:"title"`
	Message         string `yaml:"message"`
}

// FontSettings lists extra label fonts, tried before the platform defaults.
type FontSettings struct {
	Paths []string `yaml:"paths"`
}

// ServerSettings holds listener settings.
type ServerSettings struct {
	WebPort        int      `yaml:"web_port"` // 0 = no web listener
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// TelemetrySettings holds opt-in usage reporting settings.
type TelemetrySettings struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	Endpoint  string `yaml:"endpoint"`
	InstallID string `yaml:"install_id"`
}

// UpdatesConfig holds settings for update checking.
type UpdatesConfig struct {
	CheckOnStartup bool       `yaml:"check_on_startup"`
	CheckFrequency string     `yaml:"check_frequency"` // "every_launch" | "daily" | "weekly"
	LastChecked    *time.Time `yaml:"last_checked,omitempty"`
}

// Settings represents global application settings.
// This corresponds to ~/.horalis/settings.yaml.
type Settings struct {
	Version   int               `yaml:"version"`
	Tray      TraySettings      `yaml:"tray"`
	Idle      IdleSettings      `yaml:"idle"`
	Reminder  ReminderSettings  `yaml:"reminder"`
	Fonts     FontSettings      `yaml:"fonts"`
	Server    ServerSettings    `yaml:"server"`
	Telemetry TelemetrySettings `yaml:"telemetry"`
	Updates   UpdatesConfig     `yaml:"updates"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Tray: TraySettings{
			ShowTimer: true,
		},
		Idle: IdleSettings{
			Enabled:        false,
			TimeoutMinutes: 5,
		},
		Reminder: ReminderSettings{
			Enabled:         false,
			IntervalMinutes: 30,
			Start:           "09:00",
			End:             "17:00",
			Weekdays:        []int{1, 2, 3, 4, 5},
			Title:           "Horalis",
			Message:         "You're not tracking time. Start a timer?",
		},
		Fonts: FontSettings{
			Paths: []string{},
		},
		Updates: UpdatesConfig{
			CheckOnStartup: true,
			CheckFrequency: "daily",
		},
	}
}
