package api

// LabelRequest sets the text next to the tray icon.
type LabelRequest struct {
	Text string `json:"text"`
}

// ColorRequest colors the tray icon, lettered with the first rune of Name.
type ColorRequest struct {
	Color string `json:"color"`
	Name  string `json:"name,omitempty"`
}

// MenuProject is one project entry of the tray menu.
type MenuProject struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// MenuRequest rebuilds the tray menu.
type MenuRequest struct {
	Projects []MenuProject `json:"projects"`
	Running  bool          `json:"running"`
}

// StartTimerRequest starts the elapsed-time display. StartTimeMs is Unix
// milliseconds; zero means now. IdleTimeoutMinutes <= 0 means the default.
type StartTimerRequest struct {
	StartTimeMs        int64 `json:"start_time_ms"`
	IdleEnabled        bool  `json:"idle_enabled"`
	IdleTimeoutMinutes int   `json:"idle_timeout_minutes"`
}

// TimerStatus describes the timer session.
type TimerStatus struct {
	Running            bool   `json:"running"`
	StartTimeMs        int64  `json:"start_time_ms,omitempty"`
	ElapsedSeconds     int64  `json:"elapsed_seconds,omitempty"`
	Label              string `json:"label,omitempty"`
	IdleEnabled        bool   `json:"idle_enabled,omitempty"`
	IdleTimeoutMinutes int    `json:"idle_timeout_minutes,omitempty"`
}

// ReminderRequest configures the reminder policy. Weekdays use Sunday = 0.
type ReminderRequest struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"interval_minutes"`
	Start           string `json:"start"`
	End             string `json:"end"`
	Weekdays        []int  `json:"weekdays"`
	Title           string `json:"title,omitempty"`
	Message         string `json:"message,omitempty"`
}

// ReminderStatus describes the active reminder policy.
type ReminderStatus struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"interval_minutes,omitempty"`
	Start           string `json:"start,omitempty"`
	End             string `json:"end,omitempty"`
	Weekdays        []int  `json:"weekdays,omitempty"`
	LastNotifiedMs  int64  `json:"last_notified_ms,omitempty"`
}

// Project is a stored project.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	CreatedAtMs int64  `json:"created_at_ms"`
}

// ProjectList is the reply of ListProjects.
type ProjectList struct {
	Projects []Project `json:"projects"`
}

// CreateProjectRequest adds a project. An empty color gets the default.
type CreateProjectRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TrackRequest starts tracking a project.
type TrackRequest struct {
	ProjectID int64 `json:"project_id"`
}

// Entry is a time entry. EndTimeMs is zero while it is running.
type Entry struct {
	ID              int64  `json:"id"`
	ProjectID       int64  `json:"project_id"`
	ProjectName     string `json:"project_name"`
	ProjectColor    string `json:"project_color"`
	StartTimeMs     int64  `json:"start_time_ms"`
	EndTimeMs       int64  `json:"end_time_ms,omitempty"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
}

// ListEntriesRequest asks for recent closed entries. Limit <= 0 means the
// daemon default.
type ListEntriesRequest struct {
	Limit int `json:"limit,omitempty"`
}

// EntryList is the reply of ListEntries, newest first.
type EntryList struct {
	Entries []Entry `json:"entries"`
}

// StopResult reports how many entries were closed.
type StopResult struct {
	Stopped int64 `json:"stopped"`
}

// DaemonStatus is the reply of GetStatus.
type DaemonStatus struct {
	Version      string         `json:"version"`
	PID          int            `json:"pid"`
	Port         int            `json:"port"`
	WebPort      int            `json:"web_port,omitempty"`
	StartedAtMs  int64          `json:"started_at_ms"`
	Label        string         `json:"label,omitempty"`
	Color        string         `json:"color,omitempty"`
	Timer        TimerStatus    `json:"timer"`
	Reminder     ReminderStatus `json:"reminder"`
	Tracking     *Entry         `json:"tracking,omitempty"`
	TodaySeconds int64          `json:"today_seconds"`
	WeekSeconds  int64          `json:"week_seconds"`
	Subscribers  int            `json:"subscribers"`
	// Set once a background check found a newer release.
	UpdateAvailable bool   `json:"update_available,omitempty"`
	LatestVersion   string `json:"latest_version,omitempty"`
}

// Event is a daemon event delivered over Subscribe.
type Event struct {
	Type      string `json:"type"`
	Seconds   int64  `json:"seconds,omitempty"`
	ProjectID int64  `json:"project_id,omitempty"`
	Message   string `json:"message,omitempty"`
	AtMs      int64  `json:"at_ms"`
}
