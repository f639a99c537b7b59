// Package tray owns the status-bar icon, its label and the attached menu.
package tray

// DaemonState provides read-only access to daemon state for the tray.
type DaemonState interface {
	Port() int
	RequestShutdown()
}

// ProjectItem is a project offered in the tray menu.
type ProjectItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// State is a snapshot of what the surface currently shows.
type State struct {
	Label    string
	Color    string
	Name     string
	Running  bool
	Projects []ProjectItem
}
