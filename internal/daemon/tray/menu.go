package tray

import (
	"strconv"
	"strings"
)

// maxProjectSlots is the number of pre-allocated project entries. systray
// cannot remove menu items, so entries are shown and hidden instead.
const maxProjectSlots = 20

const (
	KeyShow      = "show"
	KeyDashboard = "dashboard"
	KeyStop      = "stop"
	KeyQuit      = "quit"

	projectKeyPrefix = "project_"

	titleShow      = "Show/Hide Timer"
	titleDashboard = "Dashboard"
	titleStop      = "Stop Timer"
	titleQuit      = "Quit"
)

// MenuEntry is one project entry of a planned menu.
type MenuEntry struct {
	Key       string
	Title     string
	Color     string
	ProjectID int64
	Icon      []byte
}

// MenuPlan is the menu to display. The fixed entries are always present, in
// order: Show/Hide Timer, Dashboard, separator, Stop Timer, separator, the
// project entries, separator, Quit.
type MenuPlan struct {
	StopEnabled bool
	Projects    []MenuEntry
	// Overflow counts projects beyond maxProjectSlots, left out of the menu.
	Overflow int
}

// PlanMenu lays out the menu for items. Stop Timer is enabled only while
// running.
func PlanMenu(items []ProjectItem, running bool) MenuPlan {
	plan := MenuPlan{StopEnabled: running}
	for i, it := range items {
		if i >= maxProjectSlots {
			plan.Overflow = len(items) - maxProjectSlots
			break
		}
		plan.Projects = append(plan.Projects, MenuEntry{
			Key:       ProjectKey(it.ID),
			Title:     it.Name,
			Color:     it.Color,
			ProjectID: it.ID,
		})
	}
	return plan
}

// ProjectKey returns the menu key of a project entry.
func ProjectKey(id int64) string {
	return projectKeyPrefix + strconv.FormatInt(id, 10)
}

// ParseProjectKey extracts the project ID from a project entry key.
func ParseProjectKey(key string) (int64, bool) {
	rest, ok := strings.CutPrefix(key, projectKeyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
