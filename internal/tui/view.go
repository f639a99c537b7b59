package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fremvaerk/horalis/internal/api"
	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/daemon/timer"
	"github.com/fremvaerk/horalis/internal/icon"
)

const defaultWidth = 80

// View renders the watch screen.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	inner := width - 4 // panel border and padding

	header := m.renderHeader(width)
	summary := panelStyle.Width(width - 2).Render(m.renderSummary(inner))
	bar := m.renderStatusBar(width)

	avail := m.height - lipgloss.Height(header) - lipgloss.Height(summary) - lipgloss.Height(bar) - 3
	if m.height <= 0 {
		avail = 10
	}
	eventsPanel := panelStyle.Width(width - 2).Render(m.renderEvents(inner, avail))

	return lipgloss.JoinVertical(lipgloss.Left, header, summary, eventsPanel, bar)
}

func (m Model) renderHeader(width int) string {
	left := headerStyle.Render("horalis watch")
	if m.status != nil && m.status.Version != "" {
		left += " " + labelStyle.Render(m.status.Version)
	}
	right := ""
	if m.status != nil && m.status.UpdateAvailable {
		right = updateStyle.Render("update v" + m.status.LatestVersion)
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderSummary(width int) string {
	if m.status == nil {
		return m.spinner.View() + " " + idleStyle.Render("Connecting to daemon...")
	}
	st := m.status
	now := m.now()
	var lines []string

	if e := st.Tracking; e != nil {
		elapsed := elapsedSince(e.StartTimeMs, now)
		lines = append(lines, fmt.Sprintf("%s %s %s  %s",
			m.spinner.View(),
			colorDot(e.ProjectColor),
			valueStyle.Render(e.ProjectName),
			elapsedStyle.Render(timer.FormatElapsed(elapsed)),
		))
	} else {
		lines = append(lines, idleStyle.Render("○ Not tracking"))
	}

	if st.Timer.Running {
		t := "Timer  " + valueStyle.Render(timer.FormatElapsed(elapsedSince(st.Timer.StartTimeMs, now)))
		if st.Timer.IdleEnabled {
			t += labelStyle.Render(fmt.Sprintf("  idle after %dm", st.Timer.IdleTimeoutMinutes))
		}
		lines = append(lines, labelStyle.Render(t))
	}

	today, week := st.TodaySeconds, st.WeekSeconds
	if st.Tracking != nil {
		running := elapsedSince(st.Tracking.StartTimeMs, now)
		today += running
		week += running
	}
	lines = append(lines, labelStyle.Render("Today  ")+valueStyle.Render(timer.FormatElapsed(today)))
	lines = append(lines, labelStyle.Render("Week   ")+valueStyle.Render(timer.FormatElapsed(week)))

	if st.Reminder.Enabled {
		lines = append(lines, labelStyle.Render("Remind ")+valueStyle.Render(
			fmt.Sprintf("every %dm %s-%s", st.Reminder.IntervalMinutes, st.Reminder.Start, st.Reminder.End)))
	}

	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "…")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEvents(width, height int) string {
	title := sectionHeaderStyle.Render("Events")
	if height < 1 {
		height = 1
	}
	if len(m.events) == 0 {
		return title + "\n" + idleStyle.Render("No events yet.")
	}

	lines := []string{title}
	// Newest first.
	for i := len(m.events) - 1; i >= 0 && len(lines) <= height; i-- {
		lines = append(lines, ansi.Truncate(formatEvent(m.events[i]), width, "…"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar(width int) string {
	if m.err != nil {
		return statusBarStyle.
			Background(colorRed).
			Width(width).
			Render(" " + ansi.Truncate(m.err.Error(), width-2, "…"))
	}

	left := " " + keyHint("q", "quit") + "  " + keyHint("s", "stop") + "  " +
		keyHint("r", "refresh") + "  " + keyHint("c", "clear")

	var right string
	if m.connected {
		right = lipgloss.NewStyle().Foreground(colorGreen).Render("Connected") + " "
	} else {
		right = lipgloss.NewStyle().Foreground(colorYellow).Bold(true).Render("⚠ Disconnected") + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func keyHint(k, desc string) string {
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func formatEvent(ev *api.Event) string {
	at := eventTimeStyle.Render(time.UnixMilli(ev.AtMs).Local().Format("15:04:05"))
	var detail string
	style := eventStyle
	switch events.Type(ev.Type) {
	case events.IdleTimeout:
		style = eventEndStyle
		detail = "idle for " + timer.FormatElapsed(ev.Seconds)
	case events.SystemSleep:
		style = eventEndStyle
		detail = "asleep for " + timer.FormatElapsed(ev.Seconds)
	case events.StopTimer:
		style = eventEndStyle
	case events.StartProjectTimer:
		detail = fmt.Sprintf("project %d", ev.ProjectID)
	default:
		detail = ev.Message
	}
	line := at + " " + style.Render(ev.Type)
	if detail != "" {
		line += " " + labelStyle.Render(detail)
	}
	return line
}

func elapsedSince(startMs int64, now time.Time) int64 {
	if startMs <= 0 {
		return 0
	}
	return int64(now.Sub(time.UnixMilli(startMs)) / time.Second)
}

// colorDot renders a dot in a project color, gray when it does not parse.
func colorDot(hex string) string {
	c, ok := icon.ParseHexColor(hex)
	if !ok {
		return idleStyle.Render("●")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))).Render("●")
}
