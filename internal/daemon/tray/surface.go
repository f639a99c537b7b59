package tray

import (
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fremvaerk/horalis/internal/icon"
	"github.com/fremvaerk/horalis/internal/metrics"
)

// Backend is the platform side of the tray.
type Backend interface {
	SetIcon(data []byte)
	SetTitle(title string)
	SetTooltip(tip string)
	ApplyMenu(plan MenuPlan)
}

// Surface serializes every update of the tray icon, label and menu.
type Surface struct {
	renderer *icon.Renderer

	mu      sync.Mutex
	backend Backend
	state   State

	errLog rate.Sometimes
}

// NewSurface creates a surface drawing through r onto b.
func NewSurface(b Backend, r *icon.Renderer) *Surface {
	return &Surface{
		renderer: r,
		backend:  b,
		state:    State{Color: icon.NeutralColor},
		errLog:   rate.Sometimes{Interval: time.Minute},
	}
}

// SetLabel shows text next to the icon.
func (s *Surface) SetLabel(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Label = text
	s.backend.SetTitle(text)
	s.backend.SetTooltip(s.tooltipLocked())
	return nil
}

// ClearLabel removes the label.
func (s *Surface) ClearLabel() error {
	return s.SetLabel("")
}

// SetColor draws the icon in color with the first letter of name on it.
func (s *Surface) SetColor(color, name string) error {
	data, err := icon.EncodeTrayIcon(s.renderer.StatusIcon(color, icon.FirstLetter(name)))
	if err != nil {
		return s.fail(fmt.Errorf("render status icon: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Color = color
	s.state.Name = name
	s.backend.SetIcon(data)
	s.backend.SetTooltip(s.tooltipLocked())
	return nil
}

// ResetIcon draws the neutral, unlabeled icon.
func (s *Surface) ResetIcon() error {
	data, err := icon.EncodeTrayIcon(s.renderer.StatusIcon(icon.NeutralColor, 0))
	if err != nil {
		return s.fail(fmt.Errorf("render status icon: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Color = icon.NeutralColor
	s.state.Name = ""
	s.backend.SetIcon(data)
	s.backend.SetTooltip(s.tooltipLocked())
	return nil
}

// UpdateMenu rebuilds the project entries and the Stop Timer state.
func (s *Surface) UpdateMenu(items []ProjectItem, running bool) error {
	plan := PlanMenu(items, running)
	for i := range plan.Projects {
		data, err := icon.EncodeTrayIcon(s.renderer.MenuIcon(plan.Projects[i].Color))
		if err != nil {
			return s.fail(fmt.Errorf("render menu icon: %w", err))
		}
		plan.Projects[i].Icon = data
	}
	if plan.Overflow > 0 {
		log.Printf("[tray] %d projects do not fit in the menu", plan.Overflow)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Running = running
	s.state.Projects = slices.Clone(items)
	s.backend.ApplyMenu(plan)
	return nil
}

// Snapshot returns what the surface currently shows.
func (s *Surface) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Projects = slices.Clone(st.Projects)
	return st
}

func (s *Surface) tooltipLocked() string {
	return formatTooltip(s.state.Name, s.state.Label)
}

func (s *Surface) fail(err error) error {
	metrics.RenderErrors.Inc()
	s.errLog.Do(func() { log.Printf("[tray] %v", err) })
	return err
}

func formatTooltip(project, label string) string {
	switch {
	case project != "" && label != "":
		return fmt.Sprintf("Horalis: %s (%s)", project, label)
	case project != "":
		return fmt.Sprintf("Horalis: %s", project)
	default:
		return "Horalis: not tracking"
	}
}
