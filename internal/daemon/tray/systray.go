package tray

import (
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/fremvaerk/horalis/internal/daemon/events"
)

var (
	state   DaemonState
	emitter events.Emitter
	onStart func()
	onExit  func()

	showItem      *systray.MenuItem
	dashboardItem *systray.MenuItem
	stopItem      *systray.MenuItem
	moreItem      *systray.MenuItem
	quitItem      *systray.MenuItem

	// Pre-allocated project menu slots
	projectSlots [maxProjectSlots]*systray.MenuItem

	// Maps slot index → project ID for start actions
	slotMu       sync.RWMutex
	slotProjects [maxProjectSlots]int64

	backend = &systrayBackend{}
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (launch the gRPC server here).
// onExitFn is called when the tray exits (cleanup here). Menu clicks are
// published on em.
func Run(s DaemonState, em events.Emitter, onStartFn, onExitFn func()) {
	state = s
	emitter = em
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

// SystrayBackend returns the Backend drawing on the system tray. Updates made
// before the tray is ready are held and applied once it is.
func SystrayBackend() Backend {
	return backend
}

func onReady() {
	systray.SetTooltip(formatTooltip("", ""))

	showItem = systray.AddMenuItem(titleShow, "Show or hide the timer window")
	dashboardItem = systray.AddMenuItem(titleDashboard, "Open the dashboard")

	systray.AddSeparator()

	stopItem = systray.AddMenuItem(titleStop, "Stop the running timer")
	stopItem.Disable()

	systray.AddSeparator()

	// Pre-allocate project slots (hidden by default)
	for i := 0; i < maxProjectSlots; i++ {
		projectSlots[i] = systray.AddMenuItem("", "")
		projectSlots[i].Hide()
	}
	moreItem = systray.AddMenuItem("", "")
	moreItem.Disable()
	moreItem.Hide()

	systray.AddSeparator()

	quitItem = systray.AddMenuItem(titleQuit, "Quit Horalis")

	backend.markReady()

	// Start the daemon services
	if onStart != nil {
		onStart()
	}

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for i := 0; i < maxProjectSlots; i++ {
		go watchSlot(i)
	}

	for {
		select {
		case <-showItem.ClickedCh:
			emit(events.Event{Type: events.ToggleWindow})

		case <-dashboardItem.ClickedCh:
			emit(events.Event{Type: events.OpenDashboard})

		case <-stopItem.ClickedCh:
			emit(events.Event{Type: events.StopTimer})

		case <-quitItem.ClickedCh:
			emit(events.Event{Type: events.Quit})
			if state != nil {
				state.RequestShutdown()
			}
		}
	}
}

// watchSlot publishes start requests for the project shown in slot.
func watchSlot(slot int) {
	for range projectSlots[slot].ClickedCh {
		slotMu.RLock()
		projectID := slotProjects[slot]
		slotMu.RUnlock()

		if projectID == 0 {
			continue
		}
		log.Printf("[tray] Project %d selected (slot %d)", projectID, slot)
		emit(events.Event{Type: events.StartProjectTimer, ProjectID: projectID})
	}
}

func emit(ev events.Event) {
	if emitter != nil {
		emitter.Emit(ev)
	}
}

// systrayBackend forwards to systray once the menu exists.
type systrayBackend struct {
	mu      sync.Mutex
	ready   bool
	icon    []byte
	title   *string
	tooltip string
	plan    *MenuPlan
}

func (b *systrayBackend) markReady() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ready = true
	if b.icon != nil {
		systray.SetIcon(b.icon)
	}
	if b.title != nil {
		systray.SetTitle(*b.title)
	}
	if b.tooltip != "" {
		systray.SetTooltip(b.tooltip)
	}
	if b.plan != nil {
		applyMenu(*b.plan)
	}
}

func (b *systrayBackend) SetIcon(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.icon = data
	if b.ready {
		systray.SetIcon(data)
	}
}

func (b *systrayBackend) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = &title
	if b.ready {
		systray.SetTitle(title)
	}
}

func (b *systrayBackend) SetTooltip(tip string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tooltip = tip
	if b.ready {
		systray.SetTooltip(tip)
	}
}

func (b *systrayBackend) ApplyMenu(plan MenuPlan) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.plan = &plan
	if b.ready {
		applyMenu(plan)
	}
}

// applyMenu shows one slot per planned project and hides the rest.
func applyMenu(plan MenuPlan) {
	slotMu.Lock()
	for i := 0; i < maxProjectSlots; i++ {
		slotProjects[i] = 0
	}
	for i, p := range plan.Projects {
		slotProjects[i] = p.ProjectID
	}
	slotMu.Unlock()

	if plan.StopEnabled {
		stopItem.Enable()
	} else {
		stopItem.Disable()
	}

	for i := 0; i < maxProjectSlots; i++ {
		if i >= len(plan.Projects) {
			projectSlots[i].Hide()
			continue
		}
		p := plan.Projects[i]
		projectSlots[i].SetTitle(p.Title)
		if p.Icon != nil {
			projectSlots[i].SetIcon(p.Icon)
		}
		projectSlots[i].Show()
	}

	if plan.Overflow > 0 {
		moreItem.SetTitle(fmt.Sprintf("%d more projects", plan.Overflow))
		moreItem.Show()
	} else {
		moreItem.Hide()
	}
}
