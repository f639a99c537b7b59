package tray

import "log"

type logBackend struct{}

// NewLogBackend returns a Backend for foreground runs without a tray. It
// logs what would have been shown.
func NewLogBackend() Backend {
	return logBackend{}
}

func (logBackend) SetIcon(data []byte) {
	log.Printf("[tray] Icon updated (%d bytes)", len(data))
}

func (logBackend) SetTitle(title string) {
	if title == "" {
		log.Println("[tray] Label cleared")
		return
	}
	log.Printf("[tray] Label: %s", title)
}

func (logBackend) SetTooltip(string) {}

func (logBackend) ApplyMenu(plan MenuPlan) {
	log.Printf("[tray] Menu: %d projects, stop enabled=%v", len(plan.Projects), plan.StopEnabled)
}
