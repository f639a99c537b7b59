// Package tui implements "horalis watch", a live view of the daemon.
package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fremvaerk/horalis/internal/api"
)

// Client is the part of the daemon API the watch view uses.
type Client interface {
	GetStatus(ctx context.Context) (*api.DaemonStatus, error)
	StopTracking(ctx context.Context) (*api.StopResult, error)
	Subscribe(ctx context.Context, fn func(*api.Event) error) error
}

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Run shows the watch view until the user quits.
func Run(c Client) error {
	ref := &programRef{}
	model := NewModel(c, ref)

	p := tea.NewProgram(model, tea.WithAltScreen())
	ref.Set(p)
	defer ref.Clear()

	_, err := p.Run()
	model.streamCancel()
	return err
}
