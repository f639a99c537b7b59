package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fremvaerk/horalis/internal/api"
)

// maxEvents bounds the event history kept on screen.
const maxEvents = 100

// Model is the root Bubbletea model for the watch view.
type Model struct {
	client  Client
	program *programRef

	status       *api.DaemonStatus
	events       []*api.Event // oldest first
	connected    bool
	subscribed   bool
	reconnecting bool

	spinner spinner.Model
	width   int
	height  int
	err     error
	now     func() time.Time

	streamCtx    context.Context
	streamCancel context.CancelFunc
}

// NewModel creates the initial watch model.
func NewModel(c Client, program *programRef) Model {
	ctx, cancel := context.WithCancel(context.Background())
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = elapsedStyle
	return Model{
		client:       c,
		program:      program,
		spinner:      sp,
		now:          time.Now,
		streamCtx:    ctx,
		streamCancel: cancel,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchStatusCmd(m.client),
		m.spinner.Tick,
		tick(),
	)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.streamCancel()
			return m, tea.Quit
		case key.Matches(msg, keys.Stop):
			return m, stopTrackingCmd(m.client)
		case key.Matches(msg, keys.Refresh):
			return m, fetchStatusCmd(m.client)
		case key.Matches(msg, keys.Clear):
			m.events = nil
		}
		return m, nil

	case StatusMsg:
		m.status = msg.Status
		m.connected = true
		if !m.subscribed {
			m.subscribed = true
			return m, subscribeCmd(m.streamCtx, m.client, m.program)
		}
		return m, nil

	case SubscribedMsg:
		return m, nil

	case EventMsg:
		m.events = append(m.events, msg.Event)
		if len(m.events) > maxEvents {
			m.events = m.events[len(m.events)-maxEvents:]
		}
		// Most events change what is being tracked.
		return m, fetchStatusCmd(m.client)

	case StreamEndedMsg:
		m.subscribed = false
		if msg.Err != nil && isConnectionLost(msg.Err) {
			m.connected = false
		} else if msg.Err != nil {
			m.err = msg.Err
		}
		return m, m.scheduleReconnect()

	case DaemonDisconnectedMsg:
		m.connected = false
		return m, m.scheduleReconnect()

	case ReconnectMsg:
		m.reconnecting = false
		return m, fetchStatusCmd(m.client)

	case StoppedMsg:
		return m, fetchStatusCmd(m.client)

	case ErrorMsg:
		m.err = msg.Err
		return m, clearErrorAfter(5 * time.Second)

	case ClearErrorMsg:
		m.err = nil
		return m, nil

	case TickMsg:
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// scheduleReconnect starts one reconnect timer; further calls wait for it.
func (m *Model) scheduleReconnect() tea.Cmd {
	if m.reconnecting {
		return nil
	}
	m.reconnecting = true
	return reconnectTick()
}
