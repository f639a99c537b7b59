// Package telemetry reports anonymous usage events when the user opts in.
package telemetry

import (
	"log"
	"runtime"
	"sync"

	"github.com/posthog/posthog-go"

	"github.com/fremvaerk/horalis/internal/buildinfo"
	"github.com/fremvaerk/horalis/internal/models"
)

// Client reports events. A disabled Client drops everything.
type Client struct {
	mu         sync.Mutex
	enqueuer   enqueuer
	distinctID string
}

type enqueuer interface {
	Enqueue(posthog.Message) error
	Close() error
}

// New builds a client from settings. Telemetry stays off unless it is
// enabled and both an API key and an install ID are set.
func New(s models.TelemetrySettings) *Client {
	c := &Client{}
	if !s.Enabled || s.APIKey == "" || s.InstallID == "" {
		return c
	}

	cfg := posthog.Config{}
	if s.Endpoint != "" {
		cfg.Endpoint = s.Endpoint
	}
	ph, err := posthog.NewWithConfig(s.APIKey, cfg)
	if err != nil {
		log.Printf("[telemetry] Disabled: %v", err)
		return c
	}
	c.enqueuer = ph
	c.distinctID = s.InstallID
	return c
}

// Enabled reports whether events are being sent.
func (c *Client) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enqueuer != nil
}

// Track queues an event. Errors are logged and otherwise ignored.
func (c *Client) Track(event string, props map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enqueuer == nil {
		return
	}

	p := posthog.NewProperties().
		Set("version", buildinfo.Version).
		Set("os", runtime.GOOS).
		Set("arch", runtime.GOARCH)
	for k, v := range props {
		p.Set(k, v)
	}

	err := c.enqueuer.Enqueue(posthog.Capture{
		DistinctId: c.distinctID,
		Event:      event,
		Properties: p,
	})
	if err != nil {
		log.Printf("[telemetry] Enqueue %s: %v", event, err)
	}
}

// Close flushes queued events and disables the client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enqueuer == nil {
		return nil
	}
	err := c.enqueuer.Close()
	c.enqueuer = nil
	return err
}
