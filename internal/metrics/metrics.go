// Package metrics holds the daemon's Prometheus collectors on a private
// registry, exposed by the server's web listener.
package metrics

import (
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// DefaultRegistry collects everything the daemon exports.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		TimerStarts, TimerStops, RenderErrors,
		ReminderChecks, EventsEmitted, EventsDropped,
		RPCRequests,
	)
}

// TimerStarts counts timer sessions started.
var TimerStarts = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "horalis_timer_starts_total",
	Help: "Timer sessions started.",
})

// TimerStops counts timer sessions ended, by reason.
var TimerStops = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "horalis_timer_stops_total",
		Help: "Timer sessions ended, by reason.",
	},
	[]string{"reason"}, // stop | idle | sleep
)

// RenderErrors counts failed tray surface updates.
var RenderErrors = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "horalis_render_errors_total",
	Help: "Tray surface updates that failed.",
})

// ReminderChecks counts reminder evaluations, by decision.
var ReminderChecks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "horalis_reminder_checks_total",
		Help: "Reminder policy evaluations, by decision.",
	},
	[]string{"decision"},
)

// EventsEmitted counts events published on the bus, by type.
var EventsEmitted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "horalis_events_emitted_total",
		Help: "Events published on the daemon bus, by type.",
	},
	[]string{"type"},
)

// EventsDropped counts deliveries skipped because a subscriber was full.
var EventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "horalis_events_dropped_total",
	Help: "Event deliveries skipped because a subscriber was full.",
})

// RPCRequests counts handled RPCs, by method and status code.
var RPCRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "horalis_rpc_requests_total",
		Help: "RPC requests handled, by method and status code.",
	},
	[]string{"method", "code"},
)

// Handler serves DefaultRegistry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}

// WritePrometheus writes DefaultRegistry in the text exposition format to w.
func WritePrometheus(w io.Writer) error {
	mfs, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
