package models

import (
	"net"
	"strconv"
	"time"
)

// DaemonInfo represents the daemon connection information.
// This corresponds to ~/.horalis/daemon.yaml.
type DaemonInfo struct {
	Version   int       `yaml:"version"`
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	WebPort   int       `yaml:"web_port,omitempty"`
	PID       int       `yaml:"pid"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values.
func NewDaemonInfo(host string, port, webPort, pid int) *DaemonInfo {
	return &DaemonInfo{
		Version:   1,
		Host:      host,
		Port:      port,
		WebPort:   webPort,
		PID:       pid,
		StartedAt: time.Now().UTC(),
	}
}

// Addr returns the gRPC address ("host:port").
func (d *DaemonInfo) Addr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}
