// Package idle reports how long the user has been away from keyboard and
// mouse, using whatever the host platform offers.
package idle

import (
	"errors"
	"time"
)

// ErrUnsupported is returned on platforms without an idle time source.
var ErrUnsupported = errors.New("idle time query not supported on this platform")

// queryTimeout bounds every platform query so a stuck helper cannot stall the
// timer loop.
const queryTimeout = 2 * time.Second

// Querier returns the time since the last user input.
type Querier interface {
	IdleDuration() (time.Duration, error)
}

// Func adapts a function to Querier.
type Func func() (time.Duration, error)

func (f Func) IdleDuration() (time.Duration, error) { return f() }
