//go:build !darwin && !linux && !windows

package idle

import "time"

type unsupported struct{}

// New returns a querier that always fails with ErrUnsupported.
func New() Querier {
	return unsupported{}
}

func (unsupported) IdleDuration() (time.Duration, error) {
	return 0, ErrUnsupported
}
