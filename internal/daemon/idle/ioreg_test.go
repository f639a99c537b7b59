package idle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ioregSample = `+-o Root  <class IORegistryEntry, id 0x100000100, retain 21>
  +-o IOResources  <class IOResources, id 0x100000117>
    +-o IOHIDSystem  <class IOHIDSystem, id 0x1000002b5, registered, matched, active>
        {
          "HIDParameters" = {"HIDClickTime"=500000000}
          "HIDIdleTime" = 734112625
          "HIDActivityTime" = 12
        }
`

func TestParseHIDIdleTime(t *testing.T) {
	d, err := parseHIDIdleTime([]byte(ioregSample))
	require.NoError(t, err)
	assert.Equal(t, 734112625*time.Nanosecond, d)

	_, err = parseHIDIdleTime([]byte(`"HIDActivityTime" = 12`))
	assert.Error(t, err)

	_, err = parseHIDIdleTime([]byte(`"HIDIdleTime" = 99999999999999999999999`))
	assert.Error(t, err)
}

func TestFunc(t *testing.T) {
	q := Func(func() (time.Duration, error) { return 3 * time.Minute, nil })
	d, err := q.IdleDuration()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, d)
}
