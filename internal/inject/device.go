package inject

import (
	"errors"
	"time"
)

// ErrDevicePermission indicates /dev/uinput exists but is not writable. This
// is the single most actionable failure: the fix is a udev rule or chmod on
// the device node.
var ErrDevicePermission = errors.New("permission denied on /dev/uinput")

// UinputConfig tunes device-level key event emission.
type UinputConfig struct {
	// KeyDelay separates consecutive characters so downstream input-event
	// coalescing keeps up.
	KeyDelay time.Duration
	// SettleDelay is waited once after opening the virtual device before
	// the first event.
	SettleDelay time.Duration
}

func (c UinputConfig) withDefaults() UinputConfig {
	if c.KeyDelay <= 0 {
		c.KeyDelay = 10 * time.Millisecond
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = 100 * time.Millisecond
	}
	return c
}

// plan resolves text into the keystroke sequence to emit and the number of
// unsupported characters that will be skipped.
func plan(text string) ([]Keystroke, int) {
	strokes := make([]Keystroke, 0, len(text))
	skipped := 0
	for _, r := range text {
		stroke, ok := Resolve(r)
		if !ok {
			skipped++
			continue
		}
		strokes = append(strokes, stroke)
	}
	return strokes, skipped
}
