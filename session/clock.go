package session

import "time"

// Clock abstracts timer scheduling so gesture tests can drive long-press
// timers deterministically.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a stoppable pending callback.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return realClock{} }

// Haptics delivers tactile feedback where the platform supports it.
type Haptics interface {
	Pulse()
}

// NopHaptics ignores all pulses.
type NopHaptics struct{}

func (NopHaptics) Pulse() {}
