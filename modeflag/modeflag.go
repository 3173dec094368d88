// Package modeflag holds the externally owned "links enabled" switch.
package modeflag

import "sync/atomic"

// Flag is a boolean that may be flipped from any goroutine and is read fresh
// on every input event and frame.
type Flag struct {
	v       atomic.Bool
	version atomic.Uint64
}

// New returns a flag with the given initial state.
func New(on bool) *Flag {
	f := &Flag{}
	f.v.Store(on)
	return f
}

// Enabled reports the current state.
func (f *Flag) Enabled() bool {
	return f.v.Load()
}

// Set changes the state. Setting the current value is a no-op.
func (f *Flag) Set(on bool) {
	if f.v.Swap(on) != on {
		f.version.Add(1)
	}
}

// Toggle flips the state and returns the new value.
func (f *Flag) Toggle() bool {
	for {
		old := f.v.Load()
		if f.v.CompareAndSwap(old, !old) {
			f.version.Add(1)
			return !old
		}
	}
}

// Version increases on every change, so pollers can detect a toggle they missed.
func (f *Flag) Version() uint64 {
	return f.version.Load()
}
