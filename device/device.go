// Package device models the input modality that drives interaction and particle sizing.
package device

import "fmt"

// Modality is the class of input the user is currently driving the field with.
type Modality uint8

const (
	Pointer Modality = iota // mouse or trackpad: hover and click
	Touch                   // finger: tap to select, confirm to open
)

func (m Modality) String() string {
	switch m {
	case Pointer:
		return "pointer"
	case Touch:
		return "touch"
	default:
		return fmt.Sprintf("Modality(%d)", uint8(m))
	}
}

// Probe reports the live modality. It is called at every particle reset and input
// cycle rather than cached, so a device that gains or loses touch input is followed.
type Probe func() Modality

// Fixed returns a Probe that always reports m.
func Fixed(m Modality) Probe {
	return func() Modality { return m }
}

// Tracker infers the modality from the most recent input when the setting is "auto".
type Tracker struct {
	forced  bool
	current Modality
}

// NewTracker creates a tracker for the configured setting: auto, pointer or touch.
func NewTracker(setting string) (*Tracker, error) {
	switch setting {
	case "auto", "":
		return &Tracker{current: Pointer}, nil
	case "pointer":
		return &Tracker{forced: true, current: Pointer}, nil
	case "touch":
		return &Tracker{forced: true, current: Touch}, nil
	default:
		return nil, fmt.Errorf("unknown input modality %q", setting)
	}
}

// Observe records one frame of input activity.
// Touch points win over mouse movement in the same frame.
func (t *Tracker) Observe(touchPoints int, mouseMoved bool) {
	if t.forced {
		return
	}
	switch {
	case touchPoints > 0:
		t.current = Touch
	case mouseMoved:
		t.current = Pointer
	}
}

// Current returns the modality for this cycle.
func (t *Tracker) Current() Modality {
	return t.current
}

// Probe exposes the tracker as a Probe.
func (t *Tracker) Probe() Probe {
	return t.Current
}
