// Package input captures and decodes Linux evdev devices.
//
// Each device class runs one capture goroutine: a bounded readiness poll
// servicing a small command queue between waits, decoding raw events and
// forwarding them to the orchestrator. The queue carries Stop, Grab,
// Ungrab and ClearBuffer; ClearBuffer injects a synthetic sample burst so
// a backlog left queued while a draft held the device is flushed instead
// of replayed into the shell.
package input

import (
	"time"

	"github.com/parchment-shell/parchment/internal/gesture"
	"github.com/parchment-shell/parchment/internal/geometry"
)

// Command steers a capture thread.
type Command uint8

const (
	// Stop exits the capture loop.
	Stop Command = iota
	// Grab takes exclusive access to the device.
	Grab
	// Ungrab releases exclusive access.
	Ungrab
	// ClearBuffer injects a flood burst to flush stale queued events.
	ClearBuffer
)

// String implements fmt.Stringer for log output.
func (c Command) String() string {
	switch c {
	case Stop:
		return "stop"
	case Grab:
		return "grab"
	case Ungrab:
		return "ungrab"
	case ClearBuffer:
		return "clear-buffer"
	}
	return "unknown"
}

// RawEvent is one kernel input event, stripped of its timestamp.
type RawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// evdev event types and codes used by the shell's devices.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0x00

	absDistance     = 0x19
	absMTSlot       = 0x2f
	absMTPositionX  = 0x35
	absMTPositionY  = 0x36
	absMTTrackingID = 0x39
)

// Device is the capture thread's view of an input node.
type Device interface {
	// Wait blocks until the device is readable or the timeout elapses.
	Wait(timeout time.Duration) (ready bool, err error)
	// Read drains the currently queued events.
	Read() ([]RawEvent, error)
	// Write injects synthetic events into the device's queue.
	Write([]RawEvent) error
	Grab() error
	Ungrab() error
	Close() error
}

// Event is a decoded input event. Concrete kinds are TouchEvent and
// ButtonEvent.
type Event interface {
	inputEvent()
}

// TouchEvent is one multitouch contact transition in display coordinates.
type TouchEvent struct {
	Kind   gesture.Kind
	Finger int
	Pos    geometry.Point
}

func (TouchEvent) inputEvent() {}

// ButtonEvent is a physical key transition.
type ButtonEvent struct {
	Code    uint16
	Pressed bool
}

func (ButtonEvent) inputEvent() {}

// TouchFlood builds the synthetic burst injected to flush a touch
// device's queue: distance in/out pairs that decode to nothing.
func TouchFlood(burst int) []RawEvent {
	unit := []RawEvent{
		{Type: evAbs, Code: absDistance, Value: 1},
		{Type: evSyn, Code: synReport, Value: 1},
		{Type: evAbs, Code: absDistance, Value: 2},
		{Type: evSyn, Code: synReport, Value: 1},
	}
	return repeat(unit, burst)
}

// ButtonFlood builds the synthetic burst for the buttons device.
func ButtonFlood(burst int) []RawEvent {
	unit := []RawEvent{
		{Type: evSyn, Code: 1, Value: 0},
		{Type: evSyn, Code: synReport, Value: 1},
	}
	return repeat(unit, burst)
}

func repeat(unit []RawEvent, n int) []RawEvent {
	out := make([]RawEvent, 0, len(unit)*n)
	for i := 0; i < n; i++ {
		out = append(out, unit...)
	}
	return out
}
