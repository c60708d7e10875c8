// Package shell wires the tray's event architecture: device capture
// threads and the render thread feed one ordered channel consumed by a
// single-threaded orchestrator that owns the recognizer, the active draw
// plan, and the draft registry.
package shell

import (
	"image"

	"github.com/parchment-shell/parchment/internal/draft"
	"github.com/parchment-shell/parchment/internal/draw"
	"github.com/parchment-shell/parchment/internal/gesture"
	"github.com/parchment-shell/parchment/internal/input"
)

// Event is one orchestrator message. Events are consumed strictly in
// arrival order.
type Event interface {
	shellEvent()
}

// IconLoaded delivers a background-loaded icon for the registry.
type IconLoaded struct {
	Name string
	Icon image.Image
}

// SetRecognizer replaces the active gesture set. The renderer publishes
// the set in draw order; the orchestrator reverses it on receipt so the
// topmost element is tried first.
type SetRecognizer struct {
	Set *gesture.Set
}

// SetPlan replaces the active draw plan and re-renders immediately.
type SetPlan struct {
	Plan draw.Op
}

// Redraw re-renders the current plan, if any.
type Redraw struct{}

// Input carries one decoded device event.
type Input struct {
	Event input.Event
}

// Run asks the supervisor to continue or launch a draft.
type Run struct {
	Draft draft.Descriptor
}

// StopInput shuts down every capture thread: ungrab, flush, stop, join.
type StopInput struct{}

// StopRenderer shuts down the render thread and joins it.
type StopRenderer struct{}

// Exit terminates the orchestrator loop.
type Exit struct{}

func (IconLoaded) shellEvent()    {}
func (SetRecognizer) shellEvent() {}
func (SetPlan) shellEvent()       {}
func (Redraw) shellEvent()        {}
func (Input) shellEvent()         {}
func (Run) shellEvent()           {}
func (StopInput) shellEvent()     {}
func (StopRenderer) shellEvent()  {}
func (Exit) shellEvent()          {}
