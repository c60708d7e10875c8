package shell

import (
	"os"

	"go.uber.org/zap"

	"github.com/parchment-shell/parchment/internal/display"
	"github.com/parchment-shell/parchment/internal/draft"
	"github.com/parchment-shell/parchment/internal/draw"
	"github.com/parchment-shell/parchment/internal/gesture"
	"github.com/parchment-shell/parchment/internal/input"
	"github.com/parchment-shell/parchment/internal/logging"
	"github.com/parchment-shell/parchment/internal/paths"
)

// PanelScreenshotKey names the bottom-strip screenshot cache entry.
const PanelScreenshotKey = "panel"

// Loop is the single-threaded orchestrator. It exclusively owns the
// recognizer, the active draw plan, the draft registry, and the device
// command senders; nothing here needs a lock.
type Loop struct {
	events   *eventQueue
	inputs   input.Handles
	renderer *Renderer
	registry *draft.Registry
	layout   paths.Layout
	metrics  Metrics
	log      *logging.Logger

	// Suspended is the draft stopped at startup, if any; continuing it
	// restores the panel strip instead of the whole display.
	Suspended *draft.Descriptor

	engine *gesture.Engine
	plan   draw.Op
}

// NewLoop builds the orchestrator over an unbounded event queue; the
// capacity only pre-sizes the backlog for the expected burst (a touch
// flood is thousands of events).
func NewLoop(capacity int, inputs input.Handles, renderer *Renderer, registry *draft.Registry, layout paths.Layout, metrics Metrics, log *logging.Logger) *Loop {
	return &Loop{
		events:   newEventQueue(capacity),
		inputs:   inputs,
		renderer: renderer,
		registry: registry,
		layout:   layout,
		metrics:  metrics,
		log:      log.Named("loop"),
	}
}

// Post delivers one event without blocking, preserving arrival order.
func (l *Loop) Post(ev Event) {
	l.events.push(ev)
}

// Forward adapts Post for capture threads.
func (l *Loop) Forward(ev input.Event) error {
	l.events.push(Input{Event: ev})
	return nil
}

// Run consumes events one at a time in strict arrival order until Exit.
func (l *Loop) Run() {
	l.log.Info("entering event loop")
	for {
		switch ev := l.events.pop().(type) {
		case IconLoaded:
			l.registry.SetIcon(ev.Name, ev.Icon)

		case SetRecognizer:
			// Registration order coincides with draw order; reversing
			// makes the topmost element win.
			l.engine = gesture.NewEngine(ev.Set.Reverse())

		case SetPlan:
			l.plan = ev.Plan
			l.renderer.Execute(l.plan, true)

		case Redraw:
			if l.plan != nil {
				l.renderer.Execute(l.plan, true)
			}

		case Input:
			l.handleInput(ev.Event)

		case Run:
			l.handleRun(ev.Draft)

		case StopInput:
			l.log.Info("stopping input threads")
			l.inputs.Broadcast(input.Ungrab, input.ClearBuffer, input.Stop)
			l.inputs.Join()
			l.log.Info("input stopped")

		case StopRenderer:
			l.log.Info("stopping renderer")
			l.renderer.Exit()
			l.renderer.Join()

		case Exit:
			l.log.Info("orchestrator exiting")
			return
		}
	}
}

func (l *Loop) handleInput(ev input.Event) {
	touch, ok := ev.(input.TouchEvent)
	if !ok || l.engine == nil {
		return
	}
	switch touch.Kind {
	case gesture.Press:
		l.engine.Press(touch.Finger, touch.Pos)
	case gesture.Move:
		l.engine.Move(touch.Finger, touch.Pos)
	case gesture.Release:
		l.engine.Release(touch.Finger, touch.Pos)
	}
}

// handleRun continues or launches a draft. Only a continue restores the
// framebuffer: the same draft gets its panel strip back bit-for-bit, a
// different draft gets its cached full screenshot, and a missing cache
// falls back to clearing the display.
func (l *Loop) handleRun(d draft.Descriptor) {
	kind, err := l.registry.Run(d)
	if err != nil {
		l.log.Error("draft run failed", zap.String("draft", d.Name), zap.Error(err))
		return
	}
	if kind != draft.Continue {
		return
	}

	if l.Suspended != nil && l.Suspended.Call == d.Call {
		l.log.Info("no application switch, restoring panel region")
		if data, err := os.ReadFile(l.layout.Screenshot(PanelScreenshotKey)); err == nil {
			l.renderer.Execute(draw.Seq{
				draw.SetRect(l.metrics.Panel),
				draw.RestoreRegion(data),
				draw.PartialRefresh(display.Fast()),
			}, false)
			return
		}
		l.log.Warn("no panel screenshot, clearing display")
		l.clearDisplay()
		return
	}

	l.log.Info("application switched, restoring full display")
	if data, err := os.ReadFile(l.layout.Screenshot(d.FileName())); err == nil {
		l.renderer.Execute(draw.Seq{
			draw.SetRect(l.metrics.Display),
			draw.RestoreRegion(data),
			draw.FullRefresh(display.Fast()),
		}, false)
		return
	}
	l.log.Warn("no full screenshot for continued draft, clearing display")
	l.clearDisplay()
}

func (l *Loop) clearDisplay() {
	l.renderer.Execute(draw.Seq{
		draw.Clear(),
		draw.FullRefresh(display.Fast()),
	}, false)
}
