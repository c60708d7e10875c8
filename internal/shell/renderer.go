package shell

import (
	"github.com/parchment-shell/parchment/internal/display"
	"github.com/parchment-shell/parchment/internal/draw"
	"github.com/parchment-shell/parchment/internal/gesture"
	"github.com/parchment-shell/parchment/internal/logging"
)

// Post delivers an event to the orchestrator channel.
type Post func(Event)

type renderCommand struct {
	plan    draw.Op
	publish bool
	exit    bool
}

// Renderer is the render thread. It exclusively owns the drawing surface
// and evaluates plans against a fresh full-display cursor and an empty
// gesture accumulator.
type Renderer struct {
	surface  display.Surface
	post     Post
	log      *logging.Logger
	commands chan renderCommand
	done     chan struct{}
}

// NewRenderer wires a surface to the orchestrator.
func NewRenderer(surface display.Surface, post Post, log *logging.Logger) *Renderer {
	return &Renderer{
		surface:  surface,
		post:     post,
		log:      log.Named("renderer"),
		commands: make(chan renderCommand, 16),
		done:     make(chan struct{}),
	}
}

// Start launches the render goroutine.
func (r *Renderer) Start() {
	go r.run()
}

// Execute queues a plan. When publish is set, the gesture set the plan
// accumulated is posted back to replace the active recognizer.
func (r *Renderer) Execute(plan draw.Op, publish bool) {
	r.commands <- renderCommand{plan: plan, publish: publish}
}

// Exit queues shutdown.
func (r *Renderer) Exit() {
	r.commands <- renderCommand{exit: true}
}

// Join blocks until the render thread has exited.
func (r *Renderer) Join() {
	<-r.done
}

func (r *Renderer) run() {
	defer close(r.done)
	for cmd := range r.commands {
		if cmd.exit {
			r.log.Info("renderer exiting")
			return
		}

		ctx := draw.Context{
			Rect:     r.surface.Bounds(),
			Surface:  r.surface,
			Gestures: gesture.NewSet(),
			Log:      r.log,
		}
		ctx = cmd.plan.Apply(ctx)

		if cmd.publish {
			r.post(SetRecognizer{Set: ctx.Gestures})
		}
	}
}
