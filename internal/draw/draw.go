// Package draw implements the functional draw/layout composition engine.
//
// A plan is a tree of Ops evaluated against a Context: the cursor rect,
// the drawing surface, and the gesture set being accumulated for the
// frame. Evaluation is single-threaded inside the render thread; plans
// themselves are immutable and safe to re-evaluate.
//
// Two combinators sequence children. Seq carries the cursor forward from
// each child into the next. Over applies its first child, then evaluates
// every remaining child against the cursor the first produced, restoring
// that cursor afterwards so siblings share an origin without corrupting
// it for later siblings.
package draw

import (
	"github.com/parchment-shell/parchment/internal/display"
	"github.com/parchment-shell/parchment/internal/gesture"
	"github.com/parchment-shell/parchment/internal/geometry"
	"github.com/parchment-shell/parchment/internal/logging"
)

// Context is the state threaded through plan evaluation.
type Context struct {
	Rect     geometry.Rect
	Surface  display.Surface
	Gestures *gesture.Set
	Log      *logging.Logger
}

// Op is one node of a draw plan.
type Op interface {
	Apply(Context) Context
}

// Func adapts a plain function to an Op.
type Func func(Context) Context

// Apply implements Op.
func (f Func) Apply(ctx Context) Context {
	return f(ctx)
}

// Unit draws nothing and leaves the cursor untouched.
func Unit() Func {
	return func(ctx Context) Context { return ctx }
}

// Seq evaluates ops in order, carrying the cursor forward.
type Seq []Op

// Apply implements Op.
func (s Seq) Apply(ctx Context) Context {
	for _, op := range s {
		ctx = op.Apply(ctx)
	}
	return ctx
}

// Over evaluates its first op, then each remaining op against the cursor
// the first produced, restoring that cursor after every one.
type Over []Op

// Apply implements Op.
func (o Over) Apply(ctx Context) Context {
	if len(o) == 0 {
		return ctx
	}
	ctx = o[0].Apply(ctx)
	for _, op := range o[1:] {
		saved := ctx.Rect
		ctx = op.Apply(ctx)
		ctx.Rect = saved
	}
	return ctx
}

// Overlay runs op and discards any cursor change it made.
func Overlay(op Op) Func {
	return func(ctx Context) Context {
		saved := ctx.Rect
		ctx = op.Apply(ctx)
		ctx.Rect = saved
		return ctx
	}
}

// Recognize registers r for the frame, gated to the cursor at
// registration time, so the hit region tracks wherever layout placed the
// element without the predicate knowing about rects.
func Recognize(r gesture.Recognizer) Func {
	return func(ctx Context) Context {
		if ctx.Gestures != nil {
			ctx.Gestures.With(gesture.ZoneGate(ctx.Rect, r))
		}
		return ctx
	}
}
