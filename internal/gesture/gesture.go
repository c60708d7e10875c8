// Package gesture implements multitouch gesture recognition over
// per-finger touch histories.
//
// A Recognizer is a predicate over one finger's full history. Recognizers
// live in a Set whose order is its priority: the set is built in draw
// order during rendering and reversed before installation so the
// most-recently-registered (topmost) element is tried first.
package gesture

import (
	"sort"

	"github.com/parchment-shell/parchment/internal/geometry"
)

// Kind classifies one touch sample.
type Kind uint8

const (
	Press Kind = iota
	Move
	Release
)

// String implements fmt.Stringer for log output.
func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	}
	return "unknown"
}

// Sample is one decoded touch event for a single finger.
type Sample struct {
	Kind Kind
	Pos  geometry.Point
}

// History is the ordered sample sequence for one finger, from its press
// to (at most) its release. It is owned by the Engine for the contact's
// lifetime and destroyed on release.
type History []Sample

// First returns the oldest sample.
func (h History) First() (Sample, bool) {
	if len(h) == 0 {
		return Sample{}, false
	}
	return h[0], true
}

// Last returns the newest sample.
func (h History) Last() (Sample, bool) {
	if len(h) == 0 {
		return Sample{}, false
	}
	return h[len(h)-1], true
}

// Delta returns the displacement from the first sample to the latest one.
func (h History) Delta() (geometry.Vector, bool) {
	if len(h) == 0 {
		return geometry.Vector{}, false
	}
	return geometry.Delta(h[0].Pos, h[len(h)-1].Pos), true
}

// Recognizer inspects a history and reports whether it matched. A match
// retires the finger: the engine purges its history immediately, so a
// recognizer fires at most once per gesture.
type Recognizer func(History) bool

// Set is a priority-ordered recognizer list. Front wins. Sets are rebuilt
// from scratch every frame and swapped in atomically between frames.
type Set struct {
	recognizers []Recognizer
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{}
}

// With appends a recognizer at the lowest priority and returns the set.
func (s *Set) With(r Recognizer) *Set {
	s.recognizers = append(s.recognizers, r)
	return s
}

// Extend appends every recognizer of other, preserving order.
func (s *Set) Extend(other *Set) *Set {
	s.recognizers = append(s.recognizers, other.recognizers...)
	return s
}

// Reverse flips the priority order in place. Registration order coincides
// with draw order (earlier-drawn = lower layer), so a freshly built set is
// reversed before installation to make the topmost element win.
func (s *Set) Reverse() *Set {
	for i, j := 0, len(s.recognizers)-1; i < j; i, j = i+1, j-1 {
		s.recognizers[i], s.recognizers[j] = s.recognizers[j], s.recognizers[i]
	}
	return s
}

// Len returns the number of recognizers.
func (s *Set) Len() int {
	return len(s.recognizers)
}

// Engine feeds touch samples into per-finger histories and evaluates the
// active set after every sample. It is owned by a single goroutine; no
// internal locking.
type Engine struct {
	set     *Set
	fingers map[int]History
}

// NewEngine creates an engine evaluating the provided set.
func NewEngine(set *Set) *Engine {
	if set == nil {
		set = NewSet()
	}
	return &Engine{set: set, fingers: make(map[int]History)}
}

// Press opens a fresh history for the finger, replacing any stale one
// with the same id, and evaluates. Returns the retired finger ids.
func (e *Engine) Press(finger int, pos geometry.Point) []int {
	e.fingers[finger] = History{{Kind: Press, Pos: pos}}
	return e.evaluate()
}

// Move appends to the finger's history and evaluates.
func (e *Engine) Move(finger int, pos geometry.Point) []int {
	e.fingers[finger] = append(e.fingers[finger], Sample{Kind: Move, Pos: pos})
	return e.evaluate()
}

// Release appends the final sample, evaluates, then unconditionally
// discards the finger's history regardless of the outcome.
func (e *Engine) Release(finger int, pos geometry.Point) []int {
	e.fingers[finger] = append(e.fingers[finger], Sample{Kind: Release, Pos: pos})
	matched := e.evaluate()
	delete(e.fingers, finger)
	return matched
}

// evaluate visits active fingers in ascending id order, trying every
// recognizer in priority order and stopping at the first match per
// finger. Matched fingers are purged only after the full pass so one
// frame never observes a mid-evaluation mutation.
func (e *Engine) evaluate() []int {
	ids := make([]int, 0, len(e.fingers))
	for id := range e.fingers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var matched []int
	for _, id := range ids {
		history := e.fingers[id]
		for _, recognize := range e.set.recognizers {
			if recognize(history) {
				matched = append(matched, id)
				break
			}
		}
	}

	for _, id := range matched {
		delete(e.fingers, id)
	}
	return matched
}
