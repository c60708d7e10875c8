package gesture

import "github.com/parchment-shell/parchment/internal/geometry"

// ZoneGate restricts inner to histories whose first sample lies inside
// zone ([pos, pos+size) on both axes). Later samples may leave the zone
// without rejecting the gesture.
func ZoneGate(zone geometry.Rect, inner Recognizer) Recognizer {
	return func(h History) bool {
		first, ok := h.First()
		if !ok || !zone.Contains(first.Pos) {
			return false
		}
		return inner(h)
	}
}

// Tap matches a press-to-release sequence whose total displacement stays
// strictly below hysteresis. The callback receives the release position.
func Tap(hysteresis float64, callback func(geometry.Point)) Recognizer {
	return func(h History) bool {
		if len(h) < 2 {
			return false
		}
		if h[0].Kind != Press {
			return false
		}
		last := h[len(h)-1]
		if last.Kind != Release {
			return false
		}
		delta, ok := h.Delta()
		if !ok || delta.Magnitude() >= hysteresis {
			return false
		}
		callback(last.Pos)
		return true
	}
}

// OnPress fires the instant a single-sample press-only history exists.
func OnPress(callback func(geometry.Point)) Recognizer {
	return func(h History) bool {
		if len(h) != 1 || h[0].Kind != Press {
			return false
		}
		callback(h[0].Pos)
		return true
	}
}

// OnRelease fires whenever the latest sample is a release.
func OnRelease(callback func(geometry.Point)) Recognizer {
	return func(h History) bool {
		last, ok := h.Last()
		if !ok || last.Kind != Release {
			return false
		}
		callback(last.Pos)
		return true
	}
}

// Drag invokes the callback with the current displacement on every
// sample. The callback's return value decides whether the gesture is
// complete, so callers get continuous feedback before committing.
func Drag(callback func(geometry.Vector) bool) Recognizer {
	return func(h History) bool {
		delta, ok := h.Delta()
		if !ok {
			return false
		}
		return callback(delta)
	}
}
