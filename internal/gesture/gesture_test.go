package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-shell/parchment/internal/geometry"
)

func fullDisplay() geometry.Rect {
	return geometry.NewRect(0, 0, 1404, 1872)
}

func TestTapFiresOnceAndForgetsFinger(t *testing.T) {
	var hits []geometry.Point
	set := NewSet().With(ZoneGate(fullDisplay(), Tap(32, func(p geometry.Point) {
		hits = append(hits, p)
	})))
	e := NewEngine(set)

	assert.Empty(t, e.Press(0, geometry.Point{X: 10, Y: 10}))
	matched := e.Release(0, geometry.Point{X: 10, Y: 12})

	require.Equal(t, []int{0}, matched)
	require.Len(t, hits, 1)
	assert.Equal(t, geometry.Point{X: 10, Y: 12}, hits[0], "callback sees the release position")

	// The finger is gone; replaying a release for it cannot re-fire.
	assert.Empty(t, e.Release(0, geometry.Point{X: 10, Y: 12}))
	assert.Len(t, hits, 1)
}

func TestTapHysteresisBoundary(t *testing.T) {
	tests := []struct {
		name    string
		release geometry.Point
		want    bool
	}{
		{"well inside", geometry.Point{X: 10, Y: 12}, true},
		{"just inside", geometry.Point{X: 10 + 31, Y: 10}, true},
		{"exactly at hysteresis does not match", geometry.Point{X: 10 + 32, Y: 10}, false},
		{"outside", geometry.Point{X: 100, Y: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := false
			e := NewEngine(NewSet().With(Tap(32, func(geometry.Point) { fired = true })))
			e.Press(0, geometry.Point{X: 10, Y: 10})
			e.Release(0, tt.release)
			assert.Equal(t, tt.want, fired)
		})
	}
}

func TestTapRequiresPressAndRelease(t *testing.T) {
	fired := false
	e := NewEngine(NewSet().With(Tap(32, func(geometry.Point) { fired = true })))

	// Move-only history: too short, then no press at the front.
	e.Move(3, geometry.Point{X: 5, Y: 5})
	e.Move(3, geometry.Point{X: 5, Y: 6})
	assert.False(t, fired)

	// Press followed by moves never matches until the release lands.
	e.Press(4, geometry.Point{X: 1, Y: 1})
	e.Move(4, geometry.Point{X: 2, Y: 2})
	assert.False(t, fired)
	e.Release(4, geometry.Point{X: 2, Y: 3})
	assert.True(t, fired)
}

func TestZoneGateChecksFirstSampleOnly(t *testing.T) {
	zone := geometry.NewRect(0, 100, 50, 50)
	fired := false
	rec := ZoneGate(zone, OnRelease(func(geometry.Point) { fired = true }))

	// First sample outside: later in-zone samples do not retroactively admit.
	e := NewEngine(NewSet().With(rec))
	e.Press(0, geometry.Point{X: 200, Y: 200})
	e.Move(0, geometry.Point{X: 10, Y: 110})
	e.Release(0, geometry.Point{X: 10, Y: 110})
	assert.False(t, fired)

	// First sample inside: later out-of-zone samples do not reject.
	e = NewEngine(NewSet().With(rec))
	e.Press(0, geometry.Point{X: 10, Y: 110})
	e.Move(0, geometry.Point{X: 500, Y: 500})
	e.Release(0, geometry.Point{X: 500, Y: 500})
	assert.True(t, fired)
}

func TestZoneGateHalfOpenBounds(t *testing.T) {
	zone := geometry.NewRect(0, 0, 10, 10)
	matched := func(p geometry.Point) bool {
		hit := false
		e := NewEngine(NewSet().With(ZoneGate(zone, OnPress(func(geometry.Point) { hit = true }))))
		e.Press(0, p)
		return hit
	}

	assert.True(t, matched(geometry.Point{X: 0, Y: 0}))
	assert.True(t, matched(geometry.Point{X: 9, Y: 9}))
	assert.False(t, matched(geometry.Point{X: 10, Y: 0}))
	assert.False(t, matched(geometry.Point{X: 0, Y: 10}))
}

func TestPriorityFrontWinsAndReverseFlips(t *testing.T) {
	build := func(order *[]string) *Set {
		return NewSet().
			With(OnRelease(func(geometry.Point) { *order = append(*order, "low") })).
			With(OnRelease(func(geometry.Point) { *order = append(*order, "high") }))
	}

	var fired []string
	e := NewEngine(build(&fired))
	e.Press(0, geometry.Point{X: 1, Y: 1})
	e.Release(0, geometry.Point{X: 1, Y: 1})
	assert.Equal(t, []string{"low"}, fired, "front of the set wins")

	fired = nil
	e = NewEngine(build(&fired).Reverse())
	e.Press(0, geometry.Point{X: 1, Y: 1})
	e.Release(0, geometry.Point{X: 1, Y: 1})
	assert.Equal(t, []string{"high"}, fired, "reversal flips which recognizer fires")
}

func TestPressReplacesStaleHistory(t *testing.T) {
	// A second press on a live finger id must start a fresh single-sample
	// history, so the press recognizer fires for both.
	var presses int
	e := NewEngine(NewSet().With(OnPress(func(geometry.Point) { presses++ })))
	e.Press(7, geometry.Point{X: 0, Y: 0})
	e.Move(7, geometry.Point{X: 5, Y: 5})
	e.Press(7, geometry.Point{X: 100, Y: 100})
	assert.Equal(t, 2, presses, "each press-only history fires the press recognizer")
}

func TestDragBottomZoneSwipe(t *testing.T) {
	const hysteresis = 32
	zone := geometry.NewRect(0, 1872-128, 1404, 128)

	var deltas []float64
	done := false
	rec := ZoneGate(zone, Drag(func(d geometry.Vector) bool {
		deltas = append(deltas, d.Y)
		if d.Y < -hysteresis {
			done = true
			return true
		}
		return false
	}))
	e := NewEngine(NewSet().With(rec))

	e.Press(0, geometry.Point{X: 0, Y: 1800})
	for y := 1790; y >= 1600 && !done; y -= 10 {
		matched := e.Move(0, geometry.Point{X: 0, Y: y})
		if done {
			assert.Equal(t, []int{0}, matched)
		}
	}

	require.True(t, done, "drag past the hysteresis completes the gesture")
	require.Greater(t, len(deltas), 2, "callback fires repeatedly before commit")
	for i := 1; i < len(deltas); i++ {
		assert.Less(t, deltas[i], deltas[i-1], "upward swipe grows increasingly negative")
	}

	// Finger was retired on completion: further moves are ignored.
	assert.Empty(t, e.Move(0, geometry.Point{X: 0, Y: 100}))
}

func TestMultipleFingersEvaluateAscending(t *testing.T) {
	// Two active fingers, a recognizer that records which finger it saw.
	var seen []geometry.Point
	e := NewEngine(NewSet().With(func(h History) bool {
		first, _ := h.First()
		seen = append(seen, first.Pos)
		return false
	}))

	e.Press(5, geometry.Point{X: 5, Y: 0})
	seen = nil
	e.Press(1, geometry.Point{X: 1, Y: 0})

	assert.Equal(t, []geometry.Point{{X: 1, Y: 0}, {X: 5, Y: 0}}, seen, "fingers visited in ascending id order")
}
