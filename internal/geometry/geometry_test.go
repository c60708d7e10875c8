package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectInsetClamps(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		fn   func(Rect) Rect
		want Rect
	}{
		{
			name: "margin larger than height clamps to zero",
			rect: NewRect(0, 0, 100, 50),
			fn:   func(r Rect) Rect { return r.InsetTop(80) },
			want: Rect{Left: 0, Top: 80, Width: 100, Height: 0},
		},
		{
			name: "margin larger than width clamps to zero",
			rect: NewRect(10, 10, 30, 30),
			fn:   func(r Rect) Rect { return r.InsetLeft(100) },
			want: Rect{Left: 110, Top: 10, Width: 0, Height: 30},
		},
		{
			name: "negative inset grows",
			rect: NewRect(10, 10, 30, 30),
			fn:   func(r Rect) Rect { return r.Inset(-1) },
			want: Rect{Left: 9, Top: 9, Width: 32, Height: 32},
		},
		{
			name: "right and bottom leave origin untouched",
			rect: NewRect(5, 5, 20, 20),
			fn:   func(r Rect) Rect { return r.InsetRight(6).InsetBottom(25) },
			want: Rect{Left: 5, Top: 5, Width: 14, Height: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.rect))
		})
	}
}

func TestRectContainsHalfOpen(t *testing.T) {
	r := NewRect(10, 20, 30, 40)

	assert.True(t, r.Contains(Point{10, 20}))
	assert.True(t, r.Contains(Point{39, 59}))
	assert.False(t, r.Contains(Point{40, 20}), "right edge is exclusive")
	assert.False(t, r.Contains(Point{10, 60}), "bottom edge is exclusive")
	assert.False(t, r.Contains(Point{9, 20}))
}

func TestEmptyRectContainsNothing(t *testing.T) {
	r := NewRect(0, 0, 0, 100)
	assert.True(t, r.Empty())
	assert.False(t, r.Contains(Point{0, 0}))
}

func TestVector(t *testing.T) {
	d := Delta(Point{10, 10}, Point{10, 12})
	assert.Equal(t, Vector{0, 2}, d)
	assert.InDelta(t, 2.0, d.Magnitude(), 1e-9)

	d = Delta(Point{0, 900}, Point{0, 700})
	assert.Equal(t, -200.0, d.Y)
}
