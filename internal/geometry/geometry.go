// Package geometry provides the integer rect and vector algebra threaded
// through every draw, layout, and gesture operation.
//
// Rects use a clamped representation: width and height never go negative,
// they saturate at zero. A zero-area rect short-circuits list layouts and
// rejects all containment checks.
package geometry

import "math"

// Point is a position in display pixels.
type Point struct {
	X, Y int
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Vector is a pixel-space displacement.
type Vector struct {
	X, Y float64
}

// Magnitude returns the Euclidean length of the vector.
func (v Vector) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Delta returns the displacement from a to b.
func Delta(a, b Point) Vector {
	return Vector{X: float64(b.X - a.X), Y: float64(b.Y - a.Y)}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Left, Top     int
	Width, Height int
}

// NewRect builds a rect, clamping negative dimensions to zero.
func NewRect(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Width: clamp(width), Height: clamp(height)}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// Empty reports whether the rect has zero area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside the half-open box
// [Left, Left+Width) x [Top, Top+Height).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width &&
		p.Y >= r.Top && p.Y < r.Top+r.Height
}

// Translate moves the origin by (dx, dy) without changing the size.
// The origin clamps at zero on both axes.
func (r Rect) Translate(dx, dy int) Rect {
	r.Left = clamp(r.Left + dx)
	r.Top = clamp(r.Top + dy)
	return r
}

// InsetTop shrinks the rect from the top. A negative inset grows it.
func (r Rect) InsetTop(n int) Rect {
	r.Top = clamp(r.Top + n)
	r.Height = clamp(r.Height - n)
	return r
}

// InsetLeft shrinks the rect from the left. A negative inset grows it.
func (r Rect) InsetLeft(n int) Rect {
	r.Left = clamp(r.Left + n)
	r.Width = clamp(r.Width - n)
	return r
}

// InsetRight shrinks the rect from the right.
func (r Rect) InsetRight(n int) Rect {
	r.Width = clamp(r.Width - n)
	return r
}

// InsetBottom shrinks the rect from the bottom.
func (r Rect) InsetBottom(n int) Rect {
	r.Height = clamp(r.Height - n)
	return r
}

// Inset shrinks the rect on all four sides.
func (r Rect) Inset(n int) Rect {
	return r.InsetLeft(n).InsetRight(n).InsetTop(n).InsetBottom(n)
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
