// Package display exposes the drawing surface as an opaque capability.
//
// The core never touches pixels directly: it draws through the Surface
// interface and requests rectangle-by-rectangle refreshes under a
// waveform/dither/temperature profile. Memory is the in-process
// implementation; epd wraps the hardware framebuffer.
package display

import (
	"image"

	"github.com/parchment-shell/parchment/internal/geometry"
)

// Color is an opaque display color. The e-paper panel is grayscale but the
// raster pipeline works in RGB and quantizes at refresh time.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0x00, 0x00, 0x00}
	White = Color{0xFF, 0xFF, 0xFF}
	Gray  = Color{0x80, 0x80, 0x80}
)

// Waveform selects the panel update waveform.
type Waveform uint32

const (
	WaveformInit Waveform = iota
	WaveformDU
	WaveformGC16
	WaveformGC16Fast
	WaveformA2
)

// Dither selects the dithering pass applied during refresh.
type Dither uint32

const (
	DitherPassthrough Dither = iota
	DitherFloydSteinberg
	DitherAtkinson
	DitherOrdered
)

// RefreshProfile bundles the hardware update parameters for one refresh.
type RefreshProfile struct {
	Waveform Waveform
	Dither   Dither
	// Temp selects the temperature compensation table; 0 asks the driver
	// to pick from the ambient sensor.
	Temp     uint32
	QuantBit int
	// Wait blocks until the panel finishes; refreshes are asynchronous by
	// default.
	Wait bool
}

// Fast is the profile used for routine UI updates.
func Fast() RefreshProfile {
	return RefreshProfile{Waveform: WaveformGC16Fast, Dither: DitherPassthrough}
}

// Surface is the drawing capability owned exclusively by the render
// thread. Operations on empty rects are cheap no-ops.
type Surface interface {
	// Bounds returns the full display rect.
	Bounds() geometry.Rect

	// Clear fills the whole surface with white.
	Clear()

	FillRect(r geometry.Rect, c Color)
	StrokeRect(r geometry.Rect, border int, c Color)

	// FillCircle and StrokeCircle draw a circle centered on p.
	FillCircle(p geometry.Point, radius int, c Color)
	StrokeCircle(p geometry.Point, radius int, c Color)

	Line(a, b geometry.Point, width int, c Color)

	// DrawText draws s with its glyph box anchored at p and returns the
	// box actually drawn.
	DrawText(p geometry.Point, s string, size float64, c Color) geometry.Rect

	// MeasureText returns the glyph box of s without drawing.
	MeasureText(s string, size float64) (w, h int)

	// DrawImage blits img anchored at its top-left corner and returns the
	// covered rect.
	DrawImage(img image.Image, p geometry.Point) geometry.Rect

	// DumpRegion returns the raw bytes of a region, row by row.
	DumpRegion(r geometry.Rect) ([]byte, error)

	// RestoreRegion writes back bytes produced by DumpRegion for the same
	// rect, bit for bit.
	RestoreRegion(r geometry.Rect, data []byte) error

	// RefreshRegion pushes a sub-rectangle to the panel.
	RefreshRegion(r geometry.Rect, p RefreshProfile)

	// RefreshAll pushes the whole surface to the panel.
	RefreshAll(p RefreshProfile)
}
