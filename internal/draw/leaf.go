package draw

import (
	"image"

	"go.uber.org/zap"

	"github.com/parchment-shell/parchment/internal/display"
	"github.com/parchment-shell/parchment/internal/geometry"
)

// Clear wipes the whole surface.
func Clear() Func {
	return func(ctx Context) Context {
		ctx.Surface.Clear()
		return ctx
	}
}

// RectFill fills the cursor rect.
func RectFill(c display.Color) Func {
	return func(ctx Context) Context {
		ctx.Surface.FillRect(ctx.Rect, c)
		return ctx
	}
}

// RectStroke outlines the cursor rect.
func RectStroke(border int, c display.Color) Func {
	return func(ctx Context) Context {
		ctx.Surface.StrokeRect(ctx.Rect, border, c)
		return ctx
	}
}

// RectBorder fills then outlines the cursor rect.
func RectBorder(border int, fill, stroke display.Color) Op {
	return Seq{RectFill(fill), RectStroke(border, stroke)}
}

// CircleFill draws a filled circle centered on the cursor origin.
func CircleFill(radius int, c display.Color) Func {
	return func(ctx Context) Context {
		ctx.Surface.FillCircle(ctx.Rect.Origin(), radius, c)
		return ctx
	}
}

// CircleStroke outlines a circle centered on the cursor origin.
func CircleStroke(radius int, c display.Color) Func {
	return func(ctx Context) Context {
		ctx.Surface.StrokeCircle(ctx.Rect.Origin(), radius, c)
		return ctx
	}
}

// CircleBorder fills then outlines a circle.
func CircleBorder(radius int, fill, stroke display.Color) Op {
	return Seq{CircleFill(radius, fill), CircleStroke(radius, stroke)}
}

// Line draws a line between two points relative to the cursor origin and
// leaves the affected bounding rect as the cursor.
func Line(a, b geometry.Point, width int, c display.Color) Func {
	return func(ctx Context) Context {
		origin := ctx.Rect.Origin()
		pa := origin.Add(a.X, a.Y)
		pb := origin.Add(b.X, b.Y)
		ctx.Surface.Line(pa, pb, width, c)
		ctx.Rect = lineBounds(pa, pb, width)
		return ctx
	}
}

// Text draws a string anchored at the cursor origin and leaves the drawn
// glyph box as the cursor.
func Text(s string, size float64, c display.Color) Func {
	return func(ctx Context) Context {
		ctx.Rect = ctx.Surface.DrawText(ctx.Rect.Origin(), s, size, c)
		return ctx
	}
}

// TextAligned draws a string with a fractional origin inside its measured
// glyph box: (0.5, 0) centers horizontally, (1, 1) right/bottom aligns.
func TextAligned(s string, size float64, ox, oy float64, c display.Color) Func {
	return func(ctx Context) Context {
		w, h := ctx.Surface.MeasureText(s, size)
		return Seq{
			OffsetRel(-int(float64(w)*ox), -int(float64(h)*oy)),
			Text(s, size, c),
		}.Apply(ctx)
	}
}

// Image blits an image anchored at the cursor's top-left corner and
// leaves the covered rect as the cursor.
func Image(img image.Image) Func {
	return func(ctx Context) Context {
		ctx.Rect = ctx.Surface.DrawImage(img, ctx.Rect.Origin())
		return ctx
	}
}

// DumpRegion captures the raw bytes of the cursor rect and hands them to
// the callback. A failed dump is logged and the callback skipped.
func DumpRegion(f func([]byte)) Func {
	return func(ctx Context) Context {
		data, err := ctx.Surface.DumpRegion(ctx.Rect)
		if err != nil {
			if ctx.Log != nil {
				ctx.Log.Warn("region dump failed", zap.Error(err))
			}
			return ctx
		}
		f(data)
		return ctx
	}
}

// RestoreRegion writes previously dumped bytes back into the cursor
// rect. A mismatched payload is logged and ignored; a stale screenshot
// must never take down the shell.
func RestoreRegion(data []byte) Func {
	return func(ctx Context) Context {
		if err := ctx.Surface.RestoreRegion(ctx.Rect, data); err != nil && ctx.Log != nil {
			ctx.Log.Warn("region restore failed", zap.Error(err))
		}
		return ctx
	}
}

// PartialRefresh pushes the cursor rect to the panel.
func PartialRefresh(p display.RefreshProfile) Func {
	return func(ctx Context) Context {
		ctx.Surface.RefreshRegion(ctx.Rect, p)
		return ctx
	}
}

// FullRefresh pushes the whole surface to the panel.
func FullRefresh(p display.RefreshProfile) Func {
	return func(ctx Context) Context {
		ctx.Surface.RefreshAll(p)
		return ctx
	}
}

func lineBounds(a, b geometry.Point, width int) geometry.Rect {
	left, right := a.X, b.X
	if left > right {
		left, right = right, left
	}
	top, bottom := a.Y, b.Y
	if top > bottom {
		top, bottom = bottom, top
	}
	pad := width / 2
	return geometry.NewRect(left-pad, top-pad, right-left+width, bottom-top+width)
}
