package draw

import "github.com/parchment-shell/parchment/internal/geometry"

// MarginTop shrinks the cursor from the top, clamping at zero.
func MarginTop(m int) Func {
	return func(ctx Context) Context {
		ctx.Rect = ctx.Rect.InsetTop(m)
		return ctx
	}
}

// MarginLeft shrinks the cursor from the left, clamping at zero.
func MarginLeft(m int) Func {
	return func(ctx Context) Context {
		ctx.Rect = ctx.Rect.InsetLeft(m)
		return ctx
	}
}

// MarginRight shrinks the cursor from the right.
func MarginRight(m int) Func {
	return func(ctx Context) Context {
		ctx.Rect = ctx.Rect.InsetRight(m)
		return ctx
	}
}

// MarginBottom shrinks the cursor from the bottom.
func MarginBottom(m int) Func {
	return func(ctx Context) Context {
		ctx.Rect = ctx.Rect.InsetBottom(m)
		return ctx
	}
}

// MarginHorizontal shrinks the cursor from the left and right.
func MarginHorizontal(m int) Op {
	return Seq{MarginLeft(m), MarginRight(m)}
}

// MarginVertical shrinks the cursor from the top and bottom.
func MarginVertical(m int) Op {
	return Seq{MarginTop(m), MarginBottom(m)}
}

// Margin shrinks the cursor on all four sides.
func Margin(m int) Op {
	return Seq{MarginHorizontal(m), MarginVertical(m)}
}

// OffsetRel moves the cursor origin by a pixel delta.
func OffsetRel(dx, dy int) Func {
	return func(ctx Context) Context {
		ctx.Rect = ctx.Rect.Translate(dx, dy)
		return ctx
	}
}

// OffsetAbs moves the cursor origin by a fraction of its own size,
// the alignment/centering primitive.
func OffsetAbs(fx, fy float64) Func {
	return func(ctx Context) Context {
		ctx.Rect = ctx.Rect.Translate(
			int(float64(ctx.Rect.Width)*fx),
			int(float64(ctx.Rect.Height)*fy),
		)
		return ctx
	}
}

// SetX overrides the cursor's left edge.
func SetX(x int) Func {
	return func(ctx Context) Context {
		ctx.Rect.Left = x
		return ctx
	}
}

// SetY overrides the cursor's top edge.
func SetY(y int) Func {
	return func(ctx Context) Context {
		ctx.Rect.Top = y
		return ctx
	}
}

// SetPosition overrides the cursor origin.
func SetPosition(x, y int) Op {
	return Seq{SetX(x), SetY(y)}
}

// SetWidth overrides the cursor width.
func SetWidth(w int) Func {
	return func(ctx Context) Context {
		ctx.Rect.Width = w
		return ctx
	}
}

// SetHeight overrides the cursor height.
func SetHeight(h int) Func {
	return func(ctx Context) Context {
		ctx.Rect.Height = h
		return ctx
	}
}

// SetSize overrides the cursor size.
func SetSize(w, h int) Op {
	return Seq{SetWidth(w), SetHeight(h)}
}

// SetRect overrides the whole cursor.
func SetRect(r geometry.Rect) Func {
	return func(ctx Context) Context {
		ctx.Rect = r
		return ctx
	}
}

// Horizontal lays children out left to right against the current cursor,
// advancing by each child's consumed width plus spacing. Layout stops
// early once the cursor becomes empty, bounding cost on overflow.
func Horizontal(spacing int, ops []Op) Func {
	return func(ctx Context) Context {
		for _, op := range ops {
			cached := ctx.Rect
			ctx = op.Apply(ctx)
			advance := ctx.Rect.Width + spacing
			ctx.Rect = cached
			ctx.Rect = ctx.Rect.InsetLeft(advance)
			if ctx.Rect.Empty() {
				break
			}
		}
		return ctx
	}
}

// Vertical lays children out top to bottom, advancing by each child's
// consumed height plus spacing.
func Vertical(spacing int, ops []Op) Func {
	return func(ctx Context) Context {
		for _, op := range ops {
			cached := ctx.Rect
			ctx = op.Apply(ctx)
			advance := ctx.Rect.Height + spacing
			ctx.Rect = cached
			ctx.Rect = ctx.Rect.InsetTop(advance)
			if ctx.Rect.Empty() {
				break
			}
		}
		return ctx
	}
}

// HorizontalFixed lays children out left to right with a fixed stride.
func HorizontalFixed(stride int, ops []Op) Func {
	return func(ctx Context) Context {
		for _, op := range ops {
			ctx = Overlay(op)(ctx)
			ctx.Rect = ctx.Rect.InsetLeft(stride)
			if ctx.Rect.Empty() {
				break
			}
		}
		return ctx
	}
}

// VerticalFixed lays children out top to bottom with a fixed stride.
func VerticalFixed(stride int, ops []Op) Func {
	return func(ctx Context) Context {
		for _, op := range ops {
			ctx = Overlay(op)(ctx)
			ctx.Rect = ctx.Rect.InsetTop(stride)
			if ctx.Rect.Empty() {
				break
			}
		}
		return ctx
	}
}
