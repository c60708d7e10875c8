package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-shell/parchment/internal/display"
	"github.com/parchment-shell/parchment/internal/gesture"
	"github.com/parchment-shell/parchment/internal/geometry"
)

func testContext(w, h int) Context {
	return Context{
		Rect:     geometry.NewRect(0, 0, w, h),
		Surface:  display.NewMemory(w, h),
		Gestures: gesture.NewSet(),
	}
}

func TestOverlayRestoresCursor(t *testing.T) {
	ctx := testContext(100, 100)
	before := ctx.Rect

	out := Overlay(Seq{Margin(20), OffsetRel(5, 5)}).Apply(ctx)
	assert.Equal(t, before, out.Rect)
}

func TestSeqThreadsCursor(t *testing.T) {
	ctx := testContext(100, 100)
	out := Seq{MarginTop(10), MarginLeft(20)}.Apply(ctx)
	assert.Equal(t, geometry.NewRect(20, 10, 80, 90), out.Rect)
}

func TestOverSharesFirstChildCursor(t *testing.T) {
	ctx := testContext(100, 100)

	var seen []geometry.Rect
	record := Func(func(c Context) Context {
		seen = append(seen, c.Rect)
		return Seq{Margin(5)}.Apply(c) // siblings must not observe this
	})

	out := Over{MarginTop(40), record, record}.Apply(ctx)

	base := geometry.NewRect(0, 40, 100, 60)
	require.Len(t, seen, 2)
	assert.Equal(t, base, seen[0])
	assert.Equal(t, base, seen[1], "second sibling sees the shared cursor, not the first's result")
	assert.Equal(t, base, out.Rect)
}

func TestMarginClampsToZero(t *testing.T) {
	ctx := testContext(100, 100)
	out := MarginTop(500).Apply(ctx)
	assert.Equal(t, 0, out.Rect.Height)
	assert.True(t, out.Rect.Empty())
}

func TestHorizontalHaltsOnEmptyCursor(t *testing.T) {
	ctx := testContext(100, 100)

	applied := 0
	tile := Func(func(c Context) Context {
		applied++
		return SetWidth(60).Apply(c)
	})

	Horizontal(0, []Op{tile, tile, tile, tile}).Apply(ctx)
	assert.Equal(t, 2, applied, "layout stops once the cursor is exhausted")
}

func TestVerticalFixedAdvancesByStride(t *testing.T) {
	ctx := testContext(100, 100)

	var tops []int
	row := Func(func(c Context) Context {
		tops = append(tops, c.Rect.Top)
		return c
	})

	VerticalFixed(30, []Op{row, row, row}).Apply(ctx)
	assert.Equal(t, []int{0, 30, 60}, tops)
}

func TestRecognizeGatesToLayoutCursor(t *testing.T) {
	ctx := testContext(200, 200)

	taps := 0
	plan := Seq{
		SetRect(geometry.NewRect(50, 50, 40, 40)),
		Recognize(gesture.Tap(32, func(geometry.Point) { taps++ })),
	}
	plan.Apply(ctx)
	require.Equal(t, 1, ctx.Gestures.Len())

	engine := gesture.NewEngine(ctx.Gestures)

	// Press outside the element: no match.
	engine.Press(0, geometry.Point{X: 10, Y: 10})
	engine.Release(0, geometry.Point{X: 10, Y: 10})
	assert.Equal(t, 0, taps)

	// Press inside: the gate admits the tap.
	engine.Press(0, geometry.Point{X: 60, Y: 60})
	engine.Release(0, geometry.Point{X: 60, Y: 60})
	assert.Equal(t, 1, taps)
}

func TestLineCursorBecomesAffectedRect(t *testing.T) {
	ctx := testContext(100, 100)
	ctx.Rect = geometry.NewRect(10, 10, 50, 50)

	out := Line(geometry.Point{}, geometry.Point{X: 20, Y: 0}, 2, display.Black).Apply(ctx)
	assert.Equal(t, geometry.NewRect(9, 9, 22, 2), out.Rect)
}

func TestTextCursorBecomesDrawnBox(t *testing.T) {
	ctx := testContext(400, 100)
	ctx.Rect = geometry.NewRect(10, 10, 300, 80)

	out := Text("tray", 42, display.Black).Apply(ctx)
	assert.Equal(t, 10, out.Rect.Left)
	assert.Equal(t, 10, out.Rect.Top)
	assert.Greater(t, out.Rect.Width, 0)
	assert.Greater(t, out.Rect.Height, 0)
}

func TestDumpRestoreRegionOps(t *testing.T) {
	ctx := testContext(64, 64)
	ctx.Rect = geometry.NewRect(8, 8, 16, 16)

	RectFill(display.Black).Apply(ctx)

	var shot []byte
	DumpRegion(func(b []byte) { shot = b }).Apply(ctx)
	require.NotNil(t, shot)

	Clear().Apply(ctx)
	RestoreRegion(shot).Apply(ctx)

	var again []byte
	DumpRegion(func(b []byte) { again = b }).Apply(ctx)
	assert.Equal(t, shot, again)
}

func TestRestoreRegionToleratesBadPayload(t *testing.T) {
	ctx := testContext(32, 32)
	ctx.Rect = geometry.NewRect(0, 0, 8, 8)

	assert.NotPanics(t, func() {
		RestoreRegion([]byte{1, 2, 3}).Apply(ctx)
	})
}
