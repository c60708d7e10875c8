package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-shell/parchment/internal/geometry"
)

func TestDumpRestoreRoundTrip(t *testing.T) {
	m := NewMemory(64, 64)
	region := geometry.NewRect(8, 8, 16, 16)

	m.FillRect(region, Black)
	dump, err := m.DumpRegion(region)
	require.NoError(t, err)
	require.Len(t, dump, 16*16*bytesPerPixel)

	m.Clear()
	blank, err := m.DumpRegion(region)
	require.NoError(t, err)
	assert.NotEqual(t, dump, blank)

	require.NoError(t, m.RestoreRegion(region, dump))
	restored, err := m.DumpRegion(region)
	require.NoError(t, err)
	assert.Equal(t, dump, restored, "restore is bit-for-bit")
}

func TestRestoreRejectsMismatchedPayload(t *testing.T) {
	m := NewMemory(32, 32)
	err := m.RestoreRegion(geometry.NewRect(0, 0, 8, 8), make([]byte, 3))
	assert.ErrorIs(t, err, ErrRegionSize)
}

func TestEmptyRegionOperationsAreNoOps(t *testing.T) {
	m := NewMemory(32, 32)
	empty := geometry.NewRect(5, 5, 0, 10)

	dump, err := m.DumpRegion(empty)
	require.NoError(t, err)
	assert.Nil(t, dump)
	assert.NoError(t, m.RestoreRegion(empty, nil))
	m.FillRect(empty, Black) // must not touch pixels

	before, _ := m.DumpRegion(m.Bounds())
	m.StrokeRect(empty, 2, Black)
	after, _ := m.DumpRegion(m.Bounds())
	assert.Equal(t, before, after)
}

func TestMeasureAndDrawTextAgree(t *testing.T) {
	m := NewMemory(400, 100)
	w, h := m.MeasureText("Remark", 42)
	require.Greater(t, w, 0)
	require.Greater(t, h, 0)

	box := m.DrawText(geometry.Point{X: 10, Y: 10}, "Remark", 42, Black)
	assert.Equal(t, geometry.NewRect(10, 10, w, h), box)
}

func TestFillRectChangesOnlyRegion(t *testing.T) {
	m := NewMemory(16, 16)
	m.FillRect(geometry.NewRect(0, 0, 8, 16), Black)

	left, err := m.DumpRegion(geometry.NewRect(0, 0, 1, 1))
	require.NoError(t, err)
	right, err := m.DumpRegion(geometry.NewRect(15, 15, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, byte(0x00), left[0])
	assert.Equal(t, byte(0xFF), right[0])
}
