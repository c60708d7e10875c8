package display

import (
	"errors"
	"image"
	"image/draw"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/parchment-shell/parchment/internal/geometry"
)

// ErrRegionSize reports a restore whose payload does not match the rect.
var ErrRegionSize = errors.New("display: region byte length does not match rect")

const bytesPerPixel = 4 // RGBA

// Memory is an in-process Surface backed by an RGBA image. It performs
// all raster work for the epd device and stands alone in tests.
type Memory struct {
	bounds geometry.Rect
	img    *image.RGBA
	dc     *gg.Context

	fontOnce sync.Once
	fnt      *opentype.Font
	faces    map[float64]font.Face
}

// NewMemory creates a white canvas of the given size.
func NewMemory(width, height int) *Memory {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	m := &Memory{
		bounds: geometry.NewRect(0, 0, width, height),
		img:    img,
		dc:     gg.NewContextForRGBA(img),
		faces:  make(map[float64]font.Face),
	}
	m.Clear()
	return m
}

// Image exposes the backing image for blitting by the epd device.
func (m *Memory) Image() *image.RGBA {
	return m.img
}

// Bounds returns the full canvas rect.
func (m *Memory) Bounds() geometry.Rect {
	return m.bounds
}

// Clear fills the whole canvas with white.
func (m *Memory) Clear() {
	m.setColor(White)
	m.dc.DrawRectangle(0, 0, float64(m.bounds.Width), float64(m.bounds.Height))
	m.dc.Fill()
}

// FillRect fills r.
func (m *Memory) FillRect(r geometry.Rect, c Color) {
	if r.Empty() {
		return
	}
	m.setColor(c)
	m.dc.DrawRectangle(float64(r.Left), float64(r.Top), float64(r.Width), float64(r.Height))
	m.dc.Fill()
}

// StrokeRect outlines r with the given border width.
func (m *Memory) StrokeRect(r geometry.Rect, border int, c Color) {
	if r.Empty() || border <= 0 {
		return
	}
	m.setColor(c)
	m.dc.SetLineWidth(float64(border))
	m.dc.DrawRectangle(float64(r.Left), float64(r.Top), float64(r.Width), float64(r.Height))
	m.dc.Stroke()
}

// FillCircle draws a filled circle centered on p.
func (m *Memory) FillCircle(p geometry.Point, radius int, c Color) {
	if radius <= 0 {
		return
	}
	m.setColor(c)
	m.dc.DrawCircle(float64(p.X), float64(p.Y), float64(radius))
	m.dc.Fill()
}

// StrokeCircle outlines a circle centered on p.
func (m *Memory) StrokeCircle(p geometry.Point, radius int, c Color) {
	if radius <= 0 {
		return
	}
	m.setColor(c)
	m.dc.SetLineWidth(1)
	m.dc.DrawCircle(float64(p.X), float64(p.Y), float64(radius))
	m.dc.Stroke()
}

// Line draws a line from a to b.
func (m *Memory) Line(a, b geometry.Point, width int, c Color) {
	m.setColor(c)
	m.dc.SetLineWidth(float64(width))
	m.dc.DrawLine(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
	m.dc.Stroke()
}

// DrawText draws s with its glyph box anchored at p.
func (m *Memory) DrawText(p geometry.Point, s string, size float64, c Color) geometry.Rect {
	w, h := m.MeasureText(s, size)
	m.setColor(c)
	m.dc.SetFontFace(m.face(size))
	// gg anchors strings at the baseline; the surface contract anchors
	// the glyph box at its top-left corner.
	m.dc.DrawString(s, float64(p.X), float64(p.Y+h))
	return geometry.NewRect(p.X, p.Y, w, h)
}

// MeasureText returns the glyph box of s at the given size.
func (m *Memory) MeasureText(s string, size float64) (int, int) {
	m.dc.SetFontFace(m.face(size))
	w, h := m.dc.MeasureString(s)
	return int(w), int(h)
}

// DrawImage blits img with its top-left corner at p.
func (m *Memory) DrawImage(img image.Image, p geometry.Point) geometry.Rect {
	b := img.Bounds()
	dst := image.Rect(p.X, p.Y, p.X+b.Dx(), p.Y+b.Dy())
	draw.Draw(m.img, dst, img, b.Min, draw.Over)
	return geometry.NewRect(p.X, p.Y, b.Dx(), b.Dy())
}

// DumpRegion copies the raw RGBA bytes of r, row by row.
func (m *Memory) DumpRegion(r geometry.Rect) ([]byte, error) {
	if r.Empty() {
		return nil, nil
	}
	data := make([]byte, r.Width*r.Height*bytesPerPixel)
	rowLen := r.Width * bytesPerPixel
	for y := 0; y < r.Height; y++ {
		src := m.img.PixOffset(r.Left, r.Top+y)
		copy(data[y*rowLen:(y+1)*rowLen], m.img.Pix[src:src+rowLen])
	}
	return data, nil
}

// RestoreRegion writes bytes produced by DumpRegion back into r.
func (m *Memory) RestoreRegion(r geometry.Rect, data []byte) error {
	if r.Empty() {
		return nil
	}
	if len(data) != r.Width*r.Height*bytesPerPixel {
		return ErrRegionSize
	}
	rowLen := r.Width * bytesPerPixel
	for y := 0; y < r.Height; y++ {
		dst := m.img.PixOffset(r.Left, r.Top+y)
		copy(m.img.Pix[dst:dst+rowLen], data[y*rowLen:(y+1)*rowLen])
	}
	return nil
}

// RefreshRegion is a no-op: a memory canvas has no panel to push to.
func (m *Memory) RefreshRegion(geometry.Rect, RefreshProfile) {}

// RefreshAll is a no-op.
func (m *Memory) RefreshAll(RefreshProfile) {}

// basicFace is the fallback for sizes the opentype rasterizer rejects.
var basicFace font.Face = basicfont.Face7x13

func (m *Memory) setColor(c Color) {
	m.dc.SetRGB255(int(c.R), int(c.G), int(c.B))
}

func (m *Memory) face(size float64) font.Face {
	m.fontOnce.Do(func() {
		fnt, err := opentype.Parse(goregular.TTF)
		if err != nil {
			// goregular is embedded in the binary; a parse failure is a
			// build defect, not a runtime condition.
			panic(err)
		}
		m.fnt = fnt
	})
	if face, ok := m.faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(m.fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		face = basicFace
	}
	m.faces[size] = face
	return face
}
