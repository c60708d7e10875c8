//go:build linux

// Package epd drives the e-paper framebuffer device.
//
// Raster work happens on an in-process canvas; refresh calls quantize the
// affected rows to the panel's rgb565 layout, copy them into the mapped
// framebuffer, and issue the controller's update ioctl for the rect.
package epd

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/parchment-shell/parchment/internal/display"
	"github.com/parchment-shell/parchment/internal/geometry"
)

// EPDC ioctl numbers (mxcfb.h).
const (
	mxcfbSendUpdate         = 0x4048462e
	mxcfbWaitUpdateComplete = 0xc008462f
)

// Panel update modes.
const (
	updatePartial uint32 = 0
	updateFull    uint32 = 1
)

// tempUseAmbient asks the EPDC to read the on-board temperature sensor.
const tempUseAmbient uint32 = 0x1000

// Device is a display.Surface bound to the hardware framebuffer.
type Device struct {
	*display.Memory

	file   *os.File
	mapped []byte
	stride int // bytes per framebuffer row
	marker uint32
}

// Open maps the framebuffer and prepares a canvas of the given size.
func Open(path string, width, height int) (*Device, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer: %w", err)
	}

	size := width * height * 2 // rgb565
	mapped, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("map framebuffer: %w", err)
	}

	return &Device{
		Memory: display.NewMemory(width, height),
		file:   file,
		mapped: mapped,
		stride: width * 2,
	}, nil
}

// Close unmaps and closes the framebuffer.
func (d *Device) Close() error {
	if d.mapped != nil {
		if err := unix.Munmap(d.mapped); err != nil {
			return err
		}
		d.mapped = nil
	}
	return d.file.Close()
}

// RefreshRegion blits the region to the framebuffer and asks the EPDC to
// repaint it.
func (d *Device) RefreshRegion(r geometry.Rect, p display.RefreshProfile) {
	if r.Empty() {
		return
	}
	d.blit(r)
	d.sendUpdate(r, p, updatePartial)
}

// RefreshAll blits the whole canvas and requests a full-panel repaint.
func (d *Device) RefreshAll(p display.RefreshProfile) {
	d.blit(d.Bounds())
	d.sendUpdate(d.Bounds(), p, updateFull)
}

// blit converts the region's RGBA rows to rgb565 in the mapped buffer.
func (d *Device) blit(r geometry.Rect) {
	img := d.Image()
	for y := 0; y < r.Height; y++ {
		src := img.PixOffset(r.Left, r.Top+y)
		dst := (r.Top+y)*d.stride + r.Left*2
		for x := 0; x < r.Width; x++ {
			px := img.Pix[src+x*4 : src+x*4+3 : src+x*4+3]
			v := rgb565(px[0], px[1], px[2])
			d.mapped[dst+x*2] = byte(v)
			d.mapped[dst+x*2+1] = byte(v >> 8)
		}
	}
}

func rgb565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// mxcfbUpdateData mirrors struct mxcfb_update_data (mxcfb.h), including
// the embedded alt-buffer description the shell never uses.
type mxcfbUpdateData struct {
	top, left, width, height uint32
	waveformMode             uint32
	updateMode               uint32
	updateMarker             uint32
	temp                     int32
	flags                    uint32
	ditherMode               int32
	quantBit                 int32
	altBufferData            [7]uint32
}

func (d *Device) sendUpdate(r geometry.Rect, p display.RefreshProfile, mode uint32) {
	data := mxcfbUpdateData{
		top:          uint32(r.Top),
		left:         uint32(r.Left),
		width:        uint32(r.Width),
		height:       uint32(r.Height),
		waveformMode: uint32(p.Waveform),
		updateMode:   mode,
		updateMarker: atomic.AddUint32(&d.marker, 1),
		temp:         int32(tempUseAmbient),
		ditherMode:   int32(p.Dither),
		quantBit:     int32(p.QuantBit),
	}
	if p.Temp != 0 {
		data.temp = int32(p.Temp)
	}

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), mxcfbSendUpdate, uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return
	}

	if p.Wait {
		wait := struct {
			updateMarker  uint32
			collisionTest uint32
		}{updateMarker: data.updateMarker}
		unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), mxcfbWaitUpdateComplete, uintptr(unsafe.Pointer(&wait)))
	}
}
