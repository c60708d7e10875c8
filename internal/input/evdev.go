//go:build linux

package input

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// eviocgrab is the EVIOCGRAB ioctl request (_IOW('E', 0x90, int)).
const eviocgrab = 0x40044590

// rawEventSize is the kernel's struct input_event: a timeval followed by
// the 16-bit type and code and the 32-bit value. Sizing off the timeval
// keeps the layout right on both 32-bit ARM (16 bytes) and 64-bit hosts
// (24 bytes).
const rawEventSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

// Evdev is a Device over a /dev/input node.
type Evdev struct {
	file *os.File
	buf  []byte
}

// OpenEvdev opens an input node for capture and injection.
func OpenEvdev(path string) (*Evdev, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open input device: %w", err)
	}
	return &Evdev{
		file: file,
		buf:  make([]byte, rawEventSize*64),
	}, nil
}

// Wait implements Device via poll(2) with a bounded timeout.
func (d *Evdev) Wait(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(d.file.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err == unix.EINTR {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("poll input device: %w", err)
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

// Read implements Device, draining whole input_event records.
func (d *Evdev) Read() ([]RawEvent, error) {
	n, err := d.file.Read(d.buf)
	if err != nil {
		return nil, fmt.Errorf("read input device: %w", err)
	}

	events := make([]RawEvent, 0, n/rawEventSize)
	for off := 0; off+rawEventSize <= n; off += rawEventSize {
		rec := d.buf[off : off+rawEventSize]
		// type/code/value sit after the kernel timeval.
		base := rawEventSize - 8
		events = append(events, RawEvent{
			Type:  binary.LittleEndian.Uint16(rec[base:]),
			Code:  binary.LittleEndian.Uint16(rec[base+2:]),
			Value: int32(binary.LittleEndian.Uint32(rec[base+4:])),
		})
	}
	return events, nil
}

// Write implements Device, injecting synthetic input_event records.
func (d *Evdev) Write(events []RawEvent) error {
	out := make([]byte, len(events)*rawEventSize)
	for i, ev := range events {
		base := i*rawEventSize + rawEventSize - 8
		binary.LittleEndian.PutUint16(out[base:], ev.Type)
		binary.LittleEndian.PutUint16(out[base+2:], ev.Code)
		binary.LittleEndian.PutUint32(out[base+4:], uint32(ev.Value))
	}
	if _, err := d.file.Write(out); err != nil {
		return fmt.Errorf("write input device: %w", err)
	}
	return nil
}

// Grab implements Device via EVIOCGRAB, taking exclusive access so the
// shell's touches never leak into a suspended draft.
func (d *Evdev) Grab() error {
	return d.grab(1)
}

// Ungrab implements Device.
func (d *Evdev) Ungrab() error {
	return d.grab(0)
}

func (d *Evdev) grab(v uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), eviocgrab, v)
	if errno != 0 {
		return fmt.Errorf("grab ioctl: %w", errno)
	}
	return nil
}

// Close implements Device.
func (d *Evdev) Close() error {
	return d.file.Close()
}
