package input

import (
	"github.com/parchment-shell/parchment/internal/gesture"
	"github.com/parchment-shell/parchment/internal/geometry"
)

// Decoder turns raw kernel events into shell events. Implementations keep
// per-report state and emit only on sync boundaries, so Decode may return
// nothing for many calls.
type Decoder interface {
	Decode(RawEvent) []Event
}

// slotState is one multitouch protocol-B slot between sync reports.
type slotState struct {
	tracking int
	x, y     int
	active   bool
	pressed  bool // became active this report
	released bool // tracking id cleared this report
	moved    bool
}

// TouchDecoder decodes the multitouch protocol-B stream: slot selection,
// per-slot tracking ids and positions, committed on SYN_REPORT. Raw
// digitizer coordinates are inverted and scaled to display space.
type TouchDecoder struct {
	maxX, maxY int
	displayW   int
	displayH   int
	slot       int
	slots      map[int]*slotState
}

// NewTouchDecoder builds a decoder mapping the digitizer's raw ranges
// onto a display of the given size.
func NewTouchDecoder(maxX, maxY, displayW, displayH int) *TouchDecoder {
	return &TouchDecoder{
		maxX:     maxX,
		maxY:     maxY,
		displayW: displayW,
		displayH: displayH,
		slots:    make(map[int]*slotState),
	}
}

// Decode implements Decoder.
func (d *TouchDecoder) Decode(ev RawEvent) []Event {
	switch ev.Type {
	case evAbs:
		d.absolute(ev.Code, ev.Value)
		return nil
	case evSyn:
		if ev.Code == synReport {
			return d.commit()
		}
	}
	return nil
}

func (d *TouchDecoder) absolute(code uint16, value int32) {
	switch code {
	case absMTSlot:
		d.slot = int(value)
	case absMTTrackingID:
		s := d.state(d.slot)
		if value < 0 {
			s.released = true
			return
		}
		s.tracking = int(value)
		if !s.active {
			s.active = true
			s.pressed = true
		}
	case absMTPositionX:
		s := d.state(d.slot)
		s.x = d.scaleX(int(value))
		s.moved = true
	case absMTPositionY:
		s := d.state(d.slot)
		s.y = d.scaleY(int(value))
		s.moved = true
	}
}

func (d *TouchDecoder) state(slot int) *slotState {
	s, ok := d.slots[slot]
	if !ok {
		s = &slotState{}
		d.slots[slot] = s
	}
	return s
}

// commit flushes each touched slot's pending transition as one event.
func (d *TouchDecoder) commit() []Event {
	var out []Event
	for slot, s := range d.slots {
		switch {
		case s.released:
			if s.active {
				out = append(out, TouchEvent{
					Kind:   gesture.Release,
					Finger: s.tracking,
					Pos:    geometry.Point{X: s.x, Y: s.y},
				})
			}
			delete(d.slots, slot)
			continue
		case s.pressed:
			out = append(out, TouchEvent{
				Kind:   gesture.Press,
				Finger: s.tracking,
				Pos:    geometry.Point{X: s.x, Y: s.y},
			})
		case s.active && s.moved:
			out = append(out, TouchEvent{
				Kind:   gesture.Move,
				Finger: s.tracking,
				Pos:    geometry.Point{X: s.x, Y: s.y},
			})
		}
		s.pressed = false
		s.moved = false
	}
	return out
}

// The digitizer's origin is the display's bottom-right corner, so both
// axes invert while scaling up to display resolution.
func (d *TouchDecoder) scaleX(raw int) int {
	return (d.maxX - raw) * d.displayW / (d.maxX + 1)
}

func (d *TouchDecoder) scaleY(raw int) int {
	return (d.maxY - raw) * d.displayH / (d.maxY + 1)
}

// ButtonDecoder decodes the physical key device.
type ButtonDecoder struct{}

// NewButtonDecoder builds a stateless key decoder.
func NewButtonDecoder() *ButtonDecoder {
	return &ButtonDecoder{}
}

// Decode implements Decoder. Key repeats (value 2) are dropped.
func (ButtonDecoder) Decode(ev RawEvent) []Event {
	if ev.Type != evKey || ev.Value > 1 {
		return nil
	}
	return []Event{ButtonEvent{Code: ev.Code, Pressed: ev.Value == 1}}
}
