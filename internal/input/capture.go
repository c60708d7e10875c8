package input

import (
	"time"

	"go.uber.org/zap"

	"github.com/parchment-shell/parchment/internal/logging"
)

// Forward delivers one decoded event to the orchestrator. A failure is
// logged by the capture thread, which then keeps running.
type Forward func(Event) error

// Capture is one device-class thread: a bounded poll loop servicing its
// command queue between waits.
type Capture struct {
	name     string
	device   Device
	decoder  Decoder
	flood    []RawEvent
	timeout  time.Duration
	forward  Forward
	log      *logging.Logger
	commands chan Command
	done     chan struct{}
}

// NewCapture wires a device to a decoder and forwarding target. The flood
// burst is injected whenever a ClearBuffer command arrives.
func NewCapture(name string, device Device, decoder Decoder, flood []RawEvent, timeout time.Duration, forward Forward, log *logging.Logger) *Capture {
	return &Capture{
		name:     name,
		device:   device,
		decoder:  decoder,
		flood:    flood,
		timeout:  timeout,
		forward:  forward,
		log:      log.Named(name),
		commands: make(chan Command, 8),
		done:     make(chan struct{}),
	}
}

// Start launches the capture goroutine.
func (c *Capture) Start() {
	go c.run()
}

// Send queues a command for the capture thread. The thread observes it
// after its current poll elapses, bounding shutdown latency by the poll
// timeout.
func (c *Capture) Send(cmd Command) {
	c.commands <- cmd
}

// Join blocks until the capture thread has exited.
func (c *Capture) Join() {
	<-c.done
}

func (c *Capture) run() {
	defer close(c.done)
	defer func() {
		if err := c.device.Close(); err != nil {
			c.log.Warn("device close failed", zap.Error(err))
		}
	}()

	for {
		if !c.service() {
			return
		}

		ready, err := c.device.Wait(c.timeout)
		if err != nil {
			c.log.Error("device wait failed", zap.Error(err))
			return
		}
		if !ready {
			continue
		}

		raw, err := c.device.Read()
		if err != nil {
			c.log.Error("device read failed", zap.Error(err))
			return
		}
		for _, ev := range raw {
			for _, decoded := range c.decoder.Decode(ev) {
				if err := c.forward(decoded); err != nil {
					c.log.Warn("event forwarding failed", zap.Error(err))
				}
			}
		}
	}
}

// service drains queued commands. Returns false once Stop is seen.
func (c *Capture) service() bool {
	for {
		select {
		case cmd := <-c.commands:
			switch cmd {
			case Stop:
				c.log.Info("capture stopping")
				return false
			case Grab:
				if err := c.device.Grab(); err != nil {
					c.log.Warn("grab failed", zap.Error(err))
				}
			case Ungrab:
				if err := c.device.Ungrab(); err != nil {
					c.log.Warn("ungrab failed", zap.Error(err))
				}
			case ClearBuffer:
				if err := c.device.Write(c.flood); err != nil {
					c.log.Warn("flood injection failed", zap.Error(err))
				}
			}
		default:
			return true
		}
	}
}

// Handles is the orchestrator's grip on every capture thread.
type Handles []*Capture

// Broadcast sends each command to every capture thread, in order.
func (h Handles) Broadcast(cmds ...Command) {
	for _, capture := range h {
		for _, cmd := range cmds {
			capture.Send(cmd)
		}
	}
}

// Join blocks until every capture thread has exited.
func (h Handles) Join() {
	for _, capture := range h {
		capture.Join()
	}
}
