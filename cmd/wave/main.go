// Command wave is the idle-screen gesture listener: it watches the
// bottom strip of the display for an upward swipe and spawns the tray,
// releasing the touch device while the tray runs.
package main

import (
	"os/exec"

	"go.uber.org/zap"

	"github.com/parchment-shell/parchment/internal/config"
	"github.com/parchment-shell/parchment/internal/gesture"
	"github.com/parchment-shell/parchment/internal/geometry"
	"github.com/parchment-shell/parchment/internal/input"
	"github.com/parchment-shell/parchment/internal/logging"
)

func main() {
	cfg := config.LoadOrDefault()
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log = logging.NewDefault()
	}
	log = log.Named("wave")
	log.Info("wave startup")

	zone := geometry.NewRect(
		0, cfg.Display.Height-cfg.Gesture.ExitZoneHeight,
		cfg.Display.Width, cfg.Gesture.ExitZoneHeight,
	)

	for {
		if err := listen(cfg, zone, log); err != nil {
			log.Fatal("touch listener failed", zap.Error(err))
		}

		log.Info("gesture triggered, spawning tray")
		tray := exec.Command(cfg.System.TrayPath)
		if err := tray.Run(); err != nil {
			log.Error("tray run failed", zap.Error(err))
		}
		log.Info("tray exited, listening again")
	}
}

// listen captures the touch device until the launch gesture completes.
func listen(cfg *config.Config, zone geometry.Rect, log *logging.Logger) error {
	device, err := input.OpenEvdev(cfg.Input.TouchDevice)
	if err != nil {
		return err
	}

	events := make(chan input.Event, cfg.Input.EventBuffer)
	capture := input.NewCapture(
		"touch",
		device,
		input.NewTouchDecoder(cfg.Input.TouchMaxX, cfg.Input.TouchMaxY, cfg.Display.Width, cfg.Display.Height),
		input.TouchFlood(cfg.Input.FloodBurst),
		cfg.Input.PollTimeout,
		func(ev input.Event) error {
			events <- ev
			return nil
		},
		log,
	)
	capture.Start()

	// An upward swipe starting in the bottom strip and travelling past
	// the hysteresis threshold completes the gesture.
	matched := false
	set := gesture.NewSet().With(gesture.ZoneGate(zone, gesture.Drag(func(delta geometry.Vector) bool {
		if delta.Y >= -cfg.Gesture.TapHysteresis {
			return false
		}
		matched = true
		return true
	})))
	engine := gesture.NewEngine(set)

	for ev := range events {
		touch, ok := ev.(input.TouchEvent)
		if !ok {
			continue
		}
		switch touch.Kind {
		case gesture.Press:
			engine.Press(touch.Finger, touch.Pos)
		case gesture.Move:
			engine.Move(touch.Finger, touch.Pos)
		case gesture.Release:
			engine.Release(touch.Finger, touch.Pos)
		}
		if matched {
			break
		}
	}

	capture.Send(input.Stop)
	capture.Join()
	return nil
}
