// Command tray is the interactive shell: it suspends the running draft,
// presents the app switcher, and exits by handing the display back to a
// continued or freshly launched application.
package main

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parchment-shell/parchment/internal/config"
	"github.com/parchment-shell/parchment/internal/display/epd"
	"github.com/parchment-shell/parchment/internal/draft"
	"github.com/parchment-shell/parchment/internal/input"
	"github.com/parchment-shell/parchment/internal/logging"
	"github.com/parchment-shell/parchment/internal/paths"
	"github.com/parchment-shell/parchment/internal/proc"
	"github.com/parchment-shell/parchment/internal/shell"
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
	log = log.Named("tray")
	log.Info("tray startup", zap.String("session", uuid.NewString()))

	layout := paths.Layout{Root: cfg.Paths.TempDir}
	if err := layout.EnsureTree(); err != nil {
		log.Fatal("session tree unavailable", zap.Error(err))
	}

	drafts, err := draft.LoadDir(cfg.Paths.DraftDir)
	if err != nil {
		log.Fatal("draft load failed", zap.Error(err))
	}
	log.Info("drafts loaded", zap.Int("count", len(drafts)))

	supervisor := proc.NewSupervisor(log)
	markers := proc.NewMarkers(layout, log)
	registry := draft.NewRegistry(drafts, markers, supervisor, proc.Snapshot, log)

	for _, d := range drafts {
		if icon, ok := draft.CachedIcon(layout, d); ok {
			registry.SetIcon(d.Name, icon)
		}
	}

	// Cache the system launcher's pid so the session launcher can tell it
	// apart from leftover draft processes.
	if table, err := proc.Snapshot(); err == nil {
		if launcher, ok := table.FindCmdline(cfg.System.LauncherCmdline); ok {
			log.Info("system launcher found", zap.Int("pid", launcher.PID))
			if err := markers.Write(cfg.System.LauncherMarker, launcher.PID); err != nil {
				log.Warn("launcher marker write failed", zap.Error(err))
			}
		}
	}

	// Stop whatever draft is running; the first one suspended is resumed
	// when the tray exits without an explicit switch.
	suspendedDrafts, err := registry.SuspendRunning()
	if err != nil {
		log.Warn("suspend pass failed", zap.Error(err))
	}
	var suspended *draft.Descriptor
	if len(suspendedDrafts) > 0 {
		suspended = &suspendedDrafts[0]
	}

	metrics := shell.NewMetrics(cfg.Display, cfg.Panel)

	surface, err := epd.Open(cfg.Display.Device, cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		log.Fatal("framebuffer unavailable", zap.Error(err))
	}
	defer surface.Close()

	var loop *shell.Loop
	post := func(ev shell.Event) { loop.Post(ev) }
	forward := func(ev input.Event) error { return loop.Forward(ev) }

	renderer := shell.NewRenderer(surface, post, log)

	touch, err := input.OpenEvdev(cfg.Input.TouchDevice)
	if err != nil {
		log.Fatal("touch device unavailable", zap.Error(err))
	}
	buttons, err := input.OpenEvdev(cfg.Input.ButtonsDevice)
	if err != nil {
		log.Fatal("buttons device unavailable", zap.Error(err))
	}

	handles := input.Handles{
		input.NewCapture("touch", touch,
			input.NewTouchDecoder(cfg.Input.TouchMaxX, cfg.Input.TouchMaxY, cfg.Display.Width, cfg.Display.Height),
			input.TouchFlood(cfg.Input.FloodBurst),
			cfg.Input.PollTimeout, forward, log),
		input.NewCapture("buttons", buttons,
			input.NewButtonDecoder(),
			input.ButtonFlood(cfg.Input.FloodBurst),
			cfg.Input.PollTimeout, forward, log),
	}

	loop = shell.NewLoop(cfg.Input.EventBuffer, handles, renderer, registry, layout, metrics, log)
	loop.Suspended = suspended

	for _, capture := range handles {
		capture.Start()
	}
	handles.Broadcast(input.Grab)
	renderer.Start()

	ui := shell.NewUI(loop.Post, registry, metrics, cfg.Gesture.TapHysteresis, suspended, log)

	// Screenshot the current framebuffer contents before the first draw
	// touches them: the panel strip always, the whole display when a
	// suspended draft will want it back.
	renderer.Execute(ui.PanelScreenshot(layout), false)
	if suspended != nil {
		renderer.Execute(ui.FullScreenshot(layout, *suspended), false)
	}

	// Background icon loader; a failed icon just keeps its spinner.
	go func() {
		loaded := false
		for _, d := range drafts {
			icon, err := draft.PrepareIcon(layout, d, metrics.IconSize)
			if err != nil {
				if !errors.Is(err, draft.ErrNoIcon) && !errors.Is(err, draft.ErrIconCached) {
					log.Warn("icon load failed", zap.String("draft", d.Name), zap.Error(err))
				}
				continue
			}
			loop.Post(shell.IconLoaded{Name: d.Name, Icon: icon})
			loaded = true
		}
		if loaded {
			loop.Post(shell.Redraw{})
		}
	}()

	loop.Post(shell.SetPlan{Plan: ui.Tray()})
	loop.Run()

	log.Info("tray exited")
}
