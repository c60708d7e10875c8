// Command parchment is the session launcher: it tears down whatever a
// previous session left behind, resets the session directory, and hands
// off to the idle-screen listener.
package main

import (
	"os/exec"

	"go.uber.org/zap"

	"github.com/parchment-shell/parchment/internal/config"
	"github.com/parchment-shell/parchment/internal/logging"
	"github.com/parchment-shell/parchment/internal/paths"
	"github.com/parchment-shell/parchment/internal/proc"
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
	log = log.Named("parchment")
	log.Info("parchment startup")

	layout := paths.Layout{Root: cfg.Paths.TempDir}
	killLeftovers(cfg, layout, log)

	if err := layout.Reset(); err != nil {
		log.Fatal("session tree reset failed", zap.Error(err))
	}

	log.Info("starting wave", zap.String("path", cfg.System.WavePath))
	wave := exec.Command(cfg.System.WavePath)
	if err := wave.Run(); err != nil {
		log.Fatal("wave exited", zap.Error(err))
	}
}

// killLeftovers terminates every marked process from the previous
// session except the system launcher. Trees are continued first so a
// suspended process does not ignore the kill.
func killLeftovers(cfg *config.Config, layout paths.Layout, log *logging.Logger) {
	table, err := proc.Snapshot()
	if err != nil {
		log.Warn("process scan failed", zap.Error(err))
		return
	}

	markers := proc.NewMarkers(layout, log)
	supervisor := proc.NewSupervisor(log)

	all, err := markers.All()
	if err != nil {
		log.Warn("marker scan failed", zap.Error(err))
		return
	}

	for _, marker := range all {
		if marker.Name == cfg.System.LauncherMarker {
			continue
		}
		if _, ok := table.Lookup(marker.PID); !ok {
			continue
		}
		log.Info("killing leftover process",
			zap.String("name", marker.Name), zap.Int("pid", marker.PID))
		if err := supervisor.ResumeTree(marker.PID); err != nil {
			log.Warn("leftover resume failed", zap.Error(err))
		}
		if err := supervisor.TerminateTree(marker.PID); err != nil {
			log.Warn("leftover kill failed", zap.Error(err))
		}
	}
}
