// Package paths provides the session temp-directory layout shared by the
// tray, wave, and launcher binaries.
//
// All per-session state lives under one root (pid markers, screenshot
// dumps, resized icons) so the launcher can discard it wholesale between
// sessions. Any changes here must stay in sync across the three binaries.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Subdirectory names under the session root.
const (
	screenshotsDir = "screenshots"
	iconsDir       = "icons"
	pidsDir        = "processes"
)

// MarkerExt is the file extension of pid marker files.
const MarkerExt = ".pid"

// Layout resolves paths under a session root directory.
type Layout struct {
	Root string
}

// Pids returns the pid marker directory.
func (l Layout) Pids() string {
	return filepath.Join(l.Root, pidsDir)
}

// Pid returns the marker path for one identity (a draft name or the
// launcher's reserved identity).
func (l Layout) Pid(name string) string {
	return filepath.Join(l.Pids(), name+MarkerExt)
}

// Screenshots returns the screenshot cache directory.
func (l Layout) Screenshots() string {
	return filepath.Join(l.Root, screenshotsDir)
}

// Screenshot returns the screenshot cache path for one key (the bottom
// panel strip, or a draft's launch-target file name).
func (l Layout) Screenshot(key string) string {
	return filepath.Join(l.Screenshots(), key)
}

// Icons returns the icon cache directory.
func (l Layout) Icons() string {
	return filepath.Join(l.Root, iconsDir)
}

// Icon returns the cached-icon path derived from a source icon file name.
func (l Layout) Icon(file string) string {
	base := file[:len(file)-len(filepath.Ext(file))]
	return filepath.Join(l.Icons(), base+".png")
}

// EnsureTree creates the full directory tree, tolerating its presence.
func (l Layout) EnsureTree() error {
	for _, dir := range []string{l.Root, l.Pids(), l.Screenshots(), l.Icons()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Reset removes the session root and recreates an empty tree.
func (l Layout) Reset() error {
	if err := os.RemoveAll(l.Root); err != nil {
		return fmt.Errorf("clear %s: %w", l.Root, err)
	}
	return l.EnsureTree()
}
