package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/parchment-shell/parchment/internal/logging"
	"github.com/parchment-shell/parchment/internal/paths"
)

// Marker is one on-disk pid record binding an identity to a process.
type Marker struct {
	Name string
	PID  int
}

// Markers reads and reconciles the pid marker directory.
type Markers struct {
	layout paths.Layout
	log    *logging.Logger
}

// NewMarkers builds a marker store over the session layout.
func NewMarkers(layout paths.Layout, log *logging.Logger) *Markers {
	return &Markers{layout: layout, log: log.Named("markers")}
}

// Write records pid under name, as decimal text.
func (m *Markers) Write(name string, pid int) error {
	path := m.layout.Pid(name)
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("write pid marker: %w", err)
	}
	return nil
}

// Remove deletes name's marker. A missing marker is not an error.
func (m *Markers) Remove(name string) error {
	err := os.Remove(m.layout.Pid(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid marker: %w", err)
	}
	return nil
}

// All reads every marker. Files that fail to parse are skipped with a
// warning; they will be reconciled away on the next query.
func (m *Markers) All() ([]Marker, error) {
	entries, err := os.ReadDir(m.layout.Pids())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pid markers: %w", err)
	}

	var markers []Marker
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != paths.MarkerExt {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), paths.MarkerExt)
		data, err := os.ReadFile(filepath.Join(m.layout.Pids(), entry.Name()))
		if err != nil {
			m.log.Warn("unreadable pid marker", zap.String("name", name), zap.Error(err))
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			m.log.Warn("malformed pid marker", zap.String("name", name), zap.Error(err))
			continue
		}
		markers = append(markers, Marker{Name: name, PID: pid})
	}
	return markers, nil
}

// Reconcile returns the markers whose pid is still present in the table,
// deleting stale ones on the way. A marker referencing a dead pid is
// reported as no match.
func (m *Markers) Reconcile(table *Table) ([]Marker, error) {
	markers, err := m.All()
	if err != nil {
		return nil, err
	}

	live := markers[:0]
	for _, marker := range markers {
		if _, ok := table.Lookup(marker.PID); ok {
			live = append(live, marker)
			continue
		}
		m.log.Warn("deleting stale pid marker",
			zap.String("name", marker.Name),
			zap.Int("pid", marker.PID))
		if err := m.Remove(marker.Name); err != nil {
			m.log.Warn("stale marker removal failed", zap.Error(err))
		}
	}
	return live, nil
}
