package draft

import (
	"fmt"
	"image"
	"os/exec"
	"sync"

	"go.uber.org/zap"

	"github.com/parchment-shell/parchment/internal/logging"
	"github.com/parchment-shell/parchment/internal/proc"
)

// RunKind reports how Run satisfied a request.
type RunKind uint8

const (
	// Continue resumed a suspended instance.
	Continue RunKind = iota
	// Launch spawned a fresh process.
	Launch
)

// String implements fmt.Stringer for log output.
func (k RunKind) String() string {
	if k == Continue {
		return "continue"
	}
	return "launch"
}

// Instance is one draft bound to a live process.
type Instance struct {
	Draft   Descriptor
	Process proc.Record
}

// Registry owns the loaded drafts, their in-memory icons, and the
// draft-to-process binding. Everything except the icon cache is owned by
// the orchestrator; icons are mutated under a lock because a concurrent
// best-effort loader fills them while the render thread reads.
type Registry struct {
	drafts     []Descriptor
	byName     map[string]Descriptor
	markers    *proc.Markers
	supervisor *proc.Supervisor
	snapshot   proc.SnapshotFunc
	log        *logging.Logger

	mu    sync.Mutex
	icons map[string]image.Image
}

// NewRegistry builds a registry over parsed descriptors.
func NewRegistry(drafts []Descriptor, markers *proc.Markers, supervisor *proc.Supervisor, snapshot proc.SnapshotFunc, log *logging.Logger) *Registry {
	byName := make(map[string]Descriptor, len(drafts))
	for _, d := range drafts {
		byName[d.Name] = d
	}
	return &Registry{
		drafts:     drafts,
		byName:     byName,
		markers:    markers,
		supervisor: supervisor,
		snapshot:   snapshot,
		log:        log.Named("drafts"),
		icons:      make(map[string]image.Image),
	}
}

// Drafts returns every descriptor in name order.
func (r *Registry) Drafts() []Descriptor {
	return r.drafts
}

// Icon returns the in-memory icon for a draft name, if loaded.
func (r *Registry) Icon(name string) (image.Image, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	icon, ok := r.icons[name]
	return icon, ok
}

// SetIcon stores a loaded icon.
func (r *Registry) SetIcon(name string, icon image.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icons[name] = icon
}

// Live reconciles pid markers against a fresh process-table scan and
// returns each surviving marker's draft bound to its process. Markers
// without a matching draft are ignored; that covers the system
// launcher's reserved identity.
func (r *Registry) Live() ([]Instance, error) {
	table, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	live, err := r.markers.Reconcile(table)
	if err != nil {
		return nil, err
	}

	var instances []Instance
	for _, marker := range live {
		d, ok := r.byName[marker.Name]
		if !ok {
			continue
		}
		record, ok := table.Lookup(marker.PID)
		if !ok {
			continue
		}
		instances = append(instances, Instance{Draft: d, Process: record})
	}
	return instances, nil
}

// IsLive reports whether the draft currently has a bound process,
// gating the close button.
func (r *Registry) IsLive(d Descriptor) bool {
	instances, err := r.Live()
	if err != nil {
		r.log.Warn("live query failed", zap.Error(err))
		return false
	}
	for _, inst := range instances {
		if inst.Draft.FileName() == d.FileName() {
			return true
		}
	}
	return false
}

// SuspendRunning stops every draft instance that is still scheduled and
// returns their descriptors, most recently bound first. More than one
// running instance gets a non-fatal warning.
func (r *Registry) SuspendRunning() ([]Descriptor, error) {
	instances, err := r.Live()
	if err != nil {
		return nil, err
	}

	var running []Instance
	for _, inst := range instances {
		if inst.Process.Alive() {
			running = append(running, inst)
		}
	}
	if len(running) > 1 {
		r.log.Warn("more than one draft instance is running", zap.Int("count", len(running)))
	}

	var suspended []Descriptor
	for _, inst := range running {
		if err := r.supervisor.SuspendTree(inst.Process.PID); err != nil {
			r.log.Warn("suspend failed", zap.String("draft", inst.Draft.Name), zap.Error(err))
			continue
		}
		suspended = append(suspended, inst.Draft)
	}
	return suspended, nil
}

// Run resumes d's suspended instance if one exists, otherwise launches a
// fresh process and records its pid marker.
func (r *Registry) Run(d Descriptor) (RunKind, error) {
	instances, err := r.Live()
	if err != nil {
		return Launch, err
	}

	for _, inst := range instances {
		if inst.Draft.Name == d.Name && inst.Process.Suspended() {
			r.log.Info("continuing draft", zap.String("draft", d.Name), zap.Int("pid", inst.Process.PID))
			if err := r.supervisor.ResumeTree(inst.Process.PID); err != nil {
				return Continue, err
			}
			return Continue, nil
		}
	}

	r.log.Info("launching draft", zap.String("draft", d.Name), zap.String("call", d.Call))
	cmd := exec.Command(d.Call)
	if err := cmd.Start(); err != nil {
		return Launch, fmt.Errorf("launch draft %q: %w", d.Name, err)
	}
	if err := r.markers.Write(d.Name, cmd.Process.Pid); err != nil {
		return Launch, err
	}
	return Launch, nil
}

// Terminate kills d's bound process tree, if any, and drops its marker.
func (r *Registry) Terminate(d Descriptor) error {
	instances, err := r.Live()
	if err != nil {
		return err
	}
	for _, inst := range instances {
		if inst.Draft.FileName() != d.FileName() {
			continue
		}
		if err := r.supervisor.TerminateTree(inst.Process.PID); err != nil {
			return err
		}
		return r.markers.Remove(inst.Draft.Name)
	}
	return nil
}
