package proc

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/parchment-shell/parchment/internal/logging"
)

// SnapshotFunc produces a fresh process-table scan.
type SnapshotFunc func() (*Table, error)

// SignalFunc delivers one signal to one pid.
type SignalFunc func(pid int, sig unix.Signal) error

// Supervisor walks process trees and propagates lifecycle signals. Every
// public call takes exactly one fresh snapshot; recursion within a call
// reuses it. Calls are best-effort and non-transactional: a process that
// exited between scan and signal is tolerated.
type Supervisor struct {
	snapshot SnapshotFunc
	signal   SignalFunc
	log      *logging.Logger
}

// NewSupervisor builds a supervisor over the live process table.
func NewSupervisor(log *logging.Logger) *Supervisor {
	return &Supervisor{
		snapshot: Snapshot,
		signal: func(pid int, sig unix.Signal) error {
			return unix.Kill(pid, sig)
		},
		log: log.Named("supervisor"),
	}
}

// NewSupervisorWith builds a supervisor over injected scan and signal
// functions, for tests.
func NewSupervisorWith(snapshot SnapshotFunc, signal SignalFunc, log *logging.Logger) *Supervisor {
	return &Supervisor{snapshot: snapshot, signal: signal, log: log}
}

// SuspendTree stops root, then recurses into its children. Parent-first
// ordering prevents a still-running parent from forking children that
// escape suspension.
func (s *Supervisor) SuspendTree(root int) error {
	table, err := s.snapshot()
	if err != nil {
		return err
	}
	s.suspend(table, root)
	return nil
}

func (s *Supervisor) suspend(table *Table, pid int) {
	s.deliver(table, pid, unix.SIGSTOP, "suspending")
	for _, child := range table.Children(pid) {
		s.suspend(table, child.PID)
	}
}

// ResumeTree recurses into children first, then continues root.
// Children-first ordering prevents the parent from running while a child
// is still paused and re-forking invisibly.
func (s *Supervisor) ResumeTree(root int) error {
	table, err := s.snapshot()
	if err != nil {
		return err
	}
	s.resume(table, root)
	return nil
}

func (s *Supervisor) resume(table *Table, pid int) {
	for _, child := range table.Children(pid) {
		s.resume(table, child.PID)
	}
	s.deliver(table, pid, unix.SIGCONT, "resuming")
}

// TerminateTree kills every descendant before the root, so children are
// never orphaned ahead of a rescan.
func (s *Supervisor) TerminateTree(root int) error {
	table, err := s.snapshot()
	if err != nil {
		return err
	}
	s.terminate(table, root)
	return nil
}

func (s *Supervisor) terminate(table *Table, pid int) {
	for _, child := range table.Children(pid) {
		s.terminate(table, child.PID)
	}
	s.deliver(table, pid, unix.SIGKILL, "terminating")
}

func (s *Supervisor) deliver(table *Table, pid int, sig unix.Signal, verb string) {
	command := ""
	if record, ok := table.Lookup(pid); ok {
		command = record.Command
	}
	s.log.Info(verb+" process", zap.Int("pid", pid), zap.String("command", command))

	if err := s.signal(pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		s.log.Warn("signal delivery failed",
			zap.Int("pid", pid),
			zap.String("signal", sig.String()),
			zap.Error(err))
	}
}
