// Package proc implements process-table discovery and the recursive
// lifecycle supervisor.
package proc

import (
	"fmt"
	"strings"

	"github.com/prometheus/procfs"
)

// State groups kernel run-states into the classes that gate
// relaunch-vs-resume decisions.
type State uint8

const (
	Running State = iota
	Sleeping
	WaitingIO
	Zombie
	Stopped
	Traced
	Other
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Sleeping:
		return "sleeping"
	case WaitingIO:
		return "waiting-io"
	case Zombie:
		return "zombie"
	case Stopped:
		return "stopped"
	case Traced:
		return "traced"
	}
	return "other"
}

func parseState(raw string) State {
	switch raw {
	case "R":
		return Running
	case "S":
		return Sleeping
	case "D":
		return WaitingIO
	case "Z":
		return Zombie
	case "T":
		return Stopped
	case "t":
		return Traced
	}
	return Other
}

// Record is one process-table row.
type Record struct {
	PID       int
	ParentPID int
	Session   int
	// Command is the executable's file name as the kernel records it.
	Command string
	// Cmdline is the full invocation, space-joined.
	Cmdline string
	State   State
}

// Alive reports whether the process is scheduled or schedulable.
func (r Record) Alive() bool {
	switch r.State {
	case Running, Sleeping, WaitingIO:
		return true
	}
	return false
}

// Suspended reports whether the process sits under a stop signal.
func (r Record) Suspended() bool {
	return r.State == Stopped || r.State == Traced
}

// Table is one point-in-time process-table scan.
type Table struct {
	records []Record
	byPID   map[int]Record
	// children indexes each parent's direct children, built once per
	// scan since the kernel keeps no child index.
	children map[int][]Record
}

// Snapshot scans the process table. Rows that vanish mid-scan are
// skipped, not errors.
func Snapshot() (*Table, error) {
	procs, err := procfs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("scan process table: %w", err)
	}

	table := &Table{
		byPID:    make(map[int]Record, len(procs)),
		children: make(map[int][]Record),
	}
	for _, p := range procs {
		stat, err := p.Stat()
		if err != nil {
			continue
		}
		cmdline, err := p.CmdLine()
		if err != nil {
			cmdline = nil
		}
		record := Record{
			PID:       p.PID,
			ParentPID: stat.PPID,
			Session:   stat.Session,
			Command:   stat.Comm,
			Cmdline:   strings.Join(cmdline, " "),
			State:     parseState(stat.State),
		}
		table.add(record)
	}
	return table, nil
}

// NewTable builds a table from explicit records, for callers that
// already hold a scan.
func NewTable(records []Record) *Table {
	table := &Table{
		byPID:    make(map[int]Record, len(records)),
		children: make(map[int][]Record),
	}
	for _, r := range records {
		table.add(r)
	}
	return table
}

func (t *Table) add(r Record) {
	t.records = append(t.records, r)
	t.byPID[r.PID] = r
	t.children[r.ParentPID] = append(t.children[r.ParentPID], r)
}

// Lookup returns the record for pid.
func (t *Table) Lookup(pid int) (Record, bool) {
	r, ok := t.byPID[pid]
	return r, ok
}

// Children returns pid's direct children in scan order.
func (t *Table) Children(pid int) []Record {
	return t.children[pid]
}

// All returns every record in scan order.
func (t *Table) All() []Record {
	return t.records
}

// FindCmdline returns the first process whose full command line matches.
func (t *Table) FindCmdline(cmdline string) (Record, bool) {
	for _, r := range t.records {
		if r.Cmdline == cmdline {
			return r, true
		}
	}
	return Record{}, false
}

// FindCommand returns every process whose command name matches.
func (t *Table) FindCommand(command string) []Record {
	var out []Record
	for _, r := range t.records {
		if r.Command == command {
			out = append(out, r)
		}
	}
	return out
}
