package draft

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/parchment-shell/parchment/internal/logging"
	"github.com/parchment-shell/parchment/internal/paths"
	"github.com/parchment-shell/parchment/internal/proc"
)

// writeTarget creates a fake launch target and returns its path.
func writeTarget(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestParseDescriptor(t *testing.T) {
	dir := t.TempDir()
	call := writeTarget(t, dir, "koreader")

	d, err := Parse(`# reader app
name=KOReader
desc=An ebook reader
call=`+call+`
term=yes
imgFile=koreader

`, "/opt/etc/draft")
	require.NoError(t, err)

	assert.Equal(t, "KOReader", d.Name)
	assert.Equal(t, "An ebook reader", d.Description)
	assert.Equal(t, call, d.Call)
	assert.Equal(t, "yes", d.Term)
	assert.Equal(t, "/opt/etc/draft/icons/koreader.png", d.IconSource)
	assert.Equal(t, "koreader", d.FileName())
	assert.Equal(t, "koreader.png", d.IconFileName())
}

func TestParseRejectsMissingRequiredKeys(t *testing.T) {
	dir := t.TempDir()
	call := writeTarget(t, dir, "app")

	cases := map[string]string{
		"no name": "desc=x\ncall=" + call,
		"no desc": "name=x\ncall=" + call,
		"no call": "name=x\ndesc=x",
	}
	for label, content := range cases {
		_, err := Parse(content, dir)
		assert.Error(t, err, label)
	}
}

func TestParseRejectsMissingLaunchTarget(t *testing.T) {
	_, err := Parse("name=x\ndesc=x\ncall=/nonexistent/bin", t.TempDir())
	assert.Error(t, err)
}

func TestLoadDirSortsByName(t *testing.T) {
	dir := t.TempDir()
	call := writeTarget(t, dir, "app")

	write := func(file, name string) {
		content := "name=" + name + "\ndesc=d\ncall=" + call + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
	}
	write("b.draft", "Zen")
	write("a.draft", "Atlas")
	// Non-descriptor files are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	drafts, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Atlas", drafts[0].Name)
	assert.Equal(t, "Zen", drafts[1].Name)
}

func TestLoadDirRejectsBrokenDescriptor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.draft"), []byte("name=x\n"), 0o644))

	_, err := LoadDir(dir)
	assert.Error(t, err)
}

// testRegistry builds a registry over a canned process table.
func testRegistry(t *testing.T, table *proc.Table, signal func(int, unix.Signal) error) (*Registry, Descriptor, *proc.Markers) {
	t.Helper()

	layout := paths.Layout{Root: t.TempDir()}
	require.NoError(t, layout.EnsureTree())

	call := writeTarget(t, t.TempDir(), "reader")
	d := Descriptor{Name: "Reader", Description: "d", Call: call}

	snapshot := func() (*proc.Table, error) { return table, nil }
	markers := proc.NewMarkers(layout, logging.NewNop())
	supervisor := proc.NewSupervisorWith(snapshot, signal, logging.NewNop())
	registry := NewRegistry([]Descriptor{d}, markers, supervisor, snapshot, logging.NewNop())
	return registry, d, markers
}

func TestRunContinuesSuspendedInstance(t *testing.T) {
	table := proc.NewTable([]proc.Record{
		{PID: 200, ParentPID: 1, Command: "reader", State: proc.Traced},
	})

	var signals []unix.Signal
	registry, d, markers := testRegistry(t, table, func(pid int, sig unix.Signal) error {
		signals = append(signals, sig)
		return nil
	})
	require.NoError(t, markers.Write(d.Name, 200))

	kind, err := registry.Run(d)
	require.NoError(t, err)
	assert.Equal(t, Continue, kind)
	assert.Equal(t, []unix.Signal{unix.SIGCONT}, signals)
}

func TestRunLaunchesWhenNoSuspendedInstance(t *testing.T) {
	registry, d, markers := testRegistry(t, proc.NewTable(nil), func(int, unix.Signal) error {
		return nil
	})
	d.Call = "/bin/true"

	kind, err := registry.Run(d)
	require.NoError(t, err)
	assert.Equal(t, Launch, kind)

	all, err := markers.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, d.Name, all[0].Name)
	assert.Greater(t, all[0].PID, 0)
}

func TestSuspendRunningStopsAliveInstances(t *testing.T) {
	table := proc.NewTable([]proc.Record{
		{PID: 300, ParentPID: 1, Command: "reader", State: proc.Sleeping},
		{PID: 301, ParentPID: 300, Command: "worker", State: proc.Running},
	})

	var stopped []int
	registry, d, markers := testRegistry(t, table, func(pid int, sig unix.Signal) error {
		if sig == unix.SIGSTOP {
			stopped = append(stopped, pid)
		}
		return nil
	})
	require.NoError(t, markers.Write(d.Name, 300))

	suspended, err := registry.SuspendRunning()
	require.NoError(t, err)
	require.Len(t, suspended, 1)
	assert.Equal(t, d.Name, suspended[0].Name)
	assert.Equal(t, []int{300, 301}, stopped, "parent stopped before child")
}

func TestLiveIgnoresForeignMarkers(t *testing.T) {
	table := proc.NewTable([]proc.Record{
		{PID: 400, ParentPID: 1, Command: "xochitl", State: proc.Sleeping},
	})
	registry, _, markers := testRegistry(t, table, func(int, unix.Signal) error { return nil })
	require.NoError(t, markers.Write("xochitl", 400))

	instances, err := registry.Live()
	require.NoError(t, err)
	assert.Empty(t, instances, "launcher marker has no draft")
}

func TestIconRoundTrip(t *testing.T) {
	layout := paths.Layout{Root: t.TempDir()}
	require.NoError(t, layout.EnsureTree())

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "reader-src.png")
	require.NoError(t, imaging.Save(imaging.New(300, 200, color.NRGBA{}), src))

	call := writeTarget(t, srcDir, "reader")
	d := Descriptor{Name: "Reader", Description: "d", Call: call, IconSource: src}

	icon, err := PrepareIcon(layout, d, 156)
	require.NoError(t, err)
	assert.LessOrEqual(t, icon.Bounds().Dx(), 156)
	assert.LessOrEqual(t, icon.Bounds().Dy(), 156)

	// The cache entry is named from the icon source, not the launch target.
	assert.FileExists(t, layout.Icon("reader-src.png"))
	assert.NoFileExists(t, layout.Icon(d.FileName()))

	// Second preparation short-circuits on the cache.
	_, err = PrepareIcon(layout, d, 156)
	assert.ErrorIs(t, err, ErrIconCached)

	cached, ok := CachedIcon(layout, d)
	require.True(t, ok)
	assert.Equal(t, icon.Bounds(), cached.Bounds())
}

func TestPrepareIconWithoutSource(t *testing.T) {
	layout := paths.Layout{Root: t.TempDir()}
	require.NoError(t, layout.EnsureTree())

	_, err := PrepareIcon(layout, Descriptor{Name: "x", Call: "/bin/true"}, 64)
	assert.ErrorIs(t, err, ErrNoIcon)
}
