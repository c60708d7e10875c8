package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutPaths(t *testing.T) {
	l := Layout{Root: "/tmp/parchment"}

	assert.Equal(t, "/tmp/parchment/processes/koreader.pid", l.Pid("koreader"))
	assert.Equal(t, "/tmp/parchment/screenshots/panel", l.Screenshot("panel"))
	assert.Equal(t, "/tmp/parchment/icons/koreader.png", l.Icon("koreader.svg"))
	assert.Equal(t, "/tmp/parchment/icons/plain.png", l.Icon("plain"))
}

func TestEnsureAndReset(t *testing.T) {
	l := Layout{Root: filepath.Join(t.TempDir(), "session")}
	require.NoError(t, l.EnsureTree())
	require.NoError(t, l.EnsureTree(), "EnsureTree is idempotent")

	marker := l.Pid("app")
	require.NoError(t, os.WriteFile(marker, []byte("123"), 0o644))

	require.NoError(t, l.Reset())
	_, err := os.Stat(marker)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(l.Icons())
	assert.NoError(t, err)
}
