//go:build linux

package input

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvdevCodecRoundTrip(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	writer := &Evdev{file: w}
	reader := &Evdev{file: r, buf: make([]byte, rawEventSize*64)}

	sent := []RawEvent{
		{Type: evAbs, Code: absMTTrackingID, Value: -1},
		{Type: evAbs, Code: absMTPositionX, Value: 300},
		{Type: evSyn, Code: synReport, Value: 0},
	}
	require.NoError(t, writer.Write(sent))

	got, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, sent, got, "type, code, and signed value survive the kernel record layout")
}
