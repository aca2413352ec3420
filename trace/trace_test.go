package trace

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tt := []struct {
		desc        string
		context     string
		destination string
		invalid     bool
		expected    any
	}{
		{desc: "file", context: Sync, destination: "file:sync.csv", expected: &FileTracer{}},
		{desc: "udp", context: Pixel, destination: "udp:localhost:9999", expected: &UDPTracer{}},
		{desc: "unknown context", context: "spectrum", destination: "file:x.csv", invalid: true},
		{desc: "missing target", context: Sync, destination: "file:", invalid: true},
		{desc: "missing protocol", context: Sync, destination: "sync.csv", invalid: true},
		{desc: "unknown protocol", context: Sync, destination: "tcp:localhost:9999", invalid: true},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			tracer, err := New(tc.context, tc.destination)
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.expected, tracer)
			assert.Equal(t, tc.context, tracer.Context())
		})
	}
}

func TestFileTracer_OnlyTracesItsContext(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "trace.csv")
	tracer := NewFileTracer(Sync, filename)

	tracer.Trace(Sync, "before start\n")
	require.NoError(t, tracer.Start())
	tracer.Trace(Sync, "%d;%d\n", 1, 2)
	tracer.Trace(Pixel, "%d;%d\n", 3, 4)
	tracer.Trace(Sync, "%d;%d\n", 5, 6)
	require.NoError(t, tracer.Stop())
	tracer.Trace(Sync, "after stop\n")

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "1;2\n5;6\n", string(content))
}

func TestUDPTracer(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer listener.Close()

	tracer, err := NewUDPTracer(VIS, listener.LocalAddr().String())
	require.NoError(t, err)
	require.NoError(t, tracer.Start())
	defer tracer.Stop()

	tracer.Trace(VIS, "%d;%.1f;%d\n", 0, 1100.0, 1)

	buffer := make([]byte, 64)
	listener.SetReadDeadline(time.Now().Add(time.Second))
	n, err := listener.Read(buffer)
	require.NoError(t, err)
	assert.Equal(t, "0;1100.0;1\n", string(buffer[:n]))
}
