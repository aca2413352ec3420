package sstv

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextReporter(t *testing.T) {
	buffer := new(bytes.Buffer)
	reporter := NewTextReporter(buffer)
	mode, err := Lookup(44)
	require.NoError(t, err)

	reporter.HeaderSearchProgress(time.Second)
	reporter.HeaderFound(1500 * time.Millisecond)
	reporter.ModeDetected(mode)
	reporter.LineDecoded(0, mode.Lines)
	reporter.LineDecoded(mode.Lines-1, mode.Lines)
	reporter.CallsignDecoded("DL1ABC", true)
	reporter.CallsignDecoded("HELLO", false)
	reporter.SignalTruncated(9, mode.Lines)
	reporter.DecodeFailed(ErrNoSignal)

	expected := []string{
		"[desstv] INFO  | Searching for calibration header... Found at 1.50s",
		"[desstv] INFO  | Detected SSTV mode [Martin 1] (VIS 44, 320x256)",
		"[desstv] INFO  | Decoding image... Done! (81,920 pixels)",
		"[desstv] INFO  | FSK ID: DL1ABC",
		`[desstv] WARN  | FSK ID "HELLO" is not a valid callsign`,
		"[desstv] WARN  | Reached end of audio whilst decoding line 10 of 256, the image will be incomplete",
		"[desstv] ERROR | no SSTV signal found",
		"",
	}
	assert.Equal(t, expected, strings.Split(buffer.String(), "\n"))
}

func TestTextReporter_Interactive(t *testing.T) {
	buffer := new(bytes.Buffer)
	reporter := &TextReporter{out: buffer, columns: 80}

	reporter.HeaderSearchProgress(2500 * time.Millisecond)
	reporter.LineDecoded(127, 256)

	output := buffer.String()
	assert.Contains(t, output, "Searching for calibration header... 2.5s\r")
	assert.Contains(t, output, "Decoding image... [")
	assert.Contains(t, output, "  49%\r")
	for _, line := range strings.Split(output, "\r") {
		assert.LessOrEqual(t, len(line), 80)
	}
}

func TestTextReporter_ProgressBar(t *testing.T) {
	tt := []struct {
		desc     string
		columns  int
		progress int
		expected string
	}{
		{"narrow terminal", 40, 10, "Decoding...  100%"},
		{"empty", 50, 0, "Decoding... [.............]   0%"},
		{"half", 50, 5, "Decoding... [#######......]  50%"},
		{"full", 50, 10, "Decoding... [#############] 100%"},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			reporter := &TextReporter{columns: tc.columns}
			assert.Equal(t, tc.expected, reporter.progressBar("Decoding...", tc.progress, 10))
		})
	}
}
