package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/desstv/sstv"
)

var _ sstv.Observer = (*Metrics)(nil)

func TestMetrics_Observe(t *testing.T) {
	m := New()
	mode, ok := sstv.LookupName("M1")
	require.True(t, ok)

	m.HeaderFound(1500 * time.Millisecond)
	m.ModeDetected(mode)
	for line := 0; line < 3; line++ {
		m.LineDecoded(line, 3)
	}
	m.CallsignDecoded("DL1ABC", true)
	m.CallsignDecoded("CQ", false)
	m.ModeDetected(mode)
	m.LineDecoded(0, 256)
	m.SignalTruncated(1, 256)
	m.DecodeFailed(sstv.ErrNoSignal)
	m.DecodeFailed(fmt.Errorf("wrapped: %w", sstv.ErrNoSignal))
	m.DecodeFailed(&sstv.UnsupportedModeError{VIS: 1})

	snapshot, err := m.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		`desstv_decodes_total{mode="M1",result="complete"}`:       1,
		`desstv_decodes_total{mode="M1",result="truncated"}`:      1,
		`desstv_lines_decoded_total{mode="M1"}`:                   4,
		`desstv_fsk_ids_total{valid="true"}`:                      1,
		`desstv_fsk_ids_total{valid="false"}`:                     1,
		`desstv_decode_failures_total{reason="no_signal"}`:        2,
		`desstv_decode_failures_total{reason="unsupported_mode"}`: 1,
		`desstv_header_position_seconds`:                          1.5,
	}, snapshot)
}

func TestFailureReason(t *testing.T) {
	tt := []struct {
		err      error
		expected string
	}{
		{sstv.ErrNoSignal, "no_signal"},
		{sstv.ErrInvalidParity, "invalid_parity"},
		{&sstv.UnsupportedModeError{VIS: 3}, "unsupported_mode"},
		{fmt.Errorf("%w: VIS code incomplete", sstv.ErrNoImageData), "no_image_data"},
		{sstv.ErrUnsupportedLayout, "unsupported_layout"},
		{context.Canceled, "canceled"},
		{errors.New("something else"), "other"},
	}
	for _, tc := range tt {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FailureReason(tc.err))
		})
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.DecodeFailed(sstv.ErrNoSignal)
	filename := filepath.Join(t.TempDir(), "desstv.prom")

	require.NoError(t, m.WriteTextfile(filename))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# TYPE desstv_decode_failures_total counter")
	assert.Contains(t, string(content), `desstv_decode_failures_total{reason="no_signal"} 1`)
}
