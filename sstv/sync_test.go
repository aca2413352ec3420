package sstv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignSync(t *testing.T) {
	const sampleRate = 22050
	mode, err := Lookup(44)
	require.NoError(t, err)

	s := newSynth(sampleRate)
	s.tone(1900, 0.020)
	syncStart := len(s.samples)
	s.tone(1200, mode.SyncPulse)
	syncEnd := len(s.samples)
	s.tone(1500, mode.SyncPorch)
	s.tone(1900, 0.050)
	decoder := NewDecoder(s.samples, 1, sampleRate)
	tolerance := 0.0015 * sampleRate

	tt := []struct {
		desc     string
		from     int
		edge     SyncEdge
		expected int
	}{
		{"start of sync from its beginning", syncStart, SyncStart, syncStart},
		{"end of sync from its beginning", syncStart, SyncEnd, syncEnd},
		{"end of sync from slightly before", syncStart - 22, SyncEnd, syncEnd},
		{"start of sync from slightly after", syncStart + 22, SyncStart, syncStart},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, ok := decoder.AlignSync(mode, tc.from, tc.edge)

			assert.True(t, ok)
			assert.InDelta(t, tc.expected, actual, tolerance)
		})
	}
}

func TestAlignSync_EndOfSignal(t *testing.T) {
	mode, err := Lookup(44)
	require.NoError(t, err)
	s := newSynth(22050)
	s.tone(1200, 0.1)
	decoder := NewDecoder(s.samples, 1, 22050)
	window := decoder.samplesOf(mode.SyncPulse * DefaultSyncWindowRatio)

	_, ok := decoder.AlignSync(mode, len(s.samples)-window/2, SyncEnd)
	assert.False(t, ok)

	// without a rising edge, the last possible window is taken
	actual, ok := decoder.AlignSync(mode, 0, SyncEnd)
	assert.True(t, ok)
	assert.Equal(t, len(s.samples)-window-1+window/2, actual)
}
