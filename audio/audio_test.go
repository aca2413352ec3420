package audio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youpy/go-wav"
)

var testFrames = [][2]int{{0, 0}, {16384, -16384}, {-32768, 32767}, {100, 200}}

func writeTestWAV(t *testing.T, w io.Writer) {
	t.Helper()
	samples := make([]wav.Sample, len(testFrames))
	for i, frame := range testFrames {
		samples[i] = wav.Sample{Values: frame}
	}
	writer := wav.NewWriter(w, uint32(len(samples)), 2, 8000, 16)
	require.NoError(t, writer.WriteSamples(samples))
}

func assertTestPCM(t *testing.T, pcm *PCM) {
	t.Helper()
	assert.Equal(t, 2, pcm.Channels)
	assert.Equal(t, 8000, pcm.SampleRate)
	assert.Equal(t, len(testFrames), pcm.Frames())
	assert.Equal(t, 500*time.Microsecond, pcm.Duration())
	expected := []float64{0, 0, 0.5, -0.5, -1, 32767.0 / 32768.0, 100.0 / 32768.0, 200.0 / 32768.0}
	require.Len(t, pcm.Samples, len(expected))
	for i := range expected {
		assert.InDelta(t, expected[i], pcm.Samples[i], 1e-9, "sample %d", i)
	}
}

func TestDecode(t *testing.T) {
	tt := []struct {
		name     string
		compress func(t *testing.T, w io.Writer) io.WriteCloser
	}{
		{
			name: "recording.wav",
			compress: func(_ *testing.T, w io.Writer) io.WriteCloser {
				return nopWriteCloser{w}
			},
		},
		{
			name: "recording.WAV.gz",
			compress: func(_ *testing.T, w io.Writer) io.WriteCloser {
				return gzip.NewWriter(w)
			},
		},
		{
			name: "recording.wav.zst",
			compress: func(t *testing.T, w io.Writer) io.WriteCloser {
				encoder, err := zstd.NewWriter(w)
				require.NoError(t, err)
				return encoder
			},
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			buffer := new(bytes.Buffer)
			out := tc.compress(t, buffer)
			writeTestWAV(t, out)
			require.NoError(t, out.Close())

			pcm, err := Decode(buffer, tc.name)

			require.NoError(t, err)
			assertTestPCM(t, pcm)
		})
	}
}

func TestDecode_UnsupportedContainer(t *testing.T) {
	_, err := Decode(bytes.NewReader(nil), "recording.mp3")

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("this is not a RIFF file")), "recording.wav")

	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "recording.wav")
	f, err := os.Create(filename)
	require.NoError(t, err)
	writeTestWAV(t, f)
	require.NoError(t, f.Close())

	pcm, err := Open(filename)

	require.NoError(t, err)
	assertTestPCM(t, pcm)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.wav"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormats(t *testing.T) {
	assert.ElementsMatch(t, []string{".wav", ".wav.gz", ".wav.zst"}, Formats())
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
