// Package audio reads recorded audio files into memory.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/youpy/go-wav"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// PCM holds a complete recording. The samples are interleaved by channel and normalized
// to the range [-1, 1).
type PCM struct {
	Samples    []float64
	Channels   int
	SampleRate int
}

// Frames returns the number of samples per channel.
func (p *PCM) Frames() int {
	if p.Channels < 1 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

func (p *PCM) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(p.Frames()) / float64(p.SampleRate) * float64(time.Second))
}

type decompressor func(io.Reader) (io.ReadCloser, error)

type container struct {
	suffix     string
	decompress decompressor
}

var containers = []container{
	{".wav.gz", gunzip},
	{".wav.zst", unzstd},
	{".wav", plain},
}

func plain(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func gunzip(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func unzstd(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

// Formats returns the supported file name suffixes.
func Formats() []string {
	result := make([]string, 0, len(containers))
	for _, c := range containers {
		result = append(result, c.suffix)
	}
	return result
}

func containerOf(name string) (container, bool) {
	lower := strings.ToLower(name)
	for _, c := range containers {
		if strings.HasSuffix(lower, c.suffix) {
			return c, true
		}
	}
	return container{}, false
}

// Open reads the given audio file.
func Open(filename string) (*PCM, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, filename)
}

// Decode reads a recording from the given reader. The name selects the container format
// by its suffix.
func Decode(r io.Reader, name string) (*PCM, error) {
	c, ok := containerOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	in, err := c.decompress(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", name, err)
	}
	defer in.Close()

	// the WAV reader needs random access
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}

	result, err := decodeWAV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", name, err)
	}
	return result, nil
}

func decodeWAV(r *bytes.Reader) (*PCM, error) {
	reader := wav.NewReader(r)
	format, err := reader.Format()
	if err != nil {
		return nil, err
	}
	if format.AudioFormat != wav.AudioFormatPCM {
		return nil, fmt.Errorf("%w: audio format %d, only PCM is supported", ErrUnsupportedFormat, format.AudioFormat)
	}
	if format.NumChannels < 1 || format.NumChannels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, format.NumChannels)
	}
	if format.SampleRate == 0 {
		return nil, fmt.Errorf("%w: no sample rate", ErrUnsupportedFormat)
	}

	var offset, scale float64
	switch format.BitsPerSample {
	case 8:
		offset = 128
		scale = 128
	case 16, 24, 32:
		scale = float64(int64(1) << (format.BitsPerSample - 1))
	default:
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, format.BitsPerSample)
	}

	channels := int(format.NumChannels)
	result := &PCM{
		Channels:   channels,
		SampleRate: int(format.SampleRate),
	}
	for {
		samples, err := reader.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, sample := range samples {
			for ch := 0; ch < channels; ch++ {
				value := float64(reader.IntValue(sample, uint(ch)))
				result.Samples = append(result.Samples, (value-offset)/scale)
			}
		}
	}
	return result, nil
}
