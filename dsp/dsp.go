// Package dsp provides the signal processing building blocks of the SSTV decoder.
package dsp

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Downmix averages the interleaved channels of the given samples into one mono signal.
// A trailing incomplete frame is dropped.
func Downmix[T Number](interleaved []T, channels int) []float64 {
	if channels < 1 {
		channels = 1
	}
	frames := len(interleaved) / channels
	result := make([]float64, frames)
	for i := range result {
		var sum float64
		for _, sample := range interleaved[i*channels : (i+1)*channels] {
			sum += float64(sample)
		}
		result[i] = sum / float64(channels)
	}
	return result
}

// Goertzel filter to measure the energy of a specific pitch frequency.
// See also:
// * https://www.embedded.com/the-goertzel-algorithm/
// * https://www.embedded.com/single-tone-detection-with-the-goertzel-algorithm/
type Goertzel struct {
	pitch      float64
	sampleRate int
	blocksize  int
	coeff      float64
}

// NewGoertzel returns a new Goertzel filter for the given pitch that evaluates blocks of
// blocksize samples.
func NewGoertzel(pitch float64, sampleRate int, blocksize int) *Goertzel {
	omega := 2 * math.Pi * pitch / float64(sampleRate)
	return &Goertzel{
		pitch:      pitch,
		sampleRate: sampleRate,
		blocksize:  blocksize,
		coeff:      2 * math.Cos(omega),
	}
}

// Pitch of this filter in Hz.
func (f *Goertzel) Pitch() float64 {
	return f.pitch
}

// Blocksize used by Magnitude.
func (f *Goertzel) Blocksize() int {
	return f.blocksize
}

// Magnitude returns the magnitude of the pitch frequency in the first blocksize samples
// of the given block, normalized to the number of samples taken.
func (f *Goertzel) Magnitude(block []float64) float64 {
	if len(block) > f.blocksize {
		block = block[:f.blocksize]
	}
	if len(block) == 0 {
		return 0
	}
	var q0, q1, q2 float64
	for _, sample := range block {
		q0 = f.coeff*q1 - q2 + sample
		q2 = q1
		q1 = q0
	}
	power := (q1 * q1) + (q2 * q2) - q1*q2*f.coeff
	if power < 0 {
		power = 0
	}
	return math.Sqrt(power) / float64(len(block))
}
