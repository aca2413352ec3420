package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Estimator finds the dominant frequency in short slices of samples. It keeps one FFT plan
// with its work buffers per slice length, so repeated estimates over slices of the same
// length do not allocate. An Estimator is not safe for concurrent use.
type Estimator struct {
	sampleRate float64
	plans      map[int]*plan
}

type plan struct {
	fft        *fourier.FFT
	window     []float64
	windowed   []float64
	coeffs     []complex128
	magnitudes []float64
}

func NewEstimator(sampleRate int) *Estimator {
	return &Estimator{
		sampleRate: float64(sampleRate),
		plans:      make(map[int]*plan),
	}
}

func (e *Estimator) SampleRate() int {
	return int(e.sampleRate)
}

func (e *Estimator) plan(n int) *plan {
	p, ok := e.plans[n]
	if ok {
		return p
	}
	p = &plan{
		fft:        fourier.NewFFT(n),
		window:     window.Hann(n),
		windowed:   make([]float64, n),
		coeffs:     make([]complex128, n/2+1),
		magnitudes: make([]float64, n/2+1),
	}
	e.plans[n] = p
	return p
}

// PeakFrequency returns the dominant frequency in Hz of the given samples. The samples are
// Hann windowed, the peak of the magnitude spectrum is refined with BarycentricPeak.
// A silent slice yields 0.
func (e *Estimator) PeakFrequency(samples []float64) float64 {
	n := len(samples)
	if n < 2 {
		return 0
	}
	p := e.plan(n)
	for i, sample := range samples {
		p.windowed[i] = sample * p.window[i]
	}
	p.coeffs = p.fft.Coefficients(p.coeffs, p.windowed)

	peakBin := 0
	for i, c := range p.coeffs {
		magnitude := cmplx.Abs(c)
		p.magnitudes[i] = magnitude
		if magnitude > p.magnitudes[peakBin] {
			peakBin = i
		}
	}

	return BarycentricPeak(p.magnitudes, peakBin) * e.BinSize(n)
}

// BinSize returns the width of one FFT bin in Hz for slices of n samples.
func (e *Estimator) BinSize(n int) float64 {
	return e.sampleRate / float64(n)
}

// BarycentricPeak refines the position of the peak at the given bin index using the
// energy-weighted position among the peak and its two neighbours. Neighbours beyond the
// edges saturate to the first/last bin. If all three bins are zero, the result is 0.
func BarycentricPeak(bins []float64, index int) float64 {
	left := bins[max(0, index-1)]
	center := bins[index]
	right := bins[min(len(bins)-1, index+1)]

	sum := left + center + right
	if sum == 0 {
		return 0
	}
	return float64(index) + (right-left)/sum
}
