package sstv

import (
	"context"
	"math"

	"github.com/ftl/desstv/trace"
)

// The calibration header precedes every transmission:
//
//	time(ms) freq(Hz) meaning
//	300      1900     leader tone
//	10       1200     break
//	300      1900     leader tone
//	30       1200     VIS start bit
//
// followed by 7 data bits, one parity bit and the stop bit of 30 ms each.
const (
	leaderToneSize = 0.300
	breakSize      = 0.010
	visBitSize     = 0.030

	breakOffset        = leaderToneSize
	secondLeaderOffset = breakOffset + breakSize
	visStartOffset     = secondLeaderOffset + leaderToneSize

	// the VIS start bit is included in the header for convenience
	headerSize = visStartOffset + visBitSize

	leaderFrequency = 1900.0
	breakFrequency  = 1200.0

	searchWindowSize = 0.010
	searchStepSize   = 0.002
	// progress is reported every progressSteps search steps
	progressSteps = 256
)

// FindHeader searches the calibration header, beginning at the given sample offset. It
// returns the sample offset right after the VIS start bit, where the VIS data bits begin.
// ErrNoSignal is returned if the end of the signal is reached without finding a header.
func (d *Decoder) FindHeader(ctx context.Context, from int) (int, error) {
	window := d.samplesOf(searchWindowSize)
	breakStart := d.samplesOf(breakOffset)
	leader2Start := d.samplesOf(secondLeaderOffset)
	visStart := d.samplesOf(visStartOffset)
	step := max(1, d.samplesOf(searchStepSize))
	size := d.samplesOf(headerSize)
	traceHeader := d.tracer.Context() == trace.Header

	for current := max(0, from); current < len(d.samples)-size; current += step {
		if (current-from)%(step*progressSteps) == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			d.observer.HeaderSearchProgress(d.timeOf(current))
		}

		area := d.samples[current : current+size]
		leader1 := d.estimator.PeakFrequency(area[:window])
		found := d.isTone(leader1, leaderFrequency)
		var brk, leader2, vis float64
		if found {
			brk = d.estimator.PeakFrequency(area[breakStart : breakStart+window])
			found = d.isTone(brk, breakFrequency)
		}
		if found {
			leader2 = d.estimator.PeakFrequency(area[leader2Start : leader2Start+window])
			found = d.isTone(leader2, leaderFrequency)
		}
		if found {
			vis = d.estimator.PeakFrequency(area[visStart : visStart+window])
			found = d.isTone(vis, breakFrequency)
		}
		if traceHeader {
			d.tracer.Trace(trace.Header, "%d;%f;%f;%f;%f\n", current, leader1, brk, leader2, vis)
		}

		if found {
			return current + size, nil
		}
	}

	return 0, ErrNoSignal
}

func (d *Decoder) isTone(frequency float64, expected float64) bool {
	return math.Abs(frequency-expected) < d.tuning.HeaderTolerance
}
