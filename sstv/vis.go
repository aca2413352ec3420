package sstv

import (
	"fmt"

	"github.com/ftl/desstv/trace"
)

const (
	visBits = 8
	// data bits, parity bit and stop bit follow the header
	visTrailingBits = visBits + 1
)

// DecodeVIS reads the eight VIS bits that start at the given sample offset and returns the
// mode they identify. 1100 Hz encodes 1, 1300 Hz encodes 0.
func (d *Decoder) DecodeVIS(from int) (*Mode, error) {
	bitSize := d.samplesOf(visBitSize)
	var bits [visBits]uint8
	for i := range bits {
		start := from + i*bitSize
		end := start + bitSize
		if start < 0 || end > len(d.samples) {
			return nil, fmt.Errorf("%w: VIS code incomplete", ErrNoImageData)
		}
		frequency := d.estimator.PeakFrequency(d.samples[start:end])
		if frequency <= d.tuning.VISBitThreshold {
			bits[i] = 1
		}
		d.tracer.Trace(trace.VIS, "%d;%f;%d\n", i, frequency, bits[i])
	}

	code, err := ParseVIS(bits)
	if err != nil {
		return nil, err
	}
	return Lookup(code)
}

// ParseVIS checks the even parity of the given VIS bits and assembles the 7 data bits,
// least significant bit first.
func ParseVIS(bits [visBits]uint8) (uint8, error) {
	var sum uint8
	for _, bit := range bits {
		sum += bit & 1
	}
	if sum%2 != 0 {
		return 0, ErrInvalidParity
	}

	var code uint8
	for i := visBits - 2; i >= 0; i-- {
		code = (code << 1) | (bits[i] & 1)
	}
	return code, nil
}
