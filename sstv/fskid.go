package sstv

import (
	"math"

	"github.com/ftl/desstv/dsp"
	"github.com/ftl/desstv/trace"
)

// The FSK ID that may follow the image: 6-bit bytes, least significant bit first, 22 ms
// per bit, 1900 Hz is 1 and 2100 Hz is 0. The text is preceded by 0x20 0x2A and
// terminated by a value below 0x0D. Add 0x20 to get ASCII.
const (
	fskBitSize     = 0.022
	fskMark        = 1900.0
	fskSpace       = 2100.0
	fskBitsPerByte = 6
	fskSearchSteps = 200
	fskMaxLength   = 10
	fskPreamble1   = 0x20
	fskPreamble2   = 0x2A
	fskTerminator  = 0x0D
	fskASCIIOffset = 0x20

	// minimum ratio between mark and space magnitude of a clear bit
	fskClearRatio = 2.0
)

type fskReader struct {
	samples []float64
	bitSize int
	mark    *dsp.Goertzel
	space   *dsp.Goertzel
}

// bit returns the bit at the given sample offset and whether it was clearly detected.
func (r *fskReader) bit(offset int) (bit uint8, clear bool, ok bool) {
	if offset < 0 || offset+r.bitSize > len(r.samples) {
		return 0, false, false
	}
	block := r.samples[offset : offset+r.bitSize]
	mark := r.mark.Magnitude(block)
	space := r.space.Magnitude(block)
	if mark > space {
		return 1, mark > fskClearRatio*space, true
	}
	return 0, space > fskClearRatio*mark, true
}

func (r *fskReader) byteAt(offset int, requireClear bool) (uint8, bool) {
	var result uint8
	for i := 0; i < fskBitsPerByte; i++ {
		bit, clear, ok := r.bit(offset + i*r.bitSize)
		if !ok || (requireClear && !clear) {
			return 0, false
		}
		result |= bit << i
	}
	return result, true
}

// DecodeFSKID searches an FSK ID in the signal within a few seconds after the given sample
// offset and returns its text.
func (d *Decoder) DecodeFSKID(from int) (string, bool) {
	bitSize := int(math.Round(fskBitSize * float64(d.sampleRate)))
	if bitSize < 2 {
		return "", false
	}
	reader := &fskReader{
		samples: d.samples,
		bitSize: bitSize,
		mark:    dsp.NewGoertzel(fskMark, d.sampleRate, bitSize),
		space:   dsp.NewGoertzel(fskSpace, d.sampleRate, bitSize),
	}
	byteSize := fskBitsPerByte * bitSize

	start := -1
	for step := 0; step < fskSearchSteps; step++ {
		offset := from + step*bitSize/2
		if offset+2*byteSize > len(d.samples) {
			break
		}
		first, ok := reader.byteAt(offset, true)
		if !ok || first != fskPreamble1 {
			continue
		}
		second, ok := reader.byteAt(offset+byteSize, true)
		if ok && second == fskPreamble2 {
			start = offset + 2*byteSize
			break
		}
	}
	if start < 0 {
		return "", false
	}

	id := make([]byte, 0, fskMaxLength)
	for len(id) < fskMaxLength {
		value, ok := reader.byteAt(start+len(id)*byteSize, false)
		if !ok || value < fskTerminator {
			break
		}
		id = append(id, value+fskASCIIOffset)
	}
	d.tracer.Trace(trace.FSKID, "%d;%q\n", start, id)

	return string(id), len(id) > 0
}
