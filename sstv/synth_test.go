package sstv

import "math"

// synth generates phase continuous test signals. Segment boundaries are derived from the
// accumulated exact time, so long signals do not drift.
type synth struct {
	sampleRate float64
	samples    []float64
	phase      float64
	time       float64

	lineStarts []int
}

func newSynth(sampleRate int) *synth {
	return &synth{sampleRate: float64(sampleRate)}
}

func (s *synth) tone(frequency float64, duration float64) {
	s.time += duration
	end := int(math.Round(s.time * s.sampleRate))
	delta := 2 * math.Pi * frequency / s.sampleRate
	for len(s.samples) < end {
		s.samples = append(s.samples, 0.5*math.Sin(s.phase))
		s.phase = math.Mod(s.phase+delta, 2*math.Pi)
	}
}

func (s *synth) silence(duration float64) {
	s.tone(0, duration)
}

func (s *synth) silenceSamples(n int) {
	s.samples = append(s.samples, make([]float64, n)...)
	s.time = float64(len(s.samples)) / s.sampleRate
}

func (s *synth) header() {
	s.tone(leaderFrequency, leaderToneSize)
	s.tone(breakFrequency, breakSize)
	s.tone(leaderFrequency, leaderToneSize)
	s.tone(breakFrequency, visBitSize)
}

func (s *synth) visBits(bits [visBits]uint8) {
	for _, bit := range bits {
		if bit == 1 {
			s.tone(1100, visBitSize)
		} else {
			s.tone(1300, visBitSize)
		}
	}
}

func visBitsOf(code uint8) [visBits]uint8 {
	var result [visBits]uint8
	var parity uint8
	for i := 0; i < visBits-1; i++ {
		result[i] = (code >> i) & 1
		parity ^= result[i]
	}
	result[visBits-1] = parity
	return result
}

func (s *synth) vis(code uint8) {
	s.visBits(visBitsOf(code))
	s.stopBit()
}

func (s *synth) stopBit() {
	s.tone(breakFrequency, visBitSize)
}

// picture provides the luminance of a pixel in a channel of a line
type picture func(line, channel, pixel int) uint8

func (s *synth) scan(mode *Mode, pic picture, line, channel int) {
	pixelTime := mode.PixelTimeOf(channel)
	for pixel := 0; pixel < mode.Width; pixel++ {
		s.tone(LuminanceToFrequency(pic(line, channel, pixel)), pixelTime)
	}
}

func (s *synth) martin(mode *Mode, pic picture) {
	for line := 0; line < mode.Lines; line++ {
		s.lineStarts = append(s.lineStarts, len(s.samples))
		s.tone(1200, mode.SyncPulse)
		s.tone(1500, mode.SyncPorch)
		for channel := 0; channel < mode.Channels; channel++ {
			s.scan(mode, pic, line, channel)
			s.tone(1500, mode.SepPulse)
		}
	}
}

func (s *synth) scottie(mode *Mode, pic picture) {
	s.tone(1200, mode.SyncPulse)
	for line := 0; line < mode.Lines; line++ {
		s.lineStarts = append(s.lineStarts, len(s.samples))
		for channel := 0; channel < 2; channel++ {
			s.tone(1500, mode.SepPulse)
			s.scan(mode, pic, line, channel)
		}
		s.tone(1200, mode.SyncPulse)
		s.tone(1500, mode.SyncPorch)
		s.scan(mode, pic, line, 2)
	}
}

func (s *synth) robot36(mode *Mode, pic picture) {
	for line := 0; line < mode.Lines; line++ {
		s.lineStarts = append(s.lineStarts, len(s.samples))
		s.tone(1200, mode.SyncPulse)
		s.tone(1500, mode.SyncPorch)
		s.scan(mode, pic, line, 0)
		if line%2 == 0 {
			s.tone(1500, mode.SepPulse)
		} else {
			s.tone(2300, mode.SepPulse)
		}
		s.tone(1900, mode.SepPorch)
		s.scan(mode, pic, line, 1)
	}
}

func (s *synth) fskByte(value uint8) {
	for i := 0; i < fskBitsPerByte; i++ {
		if (value>>i)&1 == 1 {
			s.tone(fskMark, fskBitSize)
		} else {
			s.tone(fskSpace, fskBitSize)
		}
	}
}

func (s *synth) fskID(text string) {
	s.fskByte(fskPreamble1)
	s.fskByte(fskPreamble2)
	for _, c := range []byte(text) {
		s.fskByte(c - fskASCIIOffset)
	}
	s.fskByte(0x01)
}

// threeBands is a picture with three vertical bands, each channel has a different
// permutation of black, white and gray.
func threeBands(width int) picture {
	values := [3][3]uint8{
		{0, 255, 128},
		{255, 128, 0},
		{128, 0, 255},
	}
	return func(line, channel, pixel int) uint8 {
		band := min(pixel*3/width, 2)
		return values[channel%3][band]
	}
}
