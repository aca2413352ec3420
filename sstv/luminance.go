package sstv

import "math"

// The luminance band of SSTV image data.
const (
	BlackFrequency = 1500.0
	WhiteFrequency = 2300.0

	luminanceStep = (WhiteFrequency - BlackFrequency) / 255
)

// FrequencyToLuminance maps a pixel frequency in Hz to a luminance value. Frequencies
// outside of the luminance band are clamped.
func FrequencyToLuminance(frequency float64) uint8 {
	lum := math.Round((frequency - BlackFrequency) / luminanceStep)
	return uint8(min(max(lum, 0), 255))
}

// LuminanceToFrequency is the inverse of FrequencyToLuminance.
func LuminanceToFrequency(lum uint8) float64 {
	return BlackFrequency + float64(lum)*luminanceStep
}

// Luminance holds the decoded luminance values indexed by line, channel and pixel.
// Its dimensions are fixed by the mode it was created for.
type Luminance struct {
	lines    int
	channels int
	width    int
	data     []uint8

	decoded   int
	truncated bool
}

func NewLuminance(mode *Mode) *Luminance {
	return &Luminance{
		lines:    mode.Lines,
		channels: mode.Channels,
		width:    mode.Width,
		data:     make([]uint8, mode.Lines*mode.Channels*mode.Width),
	}
}

func (l *Luminance) index(line, channel, pixel int) int {
	return (line*l.channels+channel)*l.width + pixel
}

func (l *Luminance) At(line, channel, pixel int) uint8 {
	return l.data[l.index(line, channel, pixel)]
}

func (l *Luminance) Set(line, channel, pixel int, value uint8) {
	l.data[l.index(line, channel, pixel)] = value
}

// Row returns the pixels of one channel of one line.
func (l *Luminance) Row(line, channel int) []uint8 {
	start := l.index(line, channel, 0)
	return l.data[start : start+l.width]
}

func (l *Luminance) Lines() int    { return l.lines }
func (l *Luminance) Channels() int { return l.channels }
func (l *Luminance) Width() int    { return l.width }

// Decoded returns the number of completely decoded lines.
func (l *Luminance) Decoded() int { return l.decoded }

// Truncated indicates that the signal ended before all lines were decoded.
func (l *Luminance) Truncated() bool { return l.truncated }
