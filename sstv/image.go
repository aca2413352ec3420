package sstv

import (
	"context"
	"math"

	"github.com/ftl/desstv/trace"
)

// DecodeImage decodes the image data of the given mode that starts at the given sample
// offset. Each line is re-anchored at its sync pulse. If the signal ends before all lines
// are decoded, the partially filled buffer is returned and marked as truncated.
func (d *Decoder) DecodeImage(ctx context.Context, mode *Mode, start int) (*Luminance, error) {
	rate := float64(d.sampleRate)
	windowFactor := d.tuning.WindowFactor(mode)
	tracePixels := d.tracer.Context() == trace.Pixel
	lum := NewLuminance(mode)

	cursor := start
	if mode.StartSync {
		var ok bool
		cursor, ok = d.AlignSync(mode, start, SyncEnd)
		if !ok {
			return nil, ErrNoImageData
		}
	}

	for line := 0; line < mode.Lines; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if mode.SyncChannel > 0 && line == 0 {
			// the channel offsets are relative to the sync pulse, go back to the beginning
			// of the line that precedes the first sync pulse
			syncOffset := mode.ChannelOffsets[mode.SyncChannel]
			cursor -= d.samplesOf(syncOffset + mode.ScanTime)
		}

		for channel := 0; channel < mode.Channels; channel++ {
			if channel == mode.SyncChannel {
				if line > 0 || channel > 0 {
					cursor += d.samplesOf(mode.LineTime)
				}
				var ok bool
				cursor, ok = d.AlignSync(mode, cursor, SyncStart)
				if !ok {
					d.truncate(lum, line)
					return lum, nil
				}
			}

			pixelTime := mode.PixelTimeOf(channel)
			windowTime := pixelTime * windowFactor
			window := int(math.Round(windowTime * rate))
			offset := mode.ChannelOffsets[channel]

			for pixel := 0; pixel < mode.Width; pixel++ {
				center := offset + float64(pixel)*pixelTime
				from := int(math.Round(float64(cursor) + (center-windowTime/2)*rate))
				from = max(0, from)
				to := from + window
				if to >= len(d.samples) {
					d.truncate(lum, line)
					return lum, nil
				}

				frequency := d.estimator.PeakFrequency(d.samples[from:to])
				lum.Set(line, channel, pixel, FrequencyToLuminance(frequency))
				if tracePixels {
					d.tracer.Trace(trace.Pixel, "%d;%d;%d;%d;%f\n", line, channel, pixel, from, frequency)
				}
			}
		}

		lum.decoded = line + 1
		d.cursor = cursor
		d.observer.LineDecoded(line, mode.Lines)
	}

	return lum, nil
}

func (d *Decoder) truncate(lum *Luminance, line int) {
	lum.truncated = true
	d.observer.SignalTruncated(line, lum.Lines())
}
