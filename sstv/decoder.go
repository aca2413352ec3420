// Package sstv demodulates Slow-Scan Television transmissions from recorded audio.
//
// A transmission starts with a calibration header, followed by the VIS code that
// identifies the mode. The image data follows as a sequence of scan lines, each one
// re-anchored to its sync pulse to compensate for timing drift.
package sstv

import (
	"context"
	"image"
	"math"
	"time"

	"github.com/ftl/hamradio/callsign"

	"github.com/ftl/desstv/dsp"
	"github.com/ftl/desstv/trace"
)

// Decoder is one decode session over a recorded signal. The samples are down-mixed to mono
// when the decoder is created and are never modified afterwards.
type Decoder struct {
	samples    []float64
	sampleRate int
	estimator  *dsp.Estimator

	tuning   Tuning
	observer Observer
	tracer   trace.Tracer
	fskID    bool

	mode   *Mode
	cursor int
}

// Result of a successful decode pass.
type Result struct {
	Mode      *Mode
	HeaderEnd int
	Luminance *Luminance
	Image     *image.RGBA
	Truncated bool

	// FSKID is the raw text of the FSK ID following the image, if any.
	FSKID    string
	Callsign callsign.Callsign
}

// NewDecoder creates a decoder for the given interleaved samples with the given number of
// channels and sample rate.
func NewDecoder(interleaved []float64, channels int, sampleRate int) *Decoder {
	return &Decoder{
		samples:    dsp.Downmix(interleaved, channels),
		sampleRate: sampleRate,
		estimator:  dsp.NewEstimator(sampleRate),
		tuning:     DefaultTuning(),
		observer:   NoObserver{},
		tracer:     new(trace.NoTracer),
		fskID:      true,
	}
}

func (d *Decoder) SetObserver(observer Observer) {
	if observer == nil {
		observer = NoObserver{}
	}
	d.observer = observer
}

func (d *Decoder) SetTracer(tracer trace.Tracer) {
	if tracer == nil {
		tracer = new(trace.NoTracer)
	}
	d.tracer = tracer
}

func (d *Decoder) SetTuning(tuning Tuning) {
	d.tuning = tuning.WithDefaults()
}

// SetFSKID enables or disables the search for an FSK ID after the image.
func (d *Decoder) SetFSKID(enabled bool) {
	d.fskID = enabled
}

// Mode returns the mode detected by the last decode pass, or nil.
func (d *Decoder) Mode() *Mode {
	return d.mode
}

func (d *Decoder) SampleRate() int {
	return d.sampleRate
}

// Len returns the number of mono samples.
func (d *Decoder) Len() int {
	return len(d.samples)
}

func (d *Decoder) samplesOf(seconds float64) int {
	return int(math.Round(seconds * float64(d.sampleRate)))
}

func (d *Decoder) timeOf(sample int) time.Duration {
	return time.Duration(float64(sample) / float64(d.sampleRate) * float64(time.Second))
}

// Decode runs the whole pipeline: header search, VIS decoding, image decoding and image
// assembly, starting skip into the signal. If the signal ends before the image is complete,
// the partial image is returned with Truncated set. ErrNoSignal is returned if there is
// no calibration header in the signal.
func (d *Decoder) Decode(ctx context.Context, skip time.Duration) (*Result, error) {
	result, err := d.decode(ctx, skip)
	if err != nil {
		d.observer.DecodeFailed(err)
	}
	return result, err
}

func (d *Decoder) decode(ctx context.Context, skip time.Duration) (*Result, error) {
	d.mode = nil
	start := max(0, d.samplesOf(skip.Seconds()))

	headerEnd, err := d.FindHeader(ctx, start)
	if err != nil {
		return nil, err
	}
	d.observer.HeaderFound(d.timeOf(headerEnd))

	mode, err := d.DecodeVIS(headerEnd)
	if err != nil {
		return nil, err
	}
	d.mode = mode
	d.observer.ModeDetected(mode)

	imageStart := headerEnd + d.samplesOf(visBitSize*visTrailingBits)
	lum, err := d.DecodeImage(ctx, mode, imageStart)
	if err != nil {
		return nil, err
	}

	img, err := Assemble(mode, lum)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Mode:      mode,
		HeaderEnd: headerEnd,
		Luminance: lum,
		Image:     img,
		Truncated: lum.Truncated(),
	}
	if d.fskID && !lum.Truncated() {
		d.decodeCallsign(result, d.imageEnd(mode))
	}
	return result, nil
}

func (d *Decoder) decodeCallsign(result *Result, from int) {
	id, ok := d.DecodeFSKID(from)
	if !ok {
		return
	}
	result.FSKID = id
	call, err := callsign.Parse(id)
	valid := err == nil
	if valid {
		result.Callsign = call
	}
	d.observer.CallsignDecoded(id, valid)
}

// imageEnd is the sample offset where the image data of the last decoded line ends.
func (d *Decoder) imageEnd(mode *Mode) int {
	return d.cursor + d.samplesOf(mode.imageDuration())
}

// imageDuration is the time from the last sync pulse to the end of the image data.
// The last channel is transmitted last in every family, for Scottie it is also the sync channel.
func (m *Mode) imageDuration() float64 {
	last := m.Channels - 1
	return m.ChannelOffsets[last] + m.ScanTimeOf(last)
}
