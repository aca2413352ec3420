package sstv

import "github.com/ftl/desstv/trace"

// SyncEdge selects which edge of the sync pulse AlignSync reports.
type SyncEdge int

const (
	SyncStart SyncEdge = iota
	SyncEnd
)

// AlignSync locates the sync pulse at or after the given sample offset. The search window
// slides forward sample by sample until the peak frequency rises above the sync threshold;
// the middle of that window is taken as the end of the pulse. It returns false if the
// search window would exceed the signal.
func (d *Decoder) AlignSync(mode *Mode, from int, edge SyncEdge) (int, bool) {
	window := d.samplesOf(mode.SyncPulse * d.tuning.SyncWindowRatio)
	stop := len(d.samples) - window
	from = max(0, from)
	if window < 2 || stop <= from {
		return 0, false
	}

	current := from
	for ; current < stop; current++ {
		if d.estimator.PeakFrequency(d.samples[current:current+window]) > d.tuning.SyncThreshold {
			break
		}
	}
	current = min(current, stop-1)

	syncEnd := current + window/2
	d.tracer.Trace(trace.Sync, "%d;%d;%d\n", from, syncEnd, syncEnd-from)

	if edge == SyncStart {
		return syncEnd - d.samplesOf(mode.SyncPulse), true
	}
	return syncEnd, true
}
