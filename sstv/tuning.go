package sstv

// These values are inherited from the reference decoder. They are empirical and not
// derived from the protocol.
const (
	DefaultHeaderTolerance = 50.0
	DefaultSyncThreshold   = 1350.0
	DefaultSyncWindowRatio = 1.4
	DefaultVISBitThreshold = 1200.0
)

// Tuning contains the empirical parameters of the demodulator.
type Tuning struct {
	// HeaderTolerance is the maximum deviation in Hz of a header tone.
	HeaderTolerance float64 `yaml:"header_tolerance"`
	// SyncThreshold is the frequency in Hz above which the sync pulse is considered to be over.
	SyncThreshold float64 `yaml:"sync_threshold"`
	// SyncWindowRatio is the width of the sync search window in multiples of the sync pulse.
	SyncWindowRatio float64 `yaml:"sync_window_ratio"`
	// VISBitThreshold separates the VIS bit tones: at or below is a 1 bit.
	VISBitThreshold float64 `yaml:"vis_bit_threshold"`
	// WindowFactors overrides the window factor of modes, keyed by name or short name.
	WindowFactors map[string]float64 `yaml:"window_factors"`
}

func DefaultTuning() Tuning {
	return Tuning{
		HeaderTolerance: DefaultHeaderTolerance,
		SyncThreshold:   DefaultSyncThreshold,
		SyncWindowRatio: DefaultSyncWindowRatio,
		VISBitThreshold: DefaultVISBitThreshold,
	}
}

// WithDefaults returns a copy where all unset values are replaced by the defaults.
func (t Tuning) WithDefaults() Tuning {
	defaults := DefaultTuning()
	if t.HeaderTolerance <= 0 {
		t.HeaderTolerance = defaults.HeaderTolerance
	}
	if t.SyncThreshold <= 0 {
		t.SyncThreshold = defaults.SyncThreshold
	}
	if t.SyncWindowRatio <= 0 {
		t.SyncWindowRatio = defaults.SyncWindowRatio
	}
	if t.VISBitThreshold <= 0 {
		t.VISBitThreshold = defaults.VISBitThreshold
	}
	return t
}

// WindowFactor returns the window factor to use for the given mode.
func (t Tuning) WindowFactor(mode *Mode) float64 {
	if factor, ok := t.WindowFactors[mode.ShortName]; ok && factor > 0 {
		return factor
	}
	if factor, ok := t.WindowFactors[mode.Name]; ok && factor > 0 {
		return factor
	}
	return mode.WindowFactor
}
