package sstv

import (
	"fmt"
	"sort"
)

// ColorFormat describes how the channels of a scan line encode color.
type ColorFormat int

const (
	RGB ColorFormat = iota
	GBR
	YUV
	Monochrome
)

func (f ColorFormat) String() string {
	switch f {
	case RGB:
		return "RGB"
	case GBR:
		return "GBR"
	case YUV:
		return "YUV"
	case Monochrome:
		return "BW"
	default:
		return fmt.Sprintf("ColorFormat(%d)", int(f))
	}
}

// Family is the protocol family a mode belongs to.
type Family int

const (
	Martin Family = iota
	Scottie
	Robot
)

func (f Family) String() string {
	switch f {
	case Martin:
		return "Martin"
	case Scottie:
		return "Scottie"
	case Robot:
		return "Robot"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Mode describes the timing and layout of one SSTV variant. All durations are in seconds.
// Modes are immutable; the derived fields are computed once when the registry is built.
type Mode struct {
	Name      string
	ShortName string
	VIS       uint8
	Family    Family

	Color        ColorFormat
	Channels     int
	SyncChannel  int
	Width, Lines int

	SyncPulse    float64
	SyncPorch    float64
	SepPulse     float64
	SepPorch     float64
	ScanTime     float64
	WindowFactor float64

	StartSync bool
	HalfScan  bool
	AltScan   bool

	// derived
	ChannelTime    float64
	ChannelOffsets []float64
	LineTime       float64
	PixelTime      float64
	HalfScanTime   float64
	HalfPixelTime  float64
}

func (m *Mode) String() string {
	return m.Name
}

// ScanTimeOf returns the scan duration of the given channel.
func (m *Mode) ScanTimeOf(channel int) float64 {
	if m.HalfScan && channel > 0 {
		return m.HalfScanTime
	}
	return m.ScanTime
}

// PixelTimeOf returns the pixel duration of the given channel.
func (m *Mode) PixelTimeOf(channel int) float64 {
	if m.HalfScan && channel > 0 {
		return m.HalfPixelTime
	}
	return m.PixelTime
}

// Layout returns the channel layout used to assemble the final image.
func (m *Mode) Layout() Layout {
	return layoutOf(m.Color, m.Channels, m.AltScan)
}

// base parameters of the protocol families
const (
	martinSyncPulse = 0.004862
	martinSyncPorch = 0.000572
	martinSepPulse  = 0.000572

	scottieSyncPulse = 0.009000
	scottieSyncPorch = 0.001500
	scottieSepPulse  = 0.001500

	robotSyncPulse = 0.009000
	robotSyncPorch = 0.003000
	robotSepPulse  = 0.004500
	robotSepPorch  = 0.001500
)

func martin(name, shortName string, vis uint8, width, lines int, scanTime, windowFactor float64) Mode {
	m := Mode{
		Name:         name,
		ShortName:    shortName,
		VIS:          vis,
		Family:       Martin,
		Color:        GBR,
		Channels:     3,
		SyncChannel:  0,
		Width:        width,
		Lines:        lines,
		SyncPulse:    martinSyncPulse,
		SyncPorch:    martinSyncPorch,
		SepPulse:     martinSepPulse,
		ScanTime:     scanTime,
		WindowFactor: windowFactor,
	}
	m.ChannelTime = m.SepPulse + m.ScanTime

	first := m.SyncPulse + m.SyncPorch
	m.ChannelOffsets = []float64{first, first + m.ChannelTime, first + 2*m.ChannelTime}

	m.LineTime = m.ChannelOffsets[2] + m.ChannelTime
	m.PixelTime = m.ScanTime / float64(m.Width)
	return m
}

// Scottie transmits the sync pulse between the second and the third channel, the offsets
// are relative to the sync pulse, so the first two channels come after the third one.
func scottie(name, shortName string, vis uint8, width, lines int, scanTime, windowFactor float64) Mode {
	m := Mode{
		Name:         name,
		ShortName:    shortName,
		VIS:          vis,
		Family:       Scottie,
		Color:        GBR,
		Channels:     3,
		SyncChannel:  2,
		Width:        width,
		Lines:        lines,
		SyncPulse:    scottieSyncPulse,
		SyncPorch:    scottieSyncPorch,
		SepPulse:     scottieSepPulse,
		ScanTime:     scanTime,
		WindowFactor: windowFactor,
		StartSync:    true,
	}
	m.ChannelTime = m.SepPulse + m.ScanTime

	last := m.SyncPulse + m.SyncPorch
	m.ChannelOffsets = []float64{last + m.ChannelTime, last + 2*m.ChannelTime, last}

	m.LineTime = m.SyncPulse + 3*m.ChannelTime
	m.PixelTime = m.ScanTime / float64(m.Width)
	return m
}

// Robot modes scan the luma channel at full length and the chroma channels at half length.
// With two channels, the chroma components alternate from line to line.
func robot(name, shortName string, vis uint8, channels int, width, lines int, scanTime, windowFactor float64) Mode {
	m := Mode{
		Name:         name,
		ShortName:    shortName,
		VIS:          vis,
		Family:       Robot,
		Color:        YUV,
		Channels:     channels,
		SyncChannel:  0,
		Width:        width,
		Lines:        lines,
		SyncPulse:    robotSyncPulse,
		SyncPorch:    robotSyncPorch,
		SepPulse:     robotSepPulse,
		SepPorch:     robotSepPorch,
		ScanTime:     scanTime,
		WindowFactor: windowFactor,
		HalfScan:     true,
		AltScan:      channels == 2,
	}
	m.ChannelTime = m.SepPulse + m.ScanTime
	m.HalfScanTime = m.ScanTime / 2
	halfChannelTime := m.SepPulse + m.HalfScanTime

	m.ChannelOffsets = []float64{m.SyncPulse + m.SyncPorch}
	m.ChannelOffsets = append(m.ChannelOffsets, m.ChannelOffsets[0]+m.ChannelTime+m.SepPorch)
	for c := 2; c < channels; c++ {
		m.ChannelOffsets = append(m.ChannelOffsets, m.ChannelOffsets[c-1]+halfChannelTime+m.SepPorch)
	}

	m.LineTime = m.ChannelOffsets[channels-1] + m.HalfScanTime
	m.PixelTime = m.ScanTime / float64(m.Width)
	m.HalfPixelTime = m.HalfScanTime / float64(m.Width)
	return m
}

var registry = newRegistry(
	robot("Robot 36 Color", "R36", 8, 2, 320, 240, 0.088000, 7.70),
	robot("Robot 72 Color", "R72", 12, 3, 320, 240, 0.138000, 4.88),
	// two of four references say that M2's width is 160, the other two say 320
	martin("Martin 2", "M2", 40, 320, 256, 0.073216, 4.68),
	martin("Martin 1", "M1", 44, 320, 256, 0.146432, 2.34),
	scottie("Scottie 2", "S2", 56, 320, 256, 0.088064, 3.82),
	scottie("Scottie 1", "S1", 60, 320, 256, 0.138240, 2.48),
	// the longer transmission time supports better image quality over long distances
	scottie("Scottie DX", "SDX", 76, 320, 256, 0.345600, 0.98),
)

func newRegistry(modes ...Mode) map[uint8]*Mode {
	result := make(map[uint8]*Mode, len(modes))
	for i := range modes {
		mode := &modes[i]
		if mode.VIS > 127 {
			panic(fmt.Sprintf("VIS code of %s out of range: %d", mode.Name, mode.VIS))
		}
		if existing, ok := result[mode.VIS]; ok {
			panic(fmt.Sprintf("VIS code %d used by %s and %s", mode.VIS, existing.Name, mode.Name))
		}
		if len(mode.ChannelOffsets) != mode.Channels {
			panic(fmt.Sprintf("%s has %d channel offsets for %d channels", mode.Name, len(mode.ChannelOffsets), mode.Channels))
		}
		if mode.LineTime <= 0 || mode.PixelTime <= 0 {
			panic(fmt.Sprintf("%s has invalid timing", mode.Name))
		}
		result[mode.VIS] = mode
	}
	return result
}

// Lookup returns the mode with the given VIS code.
func Lookup(vis uint8) (*Mode, error) {
	mode, ok := registry[vis]
	if !ok {
		return nil, &UnsupportedModeError{VIS: vis}
	}
	return mode, nil
}

// LookupName returns the mode with the given name or short name.
func LookupName(name string) (*Mode, bool) {
	for _, mode := range registry {
		if mode.Name == name || mode.ShortName == name {
			return mode, true
		}
	}
	return nil, false
}

// Modes returns all supported modes ordered by VIS code.
func Modes() []*Mode {
	result := make([]*Mode, 0, len(registry))
	for _, mode := range registry {
		result = append(result, mode)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].VIS < result[j].VIS
	})
	return result
}
