package sstv

import "time"

// Observer receives progress events of a decode pass. Observers must not influence the
// decoding; all methods are called synchronously from the decoding goroutine.
type Observer interface {
	HeaderSearchProgress(position time.Duration)
	HeaderFound(position time.Duration)
	ModeDetected(mode *Mode)
	LineDecoded(line int, lines int)
	SignalTruncated(line int, lines int)
	CallsignDecoded(id string, valid bool)
	DecodeFailed(err error)
}

type NoObserver struct{}

func (NoObserver) HeaderSearchProgress(time.Duration) {}
func (NoObserver) HeaderFound(time.Duration)          {}
func (NoObserver) ModeDetected(*Mode)                 {}
func (NoObserver) LineDecoded(int, int)               {}
func (NoObserver) SignalTruncated(int, int)           {}
func (NoObserver) CallsignDecoded(string, bool)       {}
func (NoObserver) DecodeFailed(error)                 {}

// MultiObserver forwards all events to each of its observers.
type MultiObserver []Observer

func (o MultiObserver) HeaderSearchProgress(position time.Duration) {
	for _, observer := range o {
		observer.HeaderSearchProgress(position)
	}
}

func (o MultiObserver) HeaderFound(position time.Duration) {
	for _, observer := range o {
		observer.HeaderFound(position)
	}
}

func (o MultiObserver) ModeDetected(mode *Mode) {
	for _, observer := range o {
		observer.ModeDetected(mode)
	}
}

func (o MultiObserver) LineDecoded(line int, lines int) {
	for _, observer := range o {
		observer.LineDecoded(line, lines)
	}
}

func (o MultiObserver) SignalTruncated(line int, lines int) {
	for _, observer := range o {
		observer.SignalTruncated(line, lines)
	}
}

func (o MultiObserver) CallsignDecoded(id string, valid bool) {
	for _, observer := range o {
		observer.CallsignDecoded(id, valid)
	}
}

func (o MultiObserver) DecodeFailed(err error) {
	for _, observer := range o {
		observer.DecodeFailed(err)
	}
}
