package sstv

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSignal is returned when no calibration header is found. This is the normal
	// outcome for audio that does not contain an SSTV transmission.
	ErrNoSignal = errors.New("no SSTV signal found")

	ErrInvalidParity     = errors.New("invalid VIS parity")
	ErrUnsupportedMode   = errors.New("unsupported SSTV mode")
	ErrNoImageData       = errors.New("reached end of audio before image data")
	ErrUnsupportedLayout = errors.New("unsupported channel layout")
)

// UnsupportedModeError reports a VIS code that is not in the mode registry.
type UnsupportedModeError struct {
	VIS uint8
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("SSTV mode is unsupported (VIS: %d)", e.VIS)
}

func (e *UnsupportedModeError) Is(target error) bool {
	return target == ErrUnsupportedMode
}
