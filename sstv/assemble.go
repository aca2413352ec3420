package sstv

import (
	"fmt"
	"image"
	"image/color"
)

// Layout is the combination of color format and channel structure of a mode.
type Layout int

const (
	UnsupportedLayout Layout = iota
	GBRLayout
	RGBLayout
	YUVLayout
	YUVAltScanLayout
	MonochromeLayout
)

func layoutOf(format ColorFormat, channels int, altScan bool) Layout {
	switch {
	case format == GBR && channels == 3 && !altScan:
		return GBRLayout
	case format == RGB && channels == 3 && !altScan:
		return RGBLayout
	case format == YUV && channels == 3 && !altScan:
		return YUVLayout
	case format == YUV && channels == 2 && altScan:
		return YUVAltScanLayout
	case format == Monochrome && channels == 1:
		return MonochromeLayout
	default:
		return UnsupportedLayout
	}
}

type pixelAssembler func(lum *Luminance, line, pixel int) color.RGBA

var assemblers = map[Layout]pixelAssembler{
	GBRLayout:        assembleGBR,
	RGBLayout:        assembleRGB,
	YUVLayout:        assembleYUV,
	YUVAltScanLayout: assembleYUVAltScan,
	MonochromeLayout: assembleMonochrome,
}

// Assemble converts the luminance buffer of the given mode into an RGB image of the mode's
// dimensions. Lines that were not decoded stay black.
func Assemble(mode *Mode, lum *Luminance) (*image.RGBA, error) {
	assemble, ok := assemblers[mode.Layout()]
	if !ok {
		return nil, fmt.Errorf("%w: %s with %d channels", ErrUnsupportedLayout, mode.Color, mode.Channels)
	}
	if lum.Lines() != mode.Lines || lum.Channels() != mode.Channels || lum.Width() != mode.Width {
		return nil, fmt.Errorf("luminance buffer of %dx%dx%d does not fit %s", lum.Lines(), lum.Channels(), lum.Width(), mode.Name)
	}

	img := image.NewRGBA(image.Rect(0, 0, mode.Width, mode.Lines))
	for y := 0; y < mode.Lines; y++ {
		for x := 0; x < mode.Width; x++ {
			img.SetRGBA(x, y, assemble(lum, y, x))
		}
	}
	return img, nil
}

func assembleGBR(lum *Luminance, line, pixel int) color.RGBA {
	return color.RGBA{R: lum.At(line, 2, pixel), G: lum.At(line, 0, pixel), B: lum.At(line, 1, pixel), A: 0xff}
}

func assembleRGB(lum *Luminance, line, pixel int) color.RGBA {
	return color.RGBA{R: lum.At(line, 0, pixel), G: lum.At(line, 1, pixel), B: lum.At(line, 2, pixel), A: 0xff}
}

// channel 1 is R-Y, channel 2 is B-Y
func assembleYUV(lum *Luminance, line, pixel int) color.RGBA {
	return yuvToRGBA(lum.At(line, 0, pixel), lum.At(line, 2, pixel), lum.At(line, 1, pixel))
}

// Even lines carry R-Y, odd lines carry B-Y. Each line takes the missing component from
// its neighbour of the pair.
func assembleYUVAltScan(lum *Luminance, line, pixel int) color.RGBA {
	var cbLine, crLine int
	if line%2 == 0 {
		crLine = line
		cbLine = min(line+1, lum.Lines()-1)
	} else {
		cbLine = line
		crLine = line - 1
	}
	return yuvToRGBA(lum.At(line, 0, pixel), lum.At(cbLine, 1, pixel), lum.At(crLine, 1, pixel))
}

func assembleMonochrome(lum *Luminance, line, pixel int) color.RGBA {
	value := lum.At(line, 0, pixel)
	return color.RGBA{R: value, G: value, B: value, A: 0xff}
}

func yuvToRGBA(y, cb, cr uint8) color.RGBA {
	r, g, b := color.YCbCrToRGB(y, cb, cr)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
