// Package imagefile writes decoded images to files. The format is selected by the file
// extension.
package imagefile

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

type encoder func(w io.Writer, img image.Image) error

var encoders = map[string]encoder{
	".png":  png.Encode,
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".gif":  encodeGIF,
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

func encodeGIF(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, nil)
}

// Formats returns the supported file extensions.
func Formats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif"}
}

// Encode writes the image in the format that belongs to the extension of the given name.
func Encode(w io.Writer, name string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(name))
	encode, ok := encoders[ext]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return encode(w, img)
}

// Save writes the image to the given file.
func Save(filename string, img image.Image) error {
	if _, ok := encoders[strings.ToLower(filepath.Ext(filename))]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	err = Encode(f, filename, img)
	closeErr := f.Close()
	if err != nil {
		os.Remove(filename)
		return err
	}
	return closeErr
}

// SaveWithFallback writes the image to the given file. If that fails, the image is
// written to the fallback file instead. It returns the name of the file that was written;
// the caller can tell from the name that the fallback was used.
func SaveWithFallback(filename string, fallback string, img image.Image) (string, error) {
	err := Save(filename, img)
	if err == nil {
		return filename, nil
	}
	if fallback == "" || fallback == filename {
		return "", err
	}
	if fallbackErr := Save(fallback, img); fallbackErr != nil {
		return "", errors.Join(err, fallbackErr)
	}
	return fallback, nil
}
