package sstv

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

const reportPrefix = "[desstv]"

// TextReporter is an Observer that writes human readable progress information. On a
// terminal, progress lines are refreshed in place and the image progress is shown as a bar.
type TextReporter struct {
	out     io.Writer
	columns int
	mode    *Mode
}

func NewTextReporter(out io.Writer) *TextReporter {
	if out == nil {
		out = os.Stderr
	}
	result := &TextReporter{out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if columns, _, err := term.GetSize(int(f.Fd())); err == nil {
			result.columns = columns
		}
	}
	return result
}

func (r *TextReporter) interactive() bool {
	return r.columns > 0
}

func (r *TextReporter) print(level string, recur bool, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s %-5s | %s", reportPrefix, level, message)
	end := "\n"
	if recur {
		end = "\r"
		if r.columns > 0 && len(line) > r.columns {
			line = line[:r.columns]
		}
	}
	fmt.Fprint(r.out, line+end)
}

func (r *TextReporter) HeaderSearchProgress(position time.Duration) {
	if !r.interactive() {
		return
	}
	r.print("INFO", true, "Searching for calibration header... %.1fs", position.Seconds())
}

func (r *TextReporter) HeaderFound(position time.Duration) {
	r.print("INFO", false, "Searching for calibration header... Found at %.2fs", position.Seconds())
}

func (r *TextReporter) ModeDetected(mode *Mode) {
	r.mode = mode
	r.print("INFO", false, "Detected SSTV mode [%s] (VIS %d, %dx%d)", mode.Name, mode.VIS, mode.Width, mode.Lines)
}

func (r *TextReporter) LineDecoded(line int, lines int) {
	if line < lines-1 {
		if r.interactive() {
			r.print("INFO", true, "%s", r.progressBar("Decoding image...", line, lines-1))
		}
		return
	}
	pixels := lines
	if r.mode != nil {
		pixels *= r.mode.Width
	}
	r.print("INFO", false, "Decoding image... Done! (%s pixels)", humanize.Comma(int64(pixels)))
}

func (r *TextReporter) progressBar(message string, progress int, complete int) string {
	level := 1.0
	if complete > 0 {
		level = float64(progress) / float64(complete)
	}
	percent := fmt.Sprintf("%4d%%", int(level*100))

	prefixSize := len(reportPrefix) + 10
	barSize := min(r.columns-prefixSize-len(message)-len(percent)-3, 100)
	if barSize <= 5 {
		return message + " " + percent
	}
	fill := int(float64(barSize)*level + 0.5)
	bar := "[" + strings.Repeat("#", fill) + strings.Repeat(".", barSize-fill) + "]"
	return message + " " + bar + percent
}

func (r *TextReporter) SignalTruncated(line int, lines int) {
	r.print("WARN", false, "Reached end of audio whilst decoding line %d of %d, the image will be incomplete", line+1, lines)
}

func (r *TextReporter) CallsignDecoded(id string, valid bool) {
	if valid {
		r.print("INFO", false, "FSK ID: %s", id)
		return
	}
	r.print("WARN", false, "FSK ID %q is not a valid callsign", id)
}

func (r *TextReporter) DecodeFailed(err error) {
	r.print("ERROR", false, "%v", err)
}

// Infof writes an informational line that is not related to a decoder event.
func (r *TextReporter) Infof(format string, args ...any) {
	r.print("INFO", false, format, args...)
}

func (r *TextReporter) Warnf(format string, args ...any) {
	r.print("WARN", false, format, args...)
}

func (r *TextReporter) Errorf(format string, args ...any) {
	r.print("ERROR", false, format, args...)
}
