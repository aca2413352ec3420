package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ftl/desstv/audio"
	"github.com/ftl/desstv/config"
	"github.com/ftl/desstv/imagefile"
	"github.com/ftl/desstv/metrics"
	"github.com/ftl/desstv/sstv"
	"github.com/ftl/desstv/trace"
)

// exit codes of the decode command
const (
	exitFailure  = 1
	exitNoSignal = 2
)

var decodeFlags = struct {
	output           string
	skip             float64
	fskID            bool
	traceContext     string
	traceDestination string
	metricsFile      string
}{}

var decodeCmd = &cobra.Command{
	Use:   "decode <audio file>",
	Short: "decode an SSTV image from a recorded audio file",
	Args:  cobra.ExactArgs(1),
	Run:   runWithCtx(runDecode),
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&decodeFlags.output, "output", "o", "", "the image file to write (default from the configuration, result.png)")
	decodeCmd.Flags().Float64VarP(&decodeFlags.skip, "skip", "s", 0, "skip the given number of seconds at the beginning of the recording")
	decodeCmd.Flags().BoolVar(&decodeFlags.fskID, "fsk-id", true, "decode the FSK ID that follows the image")
	decodeCmd.Flags().StringVar(&decodeFlags.traceContext, "trace", "", fmt.Sprintf("trace the intermediate values of one stage (%s)", trace.Contexts))
	decodeCmd.Flags().StringVar(&decodeFlags.traceDestination, "trace-to", "", "the trace destination, file:<filename> or udp:<host:port>")
	decodeCmd.Flags().StringVar(&decodeFlags.metricsFile, "metrics-file", "", "write metrics in the Prometheus text format to this file")
}

func runDecode(ctx context.Context, cfg config.Config, cmd *cobra.Command, args []string) {
	reporter := sstv.NewTextReporter(os.Stderr)
	exit := func(code int, format string, args ...any) {
		reporter.Errorf(format, args...)
		os.Exit(code)
	}

	filename := args[0]
	pcm, err := audio.Open(filename)
	if err != nil {
		exit(exitFailure, "%v", err)
	}
	log.Printf("%s: %d channel(s), %d Hz, %s, %s samples", filename, pcm.Channels, pcm.SampleRate, pcm.Duration(), humanize.Comma(int64(pcm.Frames())))

	tracer, err := newTracer(cfg)
	if err != nil {
		exit(exitFailure, "%v", err)
	}
	if err := tracer.Start(); err != nil {
		exit(exitFailure, "cannot start tracing: %v", err)
	}

	m := metrics.New()
	decoder := sstv.NewDecoder(pcm.Samples, pcm.Channels, pcm.SampleRate)
	decoder.SetTuning(cfg.Tuning)
	decoder.SetFSKID(decodeFlags.fskID)
	decoder.SetTracer(tracer)
	decoder.SetObserver(sstv.MultiObserver{reporter, m})

	skip := time.Duration(decodeFlags.skip * float64(time.Second))
	result, decodeErr := decoder.Decode(ctx, skip)

	if err := tracer.Stop(); err != nil {
		reporter.Warnf("cannot complete the trace: %v", err)
	}
	writeMetrics(cfg, m, reporter)

	switch {
	case errors.Is(decodeErr, sstv.ErrNoSignal):
		os.Exit(exitNoSignal)
	case decodeErr != nil:
		os.Exit(exitFailure)
	}

	output := decodeFlags.output
	if output == "" {
		output = cfg.Output.Default
	}
	written, err := imagefile.SaveWithFallback(output, cfg.Output.Default, result.Image)
	if err != nil {
		exit(exitFailure, "cannot save the image: %v", err)
	}
	if written != output {
		reporter.Warnf("cannot save the image as %s, using %s instead", output, written)
	}
	reporter.Infof("Image saved to %s", written)
}

func newTracer(cfg config.Config) (trace.Tracer, error) {
	traceContext := decodeFlags.traceContext
	destination := decodeFlags.traceDestination
	if traceContext == "" {
		traceContext = cfg.Trace.Context
		destination = cfg.Trace.Destination
	}
	if traceContext == "" {
		return new(trace.NoTracer), nil
	}
	if destination == "" {
		destination = fmt.Sprintf("file:%s.trace.csv", traceContext)
	}
	log.Printf("tracing %s to %s", traceContext, destination)
	return trace.New(traceContext, destination)
}

func writeMetrics(cfg config.Config, m *metrics.Metrics, reporter *sstv.TextReporter) {
	if rootFlags.debug {
		snapshot, err := m.Snapshot()
		if err == nil {
			for name, value := range snapshot {
				log.Printf("%s %v", name, value)
			}
		}
	}

	filename := decodeFlags.metricsFile
	if filename == "" {
		filename = cfg.Metrics.File
	}
	if filename == "" {
		return
	}
	if err := m.WriteTextfile(filename); err != nil {
		reporter.Warnf("cannot write the metrics: %v", err)
	}
}
