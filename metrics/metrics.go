// Package metrics counts decode results in a Prometheus registry. The registry can be
// written to a file for the node_exporter textfile collector.
package metrics

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/ftl/desstv/sstv"
)

const namespace = "desstv"

// Metrics is an sstv.Observer that updates Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry
	mode     string

	decodes        *prometheus.CounterVec // completed and truncated images (by mode, result)
	failures       *prometheus.CounterVec // failed decode passes (by reason)
	linesDecoded   *prometheus.CounterVec // decoded lines (by mode)
	callsigns      *prometheus.CounterVec // decoded FSK IDs (by validity)
	headerPosition prometheus.Gauge       // position of the last calibration header
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		decodes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decodes_total",
				Help:      "Number of decoded images",
			},
			[]string{"mode", "result"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decode_failures_total",
				Help:      "Number of failed decode passes",
			},
			[]string{"reason"},
		),
		linesDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_decoded_total",
				Help:      "Number of decoded scan lines",
			},
			[]string{"mode"},
		),
		callsigns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fsk_ids_total",
				Help:      "Number of decoded FSK IDs",
			},
			[]string{"valid"},
		),
		headerPosition: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "header_position_seconds",
				Help:      "Position of the last calibration header in the recording",
			},
		),
	}
}

// Registry gives access to the underlying registry, e.g. to add it to a pusher.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metrics in the text exposition format. The file is
// replaced atomically.
func (m *Metrics) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}

// Snapshot returns the current value of all metrics, keyed by the metric name and its
// labels in the form name{label="value",...}.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	result := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			result[metricKey(family.GetName(), metric.GetLabel())] = metricValue(metric)
		}
	}
	return result, nil
}

func metricKey(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	pairs := make([]string, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, label.GetName()+"=\""+label.GetValue()+"\"")
	}
	sort.Strings(pairs)
	return name + "{" + strings.Join(pairs, ",") + "}"
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}

func (m *Metrics) HeaderSearchProgress(time.Duration) {}

func (m *Metrics) HeaderFound(position time.Duration) {
	m.headerPosition.Set(position.Seconds())
}

func (m *Metrics) ModeDetected(mode *sstv.Mode) {
	m.mode = mode.ShortName
}

func (m *Metrics) LineDecoded(line int, lines int) {
	m.linesDecoded.WithLabelValues(m.mode).Inc()
	if line == lines-1 {
		m.decodes.WithLabelValues(m.mode, "complete").Inc()
	}
}

func (m *Metrics) SignalTruncated(int, int) {
	m.decodes.WithLabelValues(m.mode, "truncated").Inc()
}

func (m *Metrics) CallsignDecoded(_ string, valid bool) {
	if valid {
		m.callsigns.WithLabelValues("true").Inc()
	} else {
		m.callsigns.WithLabelValues("false").Inc()
	}
}

func (m *Metrics) DecodeFailed(err error) {
	m.failures.WithLabelValues(FailureReason(err)).Inc()
}

// FailureReason maps a decode error to a metric label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, sstv.ErrNoSignal):
		return "no_signal"
	case errors.Is(err, sstv.ErrInvalidParity):
		return "invalid_parity"
	case errors.Is(err, sstv.ErrUnsupportedMode):
		return "unsupported_mode"
	case errors.Is(err, sstv.ErrNoImageData):
		return "no_image_data"
	case errors.Is(err, sstv.ErrUnsupportedLayout):
		return "unsupported_layout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
