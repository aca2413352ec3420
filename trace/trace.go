// Package trace writes the intermediate values of the decoding stages as ';'-separated
// rows to a file or a UDP destination, for analysis with external tools.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
)

// The contexts that can be traced.
const (
	Header = "header"
	VIS    = "vis"
	Sync   = "sync"
	Pixel  = "pixel"
	FSKID  = "fskid"
)

var Contexts = []string{Header, VIS, Sync, Pixel, FSKID}

type Tracer interface {
	Context() string
	Start() error
	Trace(context string, format string, args ...any)
	Stop() error
}

type NoTracer struct{}

func (t *NoTracer) Context() string              { return "" }
func (t *NoTracer) Start() error                 { return nil }
func (t *NoTracer) Trace(string, string, ...any) {}
func (t *NoTracer) Stop() error                  { return nil }

// New creates a tracer for the given context. The destination is either
// "file:<filename>" or "udp:<host:port>".
func New(context string, destination string) (Tracer, error) {
	if !validContext(context) {
		return nil, fmt.Errorf("unknown trace context %q, use one of %s", context, strings.Join(Contexts, ", "))
	}

	protocol, target, found := strings.Cut(destination, ":")
	if !found || target == "" {
		return nil, fmt.Errorf("invalid trace destination %q, use file:<filename> or udp:<host:port>", destination)
	}

	switch strings.ToLower(protocol) {
	case "file":
		return NewFileTracer(context, target), nil
	case "udp":
		tracer, err := NewUDPTracer(context, target)
		if err != nil {
			return nil, err
		}
		return tracer, nil
	default:
		return nil, fmt.Errorf("unknown trace protocol %q", protocol)
	}
}

func validContext(context string) bool {
	for _, c := range Contexts {
		if c == context {
			return true
		}
	}
	return false
}

// FileTracer writes the trace rows of one context into a file.
type FileTracer struct {
	context  string
	filename string
	file     io.WriteCloser
	out      *bufio.Writer
}

func NewFileTracer(context string, filename string) *FileTracer {
	return &FileTracer{
		context:  context,
		filename: filename,
	}
}

func (t *FileTracer) Context() string {
	return t.context
}

func (t *FileTracer) Start() error {
	if t.out != nil {
		return nil
	}

	file, err := os.Create(t.filename)
	if err != nil {
		return fmt.Errorf("cannot start trace: %w", err)
	}
	t.file = file
	t.out = bufio.NewWriter(file)
	return nil
}

func (t *FileTracer) Trace(context string, format string, args ...any) {
	if t.out == nil || context != t.context {
		return
	}

	fmt.Fprintf(t.out, format, args...)
}

func (t *FileTracer) Stop() error {
	if t.out == nil {
		return nil
	}

	err := t.out.Flush()
	closeErr := t.file.Close()
	t.out = nil
	t.file = nil
	if err != nil {
		return err
	}
	return closeErr
}

// UDPTracer sends each trace row of one context as a UDP datagram.
type UDPTracer struct {
	context string
	addr    *net.UDPAddr
	conn    *net.UDPConn
}

func NewUDPTracer(context string, destination string) (*UDPTracer, error) {
	addr, err := net.ResolveUDPAddr("udp", destination)
	if err != nil {
		return nil, fmt.Errorf("cannot parse UDP destination: %w", err)
	}
	return &UDPTracer{
		context: context,
		addr:    addr,
	}, nil
}

func (t *UDPTracer) Context() string {
	return t.context
}

func (t *UDPTracer) Start() error {
	if t.conn != nil {
		return nil
	}

	conn, err := net.DialUDP("udp", nil, t.addr)
	if err != nil {
		return fmt.Errorf("cannot start trace: %w", err)
	}
	t.conn = conn
	return nil
}

func (t *UDPTracer) Trace(context string, format string, args ...any) {
	if t.conn == nil || context != t.context {
		return
	}

	fmt.Fprintf(t.conn, format, args...)
}

func (t *UDPTracer) Stop() error {
	if t.conn == nil {
		return nil
	}

	err := t.conn.Close()
	t.conn = nil
	return err
}
