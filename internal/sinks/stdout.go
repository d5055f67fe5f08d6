package sinks

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
)

// StdoutSink writes rendered sentences/objects to a writer, one per
// line, backing spec §6's "-o nmea|json|jsonfull|none" stdout
// rendering option. It follows the same render()-then-write shape as
// UDPSink/TCPClientSink; Send returns any write error, which the
// receiver's dispatch logs before carrying on with the other sinks.
type StdoutSink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	format Format
	group  stream.GroupMask
	filter *Filter
}

// NewStdoutSink wraps w (typically os.Stdout) as a Sink.
func NewStdoutSink(w io.Writer, format Format, group stream.GroupMask) *StdoutSink {
	return &StdoutSink{w: bufio.NewWriter(w), format: format, group: group}
}

// SetFilter installs a message filter, mirroring the other sinks'
// optional type/MMSI narrowing (spec §4.9).
func (s *StdoutSink) SetFilter(f *Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

func (s *StdoutSink) Send(_ context.Context, m *ais.Message, d ais.Decoded, tag *stream.TAG) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.filter.Allow(m) {
		return nil
	}
	for _, line := range render(s.format, m, d, tag) {
		if _, err := s.w.WriteString(line); err != nil {
			return err
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

func (s *StdoutSink) GroupMask() stream.GroupMask { return s.group }
func (s *StdoutSink) Format() Format               { return s.format }

// Close flushes any buffered output. The underlying writer (os.Stdout)
// is left open; it is not this sink's to close.
func (s *StdoutSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
