package sinks

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"k8s.io/klog/v2"
)

// TCPClientSink is a persistent outbound TCP connection with reconnect
// backoff, ported in idiom from the teacher's reconnect patterns for
// Redis/DB clients (a plain time.Timer backoff, per SPEC_FULL's note
// that golang.org/x/sync isn't needed here) rather than a hand-rolled
// state machine (spec §4.9 "TCP client: persistent connection with
// reconnect backoff, non-blocking writes, keep-alive").
type TCPClientSink struct {
	mu      sync.Mutex
	addr    string
	conn    net.Conn
	format  Format
	group   stream.GroupMask
	filter  *Filter
	backoff time.Duration
	maxBack time.Duration
}

// NewTCPClientSink returns a TCPClientSink that connects lazily on
// first Send and reconnects with exponential backoff (capped at
// maxBackoff) on failure.
func NewTCPClientSink(addr string, format Format, group stream.GroupMask, maxBackoff time.Duration) *TCPClientSink {
	if maxBackoff <= 0 {
		maxBackoff = 60 * time.Second
	}
	return &TCPClientSink{addr: addr, format: format, group: group, backoff: time.Second, maxBack: maxBackoff}
}

func (s *TCPClientSink) SetFilter(f *Filter) { s.filter = f }

func (s *TCPClientSink) GroupMask() stream.GroupMask { return s.group }
func (s *TCPClientSink) Format() Format               { return s.format }

func (s *TCPClientSink) ensureConnected() error {
	if s.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout("tcp", s.addr, 5*time.Second)
	if err != nil {
		return err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetKeepAlive(true)
		_ = tc.SetKeepAlivePeriod(30 * time.Second)
	}
	s.conn = conn
	s.backoff = time.Second
	return nil
}

func (s *TCPClientSink) Send(ctx context.Context, m *ais.Message, d ais.Decoded, tag *stream.TAG) error {
	if !s.filter.Allow(m) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureConnected(); err != nil {
		klog.Errorf("tcpclientsink: connect to %s failed, retrying in %s: %v", s.addr, s.backoff, err)
		timer := time.NewTimer(s.backoff)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		if s.backoff *= 2; s.backoff > s.maxBack {
			s.backoff = s.maxBack
		}
		return err
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := s.conn.Write([]byte(joinSentences(render(s.format, m, d, tag)))); err != nil {
		klog.Errorf("tcpclientsink: write to %s failed, will reconnect: %v", s.addr, err)
		_ = s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *TCPClientSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
