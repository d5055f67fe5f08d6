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

// UDPSink sends one datagram per rendered sentence, fire-and-forget,
// ported in idiom from the teacher's raw net.UDPConn servers
// (internal/dmr/servers/hbrp) but as a client rather than a listener
// (spec §4.9 "UDP: fire-and-forget datagrams of one sentence each;
// optional periodic socket reset; optional broadcast flag").
type UDPSink struct {
	mu     sync.Mutex
	addr   *net.UDPAddr
	conn   *net.UDPConn
	format Format
	group  stream.GroupMask
	filter *Filter

	broadcast    bool
	resetEvery   time.Duration
	lastReset    time.Time
}

// NewUDPSink dials addr (host:port) and returns a ready UDPSink.
func NewUDPSink(addr string, format Format, group stream.GroupMask, broadcast bool, resetEvery time.Duration) (*UDPSink, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	s := &UDPSink{addr: raddr, format: format, group: group, broadcast: broadcast, resetEvery: resetEvery}
	if err := s.dial(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *UDPSink) dial() error {
	conn, err := net.DialUDP("udp", nil, s.addr)
	if err != nil {
		return err
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn = conn
	s.lastReset = time.Now()
	return nil
}

func (s *UDPSink) SetFilter(f *Filter) { s.filter = f }

func (s *UDPSink) GroupMask() stream.GroupMask { return s.group }
func (s *UDPSink) Format() Format               { return s.format }

func (s *UDPSink) Send(ctx context.Context, m *ais.Message, d ais.Decoded, tag *stream.TAG) error {
	if !s.filter.Allow(m) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resetEvery > 0 && time.Since(s.lastReset) > s.resetEvery {
		if err := s.dial(); err != nil {
			klog.Errorf("udpsink: periodic reset failed: %v", err)
		}
	}

	for _, line := range render(s.format, m, d, tag) {
		if _, err := s.conn.Write([]byte(line + "\r\n")); err != nil {
			klog.Errorf("udpsink: write failed: %v", err)
			return err
		}
	}
	return nil
}

func (s *UDPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
