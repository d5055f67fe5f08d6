package sinks

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/queue"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"k8s.io/klog/v2"
)

const (
	tcpListenerMaxClients  = 16
	tcpListenerClientBytes = 8 * 1024 * 1024 // 8 MiB per-client buffer
	tcpListenerIdleTimeout = 30 * time.Second
)

// TCPListenerSink accepts up to 16 clients and fans rendered sentences
// out to each over a bounded per-client outbound queue, dropping the
// client if its buffer fills (spec §4.9 "TCP listener: accept up to 16
// clients, per-client outbound buffer ≤8 MiB, inactive timeout (default
// 30s)... drop clients on full buffer"). The per-client queue is
// adapted from the teacher's internal/queue.Queue, generalized with a
// byte-capacity ceiling.
type TCPListenerSink struct {
	mu       sync.Mutex
	ln       net.Listener
	clients  map[string]net.Conn
	outbox   *queue.Queue
	format   Format
	group    stream.GroupMask
	filter   *Filter
	lastSeen map[string]time.Time
}

// NewTCPListenerSink starts listening on addr and returns a sink ready
// to accept clients; call Serve in a goroutine to begin accepting.
func NewTCPListenerSink(addr string, format Format, group stream.GroupMask) (*TCPListenerSink, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TCPListenerSink{
		ln:       ln,
		clients:  make(map[string]net.Conn),
		outbox:   queue.NewBoundedQueue(tcpListenerClientBytes),
		format:   format,
		group:    group,
		lastSeen: make(map[string]time.Time),
	}, nil
}

func (s *TCPListenerSink) SetFilter(f *Filter) { s.filter = f }

// Addr returns the listener's bound address (host:port), useful when
// the caller passed port 0 to let the OS choose one.
func (s *TCPListenerSink) Addr() string { return s.ln.Addr().String() }

func (s *TCPListenerSink) GroupMask() stream.GroupMask { return s.group }
func (s *TCPListenerSink) Format() Format               { return s.format }

// Serve accepts clients until ctx is cancelled or the listener closes,
// per the spec's "stop atomic checked at top of each accept loop"
// cancellation model (here, ctx.Done in place of a shared atomic).
func (s *TCPListenerSink) Serve(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = s.ln.Close()
	}()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			klog.Errorf("tcplistenersink: accept failed: %v", err)
			return
		}
		s.mu.Lock()
		if len(s.clients) >= tcpListenerMaxClients {
			s.mu.Unlock()
			_ = conn.Close()
			continue
		}
		key := conn.RemoteAddr().String()
		s.clients[key] = conn
		s.lastSeen[key] = time.Now()
		s.mu.Unlock()
		go s.drainLoop(ctx, key, conn)
	}
}

// drainLoop flushes outbox entries for key to conn until it's idle too
// long, the connection errors, or ctx is done.
func (s *TCPListenerSink) drainLoop(ctx context.Context, key string, conn net.Conn) {
	defer s.removeClient(key, conn)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if time.Since(s.lastSeen[key]) > tcpListenerIdleTimeout {
				s.mu.Unlock()
				return
			}
			lines := s.outbox.Drain(key)
			s.mu.Unlock()
			for _, line := range lines {
				_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
				if _, err := conn.Write(line); err != nil {
					return
				}
			}
		}
	}
}

func (s *TCPListenerSink) removeClient(key string, conn net.Conn) {
	s.mu.Lock()
	delete(s.clients, key)
	delete(s.lastSeen, key)
	s.mu.Unlock()
	s.outbox.Delete(key)
	_ = conn.Close()
}

// Send enqueues the rendered message for every connected client,
// dropping (rather than blocking) any client whose buffer is full.
func (s *TCPListenerSink) Send(ctx context.Context, m *ais.Message, d ais.Decoded, tag *stream.TAG) error {
	if !s.filter.Allow(m) {
		return nil
	}
	payload := []byte(joinSentences(render(s.format, m, d, tag)))

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.clients {
		s.lastSeen[key] = time.Now()
		if _, err := s.outbox.Push(key, payload); err != nil {
			klog.Warningf("tcplistenersink: dropping client %s: %v", key, err)
			_ = s.clients[key].Close()
			delete(s.clients, key)
			delete(s.lastSeen, key)
			s.outbox.Delete(key)
		}
	}
	return nil
}

func (s *TCPListenerSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		_ = c.Close()
	}
	return s.ln.Close()
}
