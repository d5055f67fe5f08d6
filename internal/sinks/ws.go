package sinks

import (
	"context"
	"sync"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
)

// Broadcaster fans a rendered line out to every currently-subscribed
// channel; internal/httpserver's SSE/websocket handlers each register
// a channel here and drain it into their own connection, following the
// upgrader-per-connection style of the teacher's
// internal/http/websocket.WSHandler but decoupled from gin/http so
// sinks stays transport-agnostic (spec §4.9 "wssink/SSE — feeds
// internal/httpserver's broadcast hub").
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan string]struct{})}
}

// BroadcastBufferDefault is the subscriber channel buffer internal/pubsub
// uses when bridging a Broadcaster to a remote topic, matching
// sseSubscriberBuffer/wsSubscriberBuffer's sizing in internal/httpserver.
const BroadcastBufferDefault = 64

// PublishExternal fans a line received from another process (via
// internal/pubsub.Hub.Relay) out to this Broadcaster's local
// subscribers, exactly like a locally-rendered line would be.
func (b *Broadcaster) PublishExternal(line string) {
	b.publish(line)
}

// Subscribe registers a new listener channel; callers must call
// Unsubscribe when done to avoid leaking it. The channel is buffered
// so a slow HTTP client doesn't stall the publish path; a full channel
// drops the message for that subscriber rather than blocking.
func (b *Broadcaster) Subscribe(buffer int) chan string {
	ch := make(chan string, buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (b *Broadcaster) Unsubscribe(ch chan string) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) publish(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- line:
		default:
		}
	}
}

// WSSink publishes every rendered message to its Broadcaster, which
// internal/httpserver's SSE/websocket endpoints drain from.
type WSSink struct {
	hub    *Broadcaster
	format Format
	group  stream.GroupMask
	filter *Filter
}

// NewWSSink wires a sink to an existing Broadcaster (typically owned
// by internal/httpserver so the HTTP layer and the stream-fabric sink
// share one hub).
func NewWSSink(hub *Broadcaster, format Format, group stream.GroupMask) *WSSink {
	return &WSSink{hub: hub, format: format, group: group}
}

func (s *WSSink) SetFilter(f *Filter) { s.filter = f }

func (s *WSSink) GroupMask() stream.GroupMask { return s.group }
func (s *WSSink) Format() Format               { return s.format }

func (s *WSSink) Send(ctx context.Context, m *ais.Message, d ais.Decoded, tag *stream.TAG) error {
	if !s.filter.Allow(m) {
		return nil
	}
	for _, line := range render(s.format, m, d, tag) {
		s.hub.publish(line)
	}
	return nil
}

func (s *WSSink) Close() error { return nil }
