package sinks

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"k8s.io/klog/v2"
)

// Envelope is the outbound HTTP batch wrapper, ported from the spec's
// "{protocol, encodetime, stationid, station_lat, station_lon,
// receiver{…}, device{…}, msgs[…]}".
type Envelope struct {
	Protocol  string   `json:"protocol"`
	EncodeTime string  `json:"encodetime"`
	StationID string   `json:"stationid"`
	StationLat float64 `json:"station_lat"`
	StationLon float64 `json:"station_lon"`
	Receiver  map[string]any `json:"receiver,omitempty"`
	Device    map[string]any `json:"device,omitempty"`
	Msgs      []json.RawMessage `json:"msgs"`
}

// HTTPSink batches rendered JSON messages and POSTs the batch every
// interval, ported from the spec's "HTTP streamer" (§4.9): "batches
// JSON messages, wraps in {...}, optional gzip, POSTs every INTERVAL
// seconds".
type HTTPSink struct {
	mu         sync.Mutex
	url        string
	stationID  string
	lat, lon   float64
	client     *http.Client
	gzip       bool
	format     Format
	group      stream.GroupMask
	filter     *Filter
	batch      []json.RawMessage
	interval   time.Duration
	stopCh     chan struct{}
}

// NewHTTPSink returns a sink that flushes its batch to url every
// interval.
func NewHTTPSink(url, stationID string, lat, lon float64, gzipBody bool, interval time.Duration, format Format, group stream.GroupMask) *HTTPSink {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	s := &HTTPSink{
		url: url, stationID: stationID, lat: lat, lon: lon,
		client:   &http.Client{Timeout: 10 * time.Second},
		gzip:     gzipBody,
		format:   format,
		group:    group,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
	return s
}

func (s *HTTPSink) SetFilter(f *Filter) { s.filter = f }

func (s *HTTPSink) GroupMask() stream.GroupMask { return s.group }
func (s *HTTPSink) Format() Format               { return s.format }

// Run posts the accumulated batch every interval until ctx is done.
func (s *HTTPSink) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

func (s *HTTPSink) Send(ctx context.Context, m *ais.Message, d ais.Decoded, tag *stream.TAG) error {
	if !s.filter.Allow(m) {
		return nil
	}
	lines := render(s.format, m, d, tag)
	if len(lines) == 0 {
		return nil
	}
	s.mu.Lock()
	s.batch = append(s.batch, json.RawMessage(lines[0]))
	s.mu.Unlock()
	return nil
}

func (s *HTTPSink) flush(ctx context.Context) {
	s.mu.Lock()
	if len(s.batch) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.batch
	s.batch = nil
	s.mu.Unlock()

	env := Envelope{
		Protocol:   "jsonaiscatcher",
		EncodeTime: time.Now().UTC().Format("2006-01-02 15:04:05 UTC"),
		StationID:  s.stationID,
		StationLat: s.lat,
		StationLon: s.lon,
		Msgs:       batch,
	}
	body, err := json.Marshal(env)
	if err != nil {
		klog.Errorf("httpsink: marshal batch failed: %v", err)
		return
	}

	contentType := "application/json"
	if s.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(body); err != nil {
			klog.Errorf("httpsink: gzip failed: %v", err)
			return
		}
		_ = gw.Close()
		body = buf.Bytes()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		klog.Errorf("httpsink: build request failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", contentType)
	if s.gzip {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		klog.Errorf("httpsink: POST to %s failed: %v", s.url, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		klog.Errorf("httpsink: POST to %s returned %s", s.url, resp.Status)
	}
}

func (s *HTTPSink) Close() error {
	close(s.stopCh)
	return nil
}
