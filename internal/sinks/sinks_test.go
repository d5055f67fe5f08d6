package sinks_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/sinks"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() *ais.Message {
	bits := make([]byte, 168)
	return ais.NewMessage(bits, []string{"!AIVDM,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0*3B"}, 'A', 1000, 0)
}

func TestFilterAllowsEverythingByDefault(t *testing.T) {
	var f *sinks.Filter
	assert.True(t, f.Allow(testMessage()))
}

func TestFilterRestrictsByType(t *testing.T) {
	f := &sinks.Filter{Types: map[int]bool{5: true}}
	assert.False(t, f.Allow(testMessage()))
}

func TestFilterRestrictsByMMSIRange(t *testing.T) {
	m := testMessage()
	m.MMSI = 500
	f := &sinks.Filter{HasRange: true, MMSIMin: 100, MMSIMax: 200}
	assert.False(t, f.Allow(m))
}

func TestUDPSinkSendsDatagram(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer conn.Close()

	sink, err := sinks.NewUDPSink(conn.LocalAddr().String(), sinks.FormatNMEA, stream.AllGroups, false, 0)
	require.NoError(t, err)
	defer sink.Close()

	m := testMessage()
	require.NoError(t, sink.Send(context.Background(), m, ais.Decode(m), &stream.TAG{}))

	buf := make([]byte, 256)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "AIVDM")
}

func TestTCPListenerSinkBroadcastsToClients(t *testing.T) {
	sink, err := sinks.NewTCPListenerSink("127.0.0.1:0", sinks.FormatNMEA, stream.AllGroups)
	require.NoError(t, err)
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sink.Serve(ctx)

	addr := sink.Addr()
	client, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	defer client.Close()

	time.Sleep(50 * time.Millisecond) // allow accept loop to register the client

	m := testMessage()
	require.NoError(t, sink.Send(ctx, m, ais.Decode(m), &stream.TAG{}))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(3*time.Second)))
	buf := make([]byte, 256)
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "AIVDM")
}

func TestHTTPSinkPostsBatch(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		received <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := sinks.NewHTTPSink(srv.URL, "station1", 51.9, 4.1, false, 50*time.Millisecond, sinks.FormatJSONFull, stream.AllGroups)
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sink.Run(ctx)

	m := testMessage()
	require.NoError(t, sink.Send(ctx, m, ais.Decode(m), &stream.TAG{}))

	select {
	case body := <-received:
		assert.Equal(t, "station1", body["stationid"])
		assert.NotEmpty(t, body["msgs"])
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for batch POST")
	}
}

func TestBroadcasterFanOut(t *testing.T) {
	hub := sinks.NewBroadcaster()
	ch := hub.Subscribe(4)
	defer hub.Unsubscribe(ch)

	wsSink := sinks.NewWSSink(hub, sinks.FormatNMEA, stream.AllGroups)
	m := testMessage()
	require.NoError(t, wsSink.Send(context.Background(), m, ais.Decode(m), &stream.TAG{}))

	select {
	case line := <-ch:
		assert.Contains(t, line, "AIVDM")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}
