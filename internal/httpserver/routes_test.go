package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/httpserver"
	"github.com/AIS-Hub/AISHub/internal/sinks"
	"github.com/AIS-Hub/AISHub/internal/stats"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"github.com/AIS-Hub/AISHub/internal/vessel"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) (*gin.Engine, *vessel.DB, *stats.Tracker, httpserver.Hubs) {
	t.Helper()
	vdb := vessel.NewDB(64, 256)
	tracker := stats.NewTracker()
	hub := httpserver.Hubs{AISCatcher: sinks.NewBroadcaster()}
	srv := httpserver.New(httpserver.Config{ListenAddr: "127.0.0.1", Port: 0}, vdb, tracker, hub)
	return srv.Handler.(*gin.Engine), vdb, tracker, hub
}

func positionMessage(mmsi uint32) *ais.Message {
	bits := make([]byte, 168)
	m := ais.NewMessage(bits, []string{"!AIVDM,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0*3B"}, 'A', time.Now().Unix(), 0)
	m.MMSI = mmsi
	m.Type = 1
	return m
}

func TestShipsJSONEmpty(t *testing.T) {
	router, _, _, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ships.json", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["count"])
}

func TestShipsJSONAfterUpdate(t *testing.T) {
	router, vdb, _, _ := testRouter(t)

	m := positionMessage(123456789)
	vdb.Update(m, ais.Decode(m), &stream.TAG{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ships.json", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "123456789")
}

func TestSingleShipNotFound(t *testing.T) {
	router, _, _, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ships/123456789", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsJSON(t *testing.T) {
	router, _, tracker, _ := testRouter(t)
	tracker.Add(positionMessage(1), &stream.TAG{}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats.json", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "total")
}

func TestKMLContentType(t *testing.T) {
	router, _, _, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/kml", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.google-earth.kml+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<kml")
}

func TestMessagesJSONDrainsHub(t *testing.T) {
	router, _, _, hub := testRouter(t)
	hub.AISCatcher.Subscribe(0) // a no-op subscriber so publish always has at least one reader path exercised
	m := positionMessage(1)
	sink := sinks.NewWSSink(hub.AISCatcher, sinks.FormatNMEA, stream.AllGroups)
	require.NoError(t, sink.Send(nil, m, ais.Decode(m), &stream.TAG{}))

	time.Sleep(20 * time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/messages.json", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
