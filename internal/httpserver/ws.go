package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"k8s.io/klog/v2"

	"github.com/AIS-Hub/AISHub/internal/sinks"
)

// wsSubscriberBuffer mirrors sseSubscriberBuffer: how far a websocket
// client can lag before its messages start dropping.
const wsSubscriberBuffer = 64

const wsWriteTimeout = 5 * time.Second

// upgrader accepts any origin, matching the permissive CORS policy
// applyRoutes/newRouter already sets for the JSON/SSE endpoints (the
// gin cors.Config is what actually governs browser access; this
// upgrader's CheckOrigin would otherwise reject the handshake before
// cors middleware gets a say).
var upgrader = websocket.Upgrader{ //nolint:gochecknoglobals
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsHandler upgrades to a websocket connection and relays every line
// published on hub as one text frame each, the gorilla/websocket
// counterpart to sseHandler for clients that prefer a full-duplex
// socket over text/event-stream (spec's live feed, SPEC_FULL.md §4
// domain-stack entry for gorilla/websocket). The connection is
// write-only from the server's side; any client frame is read and
// discarded so the connection doesn't fill the kernel buffer.
func wsHandler(hub *sinks.Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			klog.V(4).Infof("httpserver: ws upgrade failed: %v", err)
			return
		}
		defer conn.Close() //nolint:errcheck

		if hub == nil {
			<-c.Request.Context().Done()
			return
		}

		ch := hub.Subscribe(wsSubscriberBuffer)
		defer hub.Unsubscribe(ch)

		done := make(chan struct{})
		go discardReads(conn, done)

		for {
			select {
			case line, ok := <-ch:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
					return
				}
			case <-done:
				return
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}

// discardReads drains and drops inbound frames so the client's pings
// and any stray writes don't block the connection; it closes done when
// the client disconnects.
func discardReads(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
