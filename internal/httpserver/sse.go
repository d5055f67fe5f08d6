package httpserver

import (
	"github.com/gin-gonic/gin"

	"github.com/AIS-Hub/AISHub/internal/sinks"
)

// sseSubscriberBuffer bounds how far an SSE client can lag before its
// events start dropping (sinks.Broadcaster already drops rather than
// blocks on a full channel).
const sseSubscriberBuffer = 64

// sseHandler streams every line published on hub as a text/event-stream
// event, ported from HTTPServer.h's SSEConnection: plain "Content-Type:
// text/event-stream", "Cache-Control: no-cache" headers, one
// "event: <name>\ndata: <payload>\n\n" frame per message. hub may be
// nil, in which case the endpoint stays open but never emits.
func sseHandler(hub *sinks.Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		if hub == nil {
			<-c.Request.Context().Done()
			return
		}

		ch := hub.Subscribe(sseSubscriberBuffer)
		defer hub.Unsubscribe(ch)

		c.Stream(func(w gin.ResponseWriter) bool {
			select {
			case line, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("message", line)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
