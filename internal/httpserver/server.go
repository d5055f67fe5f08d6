// Package httpserver exposes the receiver's vessel table, statistics
// and live message feed over HTTP, following the gin setup in the
// teacher's internal/http.Server/MakeServer (gin.SetMode, a plain
// *http.Server wrapper with a shutdown channel, pprof mounted under
// Debug, gin-contrib/cors) adapted from DMRHub's REST+websocket API to
// the endpoints described in
// _examples/original_source/Source/IO/HTTPServer.h and
// Tracking/DB.cpp's getJSON/getGeoJSON/getKML/getAllPathJSON family
// (spec §6, SPEC_FULL.md §14).
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"k8s.io/klog/v2"

	"github.com/AIS-Hub/AISHub/internal/sinks"
	"github.com/AIS-Hub/AISHub/internal/stats"
	"github.com/AIS-Hub/AISHub/internal/tracing"
	"github.com/AIS-Hub/AISHub/internal/vessel"
)

// Config controls the listener and middleware, mirroring the handful
// of config.GetConfig() fields the teacher's MakeServer/addMiddleware
// read (ListenAddr, HTTPPort, CORSHosts, Debug), but passed explicitly
// since this package doesn't depend on DMRHub's global config.
type Config struct {
	ListenAddr string
	Port       int
	CORSHosts  []string
	Debug      bool
}

const (
	defReadTimeout  = 10 * time.Second
	defWriteTimeout = 10 * time.Second
)

// Server wraps http.Server the way the teacher's internal/http.Server
// does, so callers can start it in a goroutine and Shutdown it on
// signal.
type Server struct {
	*http.Server
}

// New builds the gin engine and HTTP server. hub carries the three SSE
// topics ("ais_catcher", "nmea", "log"); any of its Broadcasters may be
// nil, in which case that topic's endpoint reports no events.
func New(cfg Config, vdb *vessel.DB, tracker *stats.Tracker, hub Hubs) Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(cfg, vdb, tracker, hub)

	s := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ListenAddr, cfg.Port),
		Handler:      r,
		ReadTimeout:  defReadTimeout,
		WriteTimeout: defWriteTimeout,
	}
	klog.Infof("httpserver: listening at %s", s.Addr)
	return Server{s}
}

// Hubs carries the live SSE feeds the routes subscribe to.
type Hubs struct {
	AISCatcher *sinks.Broadcaster // JSON-rendered decoded messages
	NMEA       *sinks.Broadcaster // raw NMEA sentences
	Log        *sinks.Broadcaster // log lines
}

func newRouter(cfg Config, vdb *vessel.DB, tracker *stats.Tracker, hub Hubs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(tracingMiddleware())

	if cfg.Debug {
		pprof.Register(r)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSHosts
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	applyRoutes(r, vdb, tracker, hub)
	return r
}

// Shutdown gracefully stops the server, matching the teacher's
// Server.Stop pattern of a context-bound http.Server.Shutdown.
func (s Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

// tracingMiddleware opens one span per request, ported from the
// teacher's internal/http/api/middleware.TracingProvider (there gated
// on an OTLP endpoint being configured; here the span is always opened
// since the sampler is process-wide, see internal/tracing).
func tracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), "http."+c.Request.Method+" "+c.FullPath())
		defer span.End()
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.path", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}
