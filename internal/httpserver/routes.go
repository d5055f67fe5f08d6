package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AIS-Hub/AISHub/internal/stats"
	"github.com/AIS-Hub/AISHub/internal/vessel"
)

// messageRingCapacity bounds the /messages.json in-memory history.
const messageRingCapacity = 500

// cacheStatic/cacheDynamic are the Cache-Control headers the spec
// calls for: static assets cached a year, anything touching live
// receiver state never cached (spec §6/SPEC_FULL.md §14).
const (
	cacheStatic  = "public, max-age=31536000, immutable"
	cacheDynamic = "no-store"
)

func applyRoutes(r *gin.Engine, vdb *vessel.DB, tracker *stats.Tracker, hub Hubs) {
	recent := newMessageRing(messageRingCapacity)
	if hub.AISCatcher != nil {
		go recent.follow(hub.AISCatcher.Subscribe(messageRingCapacity))
	}

	r.GET("/ships.json", func(c *gin.Context) {
		c.Header("Cache-Control", cacheDynamic)
		ships := vdb.All()
		now := time.Now()
		out := make([]shipJSON, 0, len(ships))
		for _, s := range ships {
			if s.MMSI == 0 {
				continue
			}
			out = append(out, toShipJSON(s, now))
		}
		c.JSON(http.StatusOK, shipsResponse{Count: vdb.Count(), Ships: out, Error: false})
	})

	r.GET("/ships/:mmsi", func(c *gin.Context) {
		c.Header("Cache-Control", cacheDynamic)
		mmsi, err := strconv.ParseUint(c.Param("mmsi"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mmsi"})
			return
		}
		s, ok := vdb.Get(uint32(mmsi))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, toShipJSON(s, time.Now()))
	})

	r.GET("/ships.geojson", func(c *gin.Context) {
		c.Header("Cache-Control", cacheDynamic)
		c.JSON(http.StatusOK, shipsGeoJSON(vdb.All(), timeHistorySeconds))
	})

	r.GET("/path.json", func(c *gin.Context) {
		c.Header("Cache-Control", cacheDynamic)
		mmsi, err := strconv.ParseUint(c.Query("mmsi"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mmsi"})
			return
		}
		points := vdb.Path(uint32(mmsi))
		if c.Query("geojson") != "" {
			c.JSON(http.StatusOK, pathGeoJSON(uint32(mmsi), points))
			return
		}
		c.JSON(http.StatusOK, pathJSON(points))
	})

	r.GET("/kml", func(c *gin.Context) {
		c.Header("Cache-Control", cacheDynamic)
		c.Data(http.StatusOK, "application/vnd.google-earth.kml+xml", []byte(kmlDocument(vdb.All(), timeHistorySeconds)))
	})

	r.GET("/stats.json", func(c *gin.Context) {
		c.Header("Cache-Control", cacheDynamic)
		c.JSON(http.StatusOK, tracker.JSON())
	})

	r.GET("/messages.json", func(c *gin.Context) {
		c.Header("Cache-Control", cacheDynamic)
		c.JSON(http.StatusOK, gin.H{"messages": recent.snapshot()})
	})

	sse := r.Group("/sse")
	sse.GET("/ais_catcher", sseHandler(hub.AISCatcher))
	sse.GET("/nmea", sseHandler(hub.NMEA))
	sse.GET("/log", sseHandler(hub.Log))

	ws := r.Group("/ws")
	ws.GET("/ais_catcher", wsHandler(hub.AISCatcher))
	ws.GET("/nmea", wsHandler(hub.NMEA))
	ws.GET("/log", wsHandler(hub.Log))
}
