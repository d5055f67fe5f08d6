package httpserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/AIS-Hub/AISHub/internal/vessel"
)

// nowFunc is a seam for tests to freeze "now" when checking staleness.
var nowFunc = time.Now

// timeHistorySeconds bounds how stale a ship may be and still appear
// in /ships.geojson and /kml, ported from Tracking/DB.cpp's
// TIME_HISTORY cutoff (the original's default "don't show a ship
// we've not heard from in an hour").
const timeHistorySeconds = 3600

type geoFeature struct {
	Type       string         `json:"type"`
	Geometry   geoGeometry    `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geoGeometry struct {
	Type        string    `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// shipsGeoJSON builds the /ships.geojson FeatureCollection, ported
// from DB::getGeoJSON: one Point feature per ship newer than
// timeHistorySeconds, [lon,lat] coordinate order per the GeoJSON spec.
func shipsGeoJSON(ships []vessel.Ship, staleAfter int64) map[string]any {
	features := make([]geoFeature, 0, len(ships))
	for _, s := range ships {
		if s.MMSI == 0 || !vessel.ValidCoord(s.Lat, s.Lon) {
			continue
		}
		if staleAfter >= 0 && ageSeconds(s) > staleAfter {
			continue
		}
		features = append(features, geoFeature{
			Type: "Feature",
			Geometry: geoGeometry{
				Type:        "Point",
				Coordinates: [2]float64{s.Lon, s.Lat},
			},
			Properties: map[string]any{
				"mmsi":     s.MMSI,
				"shipname": shipNameWithVirtualAidSuffix(s),
				"shiptype": s.ShipType,
				"cog":      s.COG,
				"speed":    s.Speed,
			},
		})
	}
	return map[string]any{
		"type":      "FeatureCollection",
		"time_span": timeHistorySeconds,
		"features":  features,
	}
}

// pathGeoJSON renders one ship's track as a LineString Feature, ported
// from DB::getSinglePathGeoJSON.
func pathGeoJSON(mmsi uint32, points []vessel.PathPoint) map[string]any {
	coords := make([][2]float64, 0, len(points))
	for _, p := range points {
		if vessel.ValidCoord(float64(p.Lat), float64(p.Lon)) {
			coords = append(coords, [2]float64{float64(p.Lon), float64(p.Lat)})
		}
	}
	return map[string]any{
		"type": "Feature",
		"geometry": map[string]any{
			"type":        "LineString",
			"coordinates": coords,
		},
		"properties": map[string]any{"mmsi": mmsi},
	}
}

// pathJSON renders one ship's track as a bare [[lat,lon],...] array,
// ported from DB::getSinglePathJSON.
func pathJSON(points []vessel.PathPoint) [][2]float64 {
	out := make([][2]float64, 0, len(points))
	for _, p := range points {
		if vessel.ValidCoord(float64(p.Lat), float64(p.Lon)) {
			out = append(out, [2]float64{float64(p.Lat), float64(p.Lon)})
		}
	}
	return out
}

// kmlDocument renders every non-stale ship as a KML Placemark, ported
// from DB::getKML/Ship::getKML.
func kmlDocument(ships []vessel.Ship, staleAfter int64) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><kml xmlns="http://www.opengis.net/kml/2.2"><Document>`)
	for _, s := range ships {
		if s.MMSI == 0 || !vessel.ValidCoord(s.Lat, s.Lon) {
			continue
		}
		if staleAfter >= 0 && ageSeconds(s) > staleAfter {
			continue
		}
		name := shipNameWithVirtualAidSuffix(s)
		if name == "" {
			name = fmt.Sprintf("%d", s.MMSI)
		}
		fmt.Fprintf(&b,
			`<Placemark><name>%s</name><description>MMSI: %d</description><Point><coordinates>%f,%f,0</coordinates></Point></Placemark>`,
			xmlEscape(name), s.MMSI, s.Lon, s.Lat)
	}
	b.WriteString(`</Document></kml>`)
	return b.String()
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func ageSeconds(s vessel.Ship) int64 {
	if s.LastSignal.IsZero() {
		return 1 << 62
	}
	return int64(nowFunc().Sub(s.LastSignal).Seconds())
}
