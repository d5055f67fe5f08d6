package nmea

import (
	"fmt"
	"strconv"
	"strings"
)

// GPSFix is a position fix recovered from an inline $GPGGA, $GPRMC or
// $GPGLL sentence (spec §4.5 "Also parses inline $GPGGA / $GPRMC /
// $GPGLL sentences ... to recover position fixes").
type GPSFix struct {
	Lat, Lon float64
	Valid    bool
	Source   string // "GGA", "RMC", "GLL"
}

// ParseGPS recognises $GPGGA/$GPRMC/$GPGLL (and the talker-agnostic
// $--GGA/$--RMC/$--GLL forms) and extracts a position fix. It returns
// ok=false for any other sentence, including valid AIVDM/AIVDO lines
// (callers should try Parse first).
func ParseGPS(line string) (fix GPSFix, ok bool) {
	line = strings.TrimSpace(line)
	if len(line) < 6 || line[0] != '$' {
		return fix, false
	}
	star := strings.IndexByte(line, '*')
	body := line[1:]
	if star >= 0 {
		body = line[1:star]
	}
	fields := strings.Split(body, ",")
	if len(fields) < 2 || len(fields[0]) != 5 {
		return fix, false
	}
	sentenceType := fields[0][2:]
	switch sentenceType {
	case "GGA":
		return parseGGA(fields)
	case "RMC":
		return parseRMC(fields)
	case "GLL":
		return parseGLL(fields)
	default:
		return fix, false
	}
}

func parseGGA(f []string) (GPSFix, bool) {
	// $--GGA,time,lat,N/S,lon,E/W,quality,...
	if len(f) < 6 {
		return GPSFix{}, false
	}
	lat, okLat := parseLatLon(f[2], f[3], true)
	lon, okLon := parseLatLon(f[4], f[5], false)
	if !okLat || !okLon {
		return GPSFix{}, false
	}
	return GPSFix{Lat: lat, Lon: lon, Valid: true, Source: "GGA"}, true
}

func parseRMC(f []string) (GPSFix, bool) {
	// $--RMC,time,status,lat,N/S,lon,E/W,...
	if len(f) < 7 {
		return GPSFix{}, false
	}
	lat, okLat := parseLatLon(f[3], f[4], true)
	lon, okLon := parseLatLon(f[5], f[6], false)
	if !okLat || !okLon {
		return GPSFix{}, false
	}
	return GPSFix{Lat: lat, Lon: lon, Valid: f[2] == "A", Source: "RMC"}, true
}

func parseGLL(f []string) (GPSFix, bool) {
	// $--GLL,lat,N/S,lon,E/W,time,status,...
	if len(f) < 5 {
		return GPSFix{}, false
	}
	lat, okLat := parseLatLon(f[1], f[2], true)
	lon, okLon := parseLatLon(f[3], f[4], false)
	if !okLat || !okLon {
		return GPSFix{}, false
	}
	valid := true
	if len(f) >= 7 {
		valid = f[6] == "A"
	}
	return GPSFix{Lat: lat, Lon: lon, Valid: valid, Source: "GLL"}, true
}

// parseLatLon decodes an NMEA ddmm.mmmm / dddmm.mmmm coordinate plus
// hemisphere letter into signed decimal degrees.
func parseLatLon(value, hemi string, isLat bool) (float64, bool) {
	if value == "" || hemi == "" {
		return 0, false
	}
	dotIdx := strings.IndexByte(value, '.')
	if dotIdx < 2 {
		return 0, false
	}
	degDigits := dotIdx - 2
	deg, err := strconv.Atoi(value[:degDigits])
	if err != nil {
		return 0, false
	}
	min, err := strconv.ParseFloat(value[degDigits:], 64)
	if err != nil {
		return 0, false
	}
	v := float64(deg) + min/60
	switch strings.ToUpper(hemi) {
	case "S", "W":
		v = -v
	case "N", "E":
	default:
		return 0, false
	}
	if isLat && (v < -90 || v > 90) {
		return 0, false
	}
	if !isLat && (v < -180 || v > 180) {
		return 0, false
	}
	return v, true
}

// String renders the fix for logging.
func (f GPSFix) String() string {
	return fmt.Sprintf("%s fix lat=%.5f lon=%.5f valid=%v", f.Source, f.Lat, f.Lon, f.Valid)
}
