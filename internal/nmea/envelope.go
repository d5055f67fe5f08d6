package nmea

import (
	"bytes"
	"encoding/json"
)

// JSONEnvelope recognises an AIS-catcher style JSON line interleaved
// with NMEA text on the same stream (spec §4.5: "a JSON envelope ...
// to recover ... existing NMEA fields"). Only the fields needed to
// recover the embedded NMEA sentence(s) are extracted; anything else
// in the object is ignored here and left to internal/aisjson.
type JSONEnvelope struct {
	Channel string   `json:"channel"`
	NMEA    []string `json:"nmea"`
}

// IsJSONLine reports whether line looks like a JSON object rather than
// a NMEA sentence, so callers can dispatch without trying (and
// failing) a full Parse first.
func IsJSONLine(line string) bool {
	trimmed := bytes.TrimSpace([]byte(line))
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// ParseJSONEnvelope decodes a JSON-wrapped line and returns the
// embedded NMEA sentence(s) it carries, recovering the inner
// !AIVDM/!AIVDO text so it can be run back through Parse.
func ParseJSONEnvelope(line string) (*JSONEnvelope, error) {
	var env JSONEnvelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		return nil, err
	}
	return &env, nil
}
