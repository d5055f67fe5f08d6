// Package sinks implements AISHub's output collaborators: UDP/TCP/HTTP/
// MQTT/database/websocket destinations that each render a decoded AIS
// message in one wire format and forward it (spec §4.9, grounded on
// the common StreamIn<T> contract described for the original's output
// stages, and on the teacher's UDP/TCP server code in
// internal/dmr/servers for the raw-socket idiom).
package sinks

import (
	"context"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
)

// Format selects the wire representation a Sink renders a message
// into, ported from the spec's MSGFORMAT enumeration.
type Format int

const (
	FormatNMEA Format = iota
	FormatBinaryNMEA
	FormatJSONNMEA
	FormatJSONFull
	FormatJSONSparse
	FormatJSONAnnotated
)

// Sink is the common contract every output collaborator satisfies
// (spec §4.9 "each sink is a StreamIn<T>... specified only by their
// common contract").
type Sink interface {
	// Send renders and forwards one message. Implementations must not
	// retain m or tag beyond the call.
	Send(ctx context.Context, m *ais.Message, d ais.Decoded, tag *stream.TAG) error
	GroupMask() stream.GroupMask
	Format() Format
	Close() error
}

// Filter narrows which messages reach a Sink by type and MMSI range,
// the "filter options (types, mmsi ranges, geography)" common config
// named in spec §4.9.
type Filter struct {
	Types    map[int]bool
	MMSIMin  uint32
	MMSIMax  uint32
	HasRange bool
}

// Allow reports whether m passes this filter. A nil or zero-value
// Filter allows everything.
func (f *Filter) Allow(m *ais.Message) bool {
	if f == nil {
		return true
	}
	if len(f.Types) > 0 && !f.Types[m.Type] {
		return false
	}
	if f.HasRange && (m.MMSI < f.MMSIMin || m.MMSI > f.MMSIMax) {
		return false
	}
	return true
}
