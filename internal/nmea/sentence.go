// Package nmea implements the NMEA 0183 AIVDM/AIVDO tokeniser and
// multipart reassembler (spec §4.5). It accepts a text stream — from a
// serial/TCP/UDP source, from a file, or internally from
// internal/hdlc's assembled sentences when operating end-to-end from
// IQ samples — validates each sentence, and reassembles multipart
// groups keyed by (talker, channel, group id) using a TTL cache so a
// stalled sequence is evicted instead of leaking memory.
package nmea

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AIS-Hub/AISHub/internal/hdlc"
)

// Sentence is one parsed, checksum-valid !AIVDM/!AIVDO line (spec §3
// "NMEA sentence").
type Sentence struct {
	Raw       string
	Own       bool // AIVDO (own-ship) vs AIVDM (received)
	TalkerID  string
	FragCount int
	FragIndex int
	GroupID   string // empty if absent
	Channel   byte
	Payload   string
	FillBits  int
}

// Parse tokenises and validates one line per spec §4.5:
//   - prefix '!' or '$', talker length 6 (e.g. "AIVDM "->AIVDM is 5 +
//     type char: the full tag "AIVDM"/"AIVDO" is 5 chars, so the
//     leading field including the '!'/'$' is 6 characters),
//   - 7 comma-separated fields after the tag,
//   - fragment count a, fragment index b in 1..a,
//   - group id numeric or empty,
//   - channel alphanumeric or '?',
//   - payload only valid 6-bit armour characters,
//   - fillbits in 0..5,
//   - XOR checksum matches *HH.
func Parse(line string) (*Sentence, error) {
	line = strings.TrimSpace(line)
	if len(line) < 7 {
		return nil, fmt.Errorf("nmea: line too short: %q", line)
	}
	if line[0] != '!' && line[0] != '$' {
		return nil, fmt.Errorf("nmea: missing ! or $ prefix")
	}
	star := strings.LastIndexByte(line, '*')
	if star < 0 || star+3 > len(line) {
		return nil, fmt.Errorf("nmea: missing checksum")
	}
	body := line[1:star]
	wantCS, err := strconv.ParseUint(line[star+1:star+3], 16, 8)
	if err != nil {
		return nil, fmt.Errorf("nmea: bad checksum digits: %w", err)
	}
	if hdlc.NMEAChecksum(body) != byte(wantCS) {
		return nil, fmt.Errorf("nmea: checksum mismatch")
	}

	tag := line[1:6]
	if len(tag) != 5 {
		return nil, fmt.Errorf("nmea: talker tag must be 5 characters, got %q", tag)
	}
	if tag != "AIVDM" && tag != "AIVDO" {
		return nil, fmt.Errorf("nmea: unsupported talker tag %q", tag)
	}

	fields := strings.Split(body, ",")
	// fields[0] = "AIVDM"/"AIVDO", then count,index,groupid,channel,payload,fillbits = 7 total
	if len(fields) != 7 {
		return nil, fmt.Errorf("nmea: expected 7 comma-separated fields, got %d", len(fields))
	}

	count, err := strconv.Atoi(fields[1])
	if err != nil || count < 1 {
		return nil, fmt.Errorf("nmea: bad fragment count %q", fields[1])
	}
	idx, err := strconv.Atoi(fields[2])
	if err != nil || idx < 1 || idx > count {
		return nil, fmt.Errorf("nmea: fragment index %q out of range 1..%d", fields[2], count)
	}
	groupID := fields[3]
	if groupID != "" {
		if _, err := strconv.Atoi(groupID); err != nil {
			return nil, fmt.Errorf("nmea: group id %q not numeric", groupID)
		}
	}
	if len(fields[4]) != 1 {
		return nil, fmt.Errorf("nmea: channel field must be one character")
	}
	channel := fields[4][0]
	if !isChannelChar(channel) {
		return nil, fmt.Errorf("nmea: invalid channel %q", fields[4])
	}
	payload := fields[5]
	for i := 0; i < len(payload); i++ {
		if _, ok := hdlc.Unarmour6Bit(payload[i]); !ok {
			return nil, fmt.Errorf("nmea: invalid armour character %q in payload", payload[i])
		}
	}
	fill, err := strconv.Atoi(fields[6])
	if err != nil || fill < 0 || fill > 5 {
		return nil, fmt.Errorf("nmea: fillbits %q out of range 0..5", fields[6])
	}

	return &Sentence{
		Raw:       line,
		Own:       tag == "AIVDO",
		TalkerID:  tag,
		FragCount: count,
		FragIndex: idx,
		GroupID:   groupID,
		Channel:   channel,
		Payload:   payload,
		FillBits:  fill,
	}, nil
}

func isChannelChar(c byte) bool {
	if c == '?' {
		return true
	}
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
