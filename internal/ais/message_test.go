package ais_test

import (
	"testing"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/stretchr/testify/assert"
)

func bits(s string) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		if c == '1' {
			out[i] = 1
		}
	}
	return out
}

func TestNewMessageExtractsHeader(t *testing.T) {
	// type=1 (000001), repeat=0 (00), then 27 arbitrary mmsi bits
	payload := bits("000001" + "00" + "000000000000000000000000001")
	payload = append(payload, make([]byte, 0)...)
	// pad to at least 38 bits
	for len(payload) < 168 {
		payload = append(payload, 0)
	}
	m := ais.NewMessage(payload, nil, 'A', 0, 0)
	assert.Equal(t, 1, m.Type)
	assert.Equal(t, 0, m.Repeat)
}

func TestUnsignedSigned(t *testing.T) {
	m := &ais.Message{Bits: bits("1111111111111000")} // 16 bits: -8 in 16-bit two's complement
	assert.Equal(t, int64(-8), m.Signed(0, 16))
	assert.Equal(t, uint64(0xFFF8), m.Unsigned(0, 16))
}

func TestValidLatLon(t *testing.T) {
	assert.False(t, ais.ValidLatLon(0, 0))
	assert.False(t, ais.ValidLatLon(91, 0))
	assert.True(t, ais.ValidLatLon(12.5, -45.2))
}

func TestText6TrimsPadding(t *testing.T) {
	// "AB" followed by '@' padding: A=1,B=2 in 6-bit codes
	raw := bits("000001" + "000010" + "000000" + "000000")
	m := &ais.Message{Bits: raw}
	assert.Equal(t, "AB", m.Text6(0, 4))
}
