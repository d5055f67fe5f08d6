package hdlc_test

import (
	"strings"
	"testing"

	"github.com/AIS-Hub/AISHub/internal/hdlc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bitsFromString(s string) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		if c == '1' {
			out[i] = 1
		}
	}
	return out
}

func TestCRC16KnownGoodFrame(t *testing.T) {
	// A payload + its own correct FCS must reduce to GoodResidual.
	// Build a short payload and compute its FCS the same way the
	// encoder side would, then verify ValidFrame on payload+fcs.
	payload := bitsFromString("000001" + "00" + "000000001000000010") // arbitrary 26 bits
	fcs := computeFCSBits(payload)
	framed := append(append([]byte{}, payload...), fcs...)
	assert.True(t, hdlc.ValidFrame(framed))
}

// computeFCSBits derives the 16 FCS bits (transmission order) for a
// payload bit slice using the same reflected-CRC arithmetic as hdlc.CRC16,
// by construction: the FCS is chosen such that CRC16(payload||fcs) ==
// GoodResidual. We find it by running the CRC engine the way a real
// encoder would, one bit at a time with the standard HDLC FCS trick:
// initial remainder 0xFFFF, ones-complement of the final remainder,
// transmitted LSB first.
func computeFCSBits(payload []byte) []byte {
	crc := uint16(0xFFFF)
	for _, bit := range payload {
		toggle := (crc & 1) ^ uint16(bit&1)
		crc >>= 1
		if toggle != 0 {
			crc ^= 0x8408
		}
	}
	fcs := ^crc
	bits := make([]byte, 16)
	for i := 0; i < 16; i++ {
		bits[i] = byte((fcs >> uint(i)) & 1)
	}
	return bits
}

func TestDecoderEndToEndSingleFrame(t *testing.T) {
	payload := bitsFromString("000001" + "00" + "000000001000000010")
	fcs := computeFCSBits(payload)
	framed := append(append([]byte{}, payload...), fcs...)

	stuffed := stuffBits(framed)

	var frames []hdlc.Frame
	dec := hdlc.NewDecoder('A', func(f hdlc.Frame) { frames = append(frames, f) })

	// preamble: >=10 alternations then a repeat to trip into STARTFLAG,
	// then the flag itself, data, then closing flag (6 ones + stop bit
	// handled internally).
	preamble := bitsFromString("0101010101010101010101") // 22 alternating bits
	dec.FeedBits(preamble)
	dec.FeedBits(bitsFromString("01111110"))
	dec.FeedBits(stuffed)
	dec.FeedBits(bitsFromString("0111111"))

	require.Len(t, frames, 1)
	assert.Equal(t, byte('A'), frames[0].Channel)
}

// stuffBits inserts a 0 after every run of five consecutive 1s, as a
// real AIS transmitter would before sending framed bits over the air.
func stuffBits(bits []byte) []byte {
	out := make([]byte, 0, len(bits)+len(bits)/5+1)
	ones := 0
	for _, b := range bits {
		out = append(out, b)
		if b == 1 {
			ones++
			if ones == 5 {
				out = append(out, 0)
				ones = 0
			}
		} else {
			ones = 0
		}
	}
	return out
}

func TestFragmentCountMatchesSpecFormula(t *testing.T) {
	assert.Equal(t, 1, hdlc.FragmentCount(168))
	assert.Equal(t, 2, hdlc.FragmentCount(6*57))
}

func TestArmour6Bit(t *testing.T) {
	assert.Equal(t, byte('0'), hdlc.Armour6Bit(0))
	assert.Equal(t, byte('W'), hdlc.Armour6Bit(39))
	assert.Equal(t, byte('`'), hdlc.Armour6Bit(40))
}

func TestNMEAChecksum(t *testing.T) {
	body := "AIVDM,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0"
	cs := hdlc.NMEAChecksum(body)
	assert.Equal(t, byte(0x5F), cs)
}

func TestEncodeDecodeNMEAPayloadRoundTrip(t *testing.T) {
	bits := bitsFromString("000001" + "00" + "000000001000000010" + "1101")
	payload, fill := hdlc.EncodeNMEAPayload(bits)
	decoded, err := hdlc.DecodeNMEAPayload(payload, fill)
	require.NoError(t, err)
	assert.Equal(t, bits, decoded)
}

func TestAssembleSentencesSingleFragment(t *testing.T) {
	bits := bitsFromString("000001" + "00" + "000000001000000010")
	sentences, err := hdlc.AssembleSentences("", 'A', "", bits)
	require.NoError(t, err)
	require.Len(t, sentences, 1)
	assert.Contains(t, sentences[0], "!AIVDM,1,1,,A,")
	star := strings.LastIndexByte(sentences[0], '*')
	require.NotEqual(t, -1, star)
	assert.Equal(t, hdlc.NMEAChecksum(sentences[0][1:star]), parseHex(t, sentences[0][star+1:]))
}

func parseHex(t *testing.T, s string) byte {
	t.Helper()
	var v byte
	for _, c := range s {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= byte(c - '0')
		case c >= 'A' && c <= 'F':
			v |= byte(c-'A') + 10
		default:
			t.Fatalf("bad hex digit %q", c)
		}
	}
	return v
}
