package nmea_test

import (
	"testing"

	"github.com/AIS-Hub/AISHub/internal/hdlc"
	"github.com/AIS-Hub/AISHub/internal/nmea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentenceFor(t *testing.T, body string) string {
	t.Helper()
	cs := hdlc.NMEAChecksum(body)
	return "!" + body + "*" + hexByte(cs)
}

func hexByte(b byte) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[b>>4], hex[b&0xF]})
}

func TestParseValidSingleFragment(t *testing.T) {
	line := sentenceFor(t, "AIVDM,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0")
	s, err := nmea.Parse(line)
	require.NoError(t, err)
	assert.Equal(t, "AIVDM", s.TalkerID)
	assert.False(t, s.Own)
	assert.Equal(t, 1, s.FragCount)
	assert.Equal(t, 1, s.FragIndex)
	assert.Equal(t, byte('A'), s.Channel)
	assert.Equal(t, 0, s.FillBits)
}

func TestParseRejectsBadChecksum(t *testing.T) {
	_, err := nmea.Parse("!AIVDM,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0*00")
	assert.Error(t, err)
}

func TestParseRejectsBadTalker(t *testing.T) {
	line := sentenceFor(t, "GPGGA,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0")
	_, err := nmea.Parse(line)
	assert.Error(t, err)
}

func TestParseRejectsMissingFields(t *testing.T) {
	line := sentenceFor(t, "AIVDM,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa")
	_, err := nmea.Parse(line)
	assert.Error(t, err)
}

func TestParseRejectsOutOfRangeFragIndex(t *testing.T) {
	line := sentenceFor(t, "AIVDM,2,3,1,A,15M67FC000G?ufbE`FepT@3n00Sa,0")
	_, err := nmea.Parse(line)
	assert.Error(t, err)
}

func TestParseOwnMessageAIVDO(t *testing.T) {
	line := sentenceFor(t, "AIVDO,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0")
	s, err := nmea.Parse(line)
	require.NoError(t, err)
	assert.True(t, s.Own)
}

func TestReassemblerSingleFragmentFastPath(t *testing.T) {
	line := sentenceFor(t, "AIVDM,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0")
	s, err := nmea.Parse(line)
	require.NoError(t, err)

	r := nmea.NewReassembler()
	out, err := r.Feed(s)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, []string{line}, out.Raw)
}

func TestReassemblerMultipartHappyPath(t *testing.T) {
	l1 := sentenceFor(t, "AIVDM,2,1,9,A,177KQJ5000G?tO`K>RA1wUbN0TKH,0")
	l2 := sentenceFor(t, "AIVDM,2,2,9,A,00000000000,2")

	r := nmea.NewReassembler()

	s1, err := nmea.Parse(l1)
	require.NoError(t, err)
	out, err := r.Feed(s1)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 1, r.Pending())

	s2, err := nmea.Parse(l2)
	require.NoError(t, err)
	out, err = r.Feed(s2)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, []string{l1, l2}, out.Raw)
	assert.Equal(t, 0, r.Pending())
}

func TestReassemblerDiscardsOutOfSequenceFragment(t *testing.T) {
	l1 := sentenceFor(t, "AIVDM,3,1,7,A,177KQJ5000G?tO`K>RA1wUbN0TKH,0")
	l3 := sentenceFor(t, "AIVDM,3,3,7,A,00000000000,2")

	r := nmea.NewReassembler()
	s1, err := nmea.Parse(l1)
	require.NoError(t, err)
	_, err = r.Feed(s1)
	require.NoError(t, err)

	s3, err := nmea.Parse(l3)
	require.NoError(t, err)
	_, err = r.Feed(s3)
	assert.Error(t, err)
	assert.Equal(t, 0, r.Pending())
}

func TestParseGPSGGA(t *testing.T) {
	fix, ok := nmea.ParseGPS("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	require.True(t, ok)
	assert.InDelta(t, 48.1173, fix.Lat, 1e-3)
	assert.InDelta(t, 11.5167, fix.Lon, 1e-3)
	assert.True(t, fix.Valid)
	assert.Equal(t, "GGA", fix.Source)
}

func TestParseGPSRMCInvalidStatus(t *testing.T) {
	fix, ok := nmea.ParseGPS("$GPRMC,123519,V,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A")
	require.True(t, ok)
	assert.False(t, fix.Valid)
}

func TestParseGPSGLL(t *testing.T) {
	fix, ok := nmea.ParseGPS("$GPGLL,4916.45,N,12311.12,W,225444,A*31")
	require.True(t, ok)
	assert.True(t, fix.Valid)
	assert.Equal(t, "GLL", fix.Source)
}

func TestParseGPSRejectsNonGPSSentence(t *testing.T) {
	line := sentenceFor(t, "AIVDM,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0")
	_, ok := nmea.ParseGPS(line)
	assert.False(t, ok)
}

func TestIsJSONLine(t *testing.T) {
	assert.True(t, nmea.IsJSONLine(`{"channel":"A"}`))
	assert.False(t, nmea.IsJSONLine("!AIVDM,1,1,,A,X,0*00"))
}

func TestParseJSONEnvelope(t *testing.T) {
	env, err := nmea.ParseJSONEnvelope(`{"channel":"A","nmea":["!AIVDM,1,1,,A,X,0*00"]}`)
	require.NoError(t, err)
	assert.Equal(t, "A", env.Channel)
	assert.Equal(t, []string{"!AIVDM,1,1,,A,X,0*00"}, env.NMEA)
}
