package vessel_test

import (
	"bytes"
	"testing"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"github.com/AIS-Hub/AISHub/internal/vessel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positionMessage(mmsi uint32, typ int) *ais.Message {
	bits := make([]byte, 168)
	writeUnsigned(bits, 0, 6, uint64(typ))
	writeUnsigned(bits, 8, 30, uint64(mmsi))
	// lat/lon near Rotterdam, scaled by 600000
	writeSigned(bits, 89, 27, int64(51.9*600000))
	writeSigned(bits, 61, 28, int64(4.1*600000))
	return ais.NewMessage(bits, nil, 'A', 1000, 0)
}

func writeUnsigned(bits []byte, start, length int, v uint64) {
	for i := length - 1; i >= 0; i-- {
		bits[start+i] = byte(v & 1)
		v >>= 1
	}
}

func writeSigned(bits []byte, start, length int, v int64) {
	writeUnsigned(bits, start, length, uint64(v)&((1<<uint(length))-1))
}

// speedMessage is a type 1 position report carrying a specific SOG, used
// to establish a ship's stored speed ahead of a type 27 overwrite test.
func speedMessage(mmsi uint32, lat, lon, sogKnots float64, rxTimeUnix int64) *ais.Message {
	bits := make([]byte, 168)
	writeUnsigned(bits, 0, 6, 1)
	writeUnsigned(bits, 8, 30, uint64(mmsi))
	writeUnsigned(bits, 50, 10, uint64(sogKnots*10))
	writeSigned(bits, 61, 28, int64(lon*600000))
	writeSigned(bits, 89, 27, int64(lat*600000))
	return ais.NewMessage(bits, nil, 'A', rxTimeUnix, 0)
}

// longRangeMessage is a type 27 long-range position report (spec §3's
// "absent, approximate, or stale past a speed-dependent timeout"
// overwrite rule).
func longRangeMessage(mmsi uint32, lat, lon float64, rxTimeUnix int64) *ais.Message {
	bits := make([]byte, 96)
	writeUnsigned(bits, 0, 6, 27)
	writeUnsigned(bits, 8, 30, uint64(mmsi))
	writeSigned(bits, 44, 18, int64(lon*600))
	writeSigned(bits, 62, 17, int64(lat*600))
	return ais.NewMessage(bits, nil, 'A', rxTimeUnix, 0)
}

func TestUpdateCreatesAndFindsShip(t *testing.T) {
	db := vessel.NewDB(16, 256)
	m := positionMessage(123456789, 1)
	decoded := ais.Decode(m)

	tag := &stream.TAG{}
	ship := db.Update(m, decoded, tag)
	require.NotNil(t, ship)
	assert.Equal(t, uint32(123456789), ship.MMSI)
	assert.Equal(t, 1, db.Count())

	got, ok := db.Get(123456789)
	require.True(t, ok)
	assert.Equal(t, uint32(123456789), got.MMSI)
	assert.InDelta(t, 51.9, got.Lat, 0.01)
}

func TestUpdateClassifiesClassA(t *testing.T) {
	db := vessel.NewDB(16, 256)
	m := positionMessage(205000001, 1) // MID 205 (Belgium), type 1
	decoded := ais.Decode(m)
	ship := db.Update(m, decoded, &stream.TAG{})
	assert.Equal(t, vessel.MMSIClassA, ship.MMSIType)
}

func TestEvictionReusesOldestSlot(t *testing.T) {
	db := vessel.NewDB(2, 64)
	m1 := positionMessage(111111111, 1)
	m2 := positionMessage(222222222, 1)
	m3 := positionMessage(333333333, 1)

	db.Update(m1, ais.Decode(m1), &stream.TAG{})
	db.Update(m2, ais.Decode(m2), &stream.TAG{})
	assert.Equal(t, 2, db.Count())

	db.Update(m3, ais.Decode(m3), &stream.TAG{})
	assert.Equal(t, 2, db.Count())

	_, ok := db.Get(111111111)
	assert.False(t, ok, "oldest ship should have been evicted")
	_, ok = db.Get(333333333)
	assert.True(t, ok)
}

func TestPathRecordsPositionBearingTypes(t *testing.T) {
	db := vessel.NewDB(16, 256)
	m := positionMessage(123456789, 1)
	db.Update(m, ais.Decode(m), &stream.TAG{})

	path := db.Path(123456789)
	require.Len(t, path, 1)
}

func TestOwnPositionEnrichesDistanceBearing(t *testing.T) {
	db := vessel.NewDB(16, 256)
	db.SetOwnPosition(51.9, 4.0)

	m := positionMessage(123456789, 1)
	tag := &stream.TAG{}
	db.Update(m, ais.Decode(m), tag)

	assert.Greater(t, tag.Distance, 0.0)
}

func TestDistanceBearingKnownRoute(t *testing.T) {
	// Roughly Rotterdam to London: short hop, sanity-check magnitude only.
	dist, bearing := vessel.DistanceBearing(51.9, 4.5, 51.5, -0.1)
	assert.Greater(t, dist, 100.0)
	assert.Less(t, dist, 300.0)
	assert.GreaterOrEqual(t, bearing, 0)
	assert.Less(t, bearing, 360)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := vessel.NewDB(16, 256)
	m := positionMessage(123456789, 1)
	db.Update(m, ais.Decode(m), &stream.TAG{})

	var buf bytes.Buffer
	require.NoError(t, db.Save(&buf))

	loaded := vessel.NewDB(16, 256)
	require.NoError(t, loaded.Load(&buf))

	got, ok := loaded.Get(123456789)
	require.True(t, ok)
	assert.InDelta(t, 51.9, got.Lat, 0.01)
}

func TestType27OverwriteWithinTimeoutAtSpeedRejected(t *testing.T) {
	db := vessel.NewDB(16, 256)

	// 12 knots gives timeout = max(10, min(600, 0.25/12*3600)) = 75s.
	m1 := speedMessage(123456789, 51.9, 4.1, 12, 1000)
	db.Update(m1, ais.Decode(m1), &stream.TAG{})

	m2 := longRangeMessage(123456789, 52.5, 5.0, 1000+60) // within 75s timeout
	ship := db.Update(m2, ais.Decode(m2), &stream.TAG{})

	assert.InDelta(t, 51.9, ship.Lat, 0.01, "fix is fresh and precise, type 27 must not overwrite it")
	assert.False(t, ship.Approximate)
}

func TestType27OverwriteAfterSpeedDependentTimeoutAccepted(t *testing.T) {
	db := vessel.NewDB(16, 256)

	// 12 knots gives timeout = max(10, min(600, 0.25/12*3600)) = 75s.
	m1 := speedMessage(123456789, 51.9, 4.1, 12, 1000)
	db.Update(m1, ais.Decode(m1), &stream.TAG{})

	m2 := longRangeMessage(123456789, 52.5, 5.0, 1000+76) // past the 75s timeout
	ship := db.Update(m2, ais.Decode(m2), &stream.TAG{})

	assert.InDelta(t, 52.5, ship.Lat, 0.01, "stale fix at this speed must allow a type 27 overwrite")
	assert.True(t, ship.Approximate)
}

func TestType27OverwriteAtLowSpeedUsesTenMinuteTimeout(t *testing.T) {
	// 0.1 knots gives timeout = max(10, min(600, 0.25/0.1*3600)) = 600s.
	dbSoon := vessel.NewDB(16, 256)
	m1 := speedMessage(123456789, 51.9, 4.1, 0.1, 1000)
	dbSoon.Update(m1, ais.Decode(m1), &stream.TAG{})
	tooSoon := longRangeMessage(123456789, 52.5, 5.0, 1000+599)
	ship := dbSoon.Update(tooSoon, ais.Decode(tooSoon), &stream.TAG{})
	assert.InDelta(t, 51.9, ship.Lat, 0.01)

	dbLate := vessel.NewDB(16, 256)
	m2 := speedMessage(123456789, 51.9, 4.1, 0.1, 1000)
	dbLate.Update(m2, ais.Decode(m2), &stream.TAG{})
	late := longRangeMessage(123456789, 52.5, 5.0, 1000+601)
	ship = dbLate.Update(late, ais.Decode(late), &stream.TAG{})
	assert.InDelta(t, 52.5, ship.Lat, 0.01)
}

func TestValidCoordRejectsSentinels(t *testing.T) {
	assert.False(t, vessel.ValidCoord(0, 0))
	assert.False(t, vessel.ValidCoord(vessel.LatUndefined, 4))
	assert.True(t, vessel.ValidCoord(51.9, 4.1))
}
