package stats_test

import (
	"bytes"
	"testing"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stats"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func posReport(mmsi uint32, rxTime int64, channel byte, typ int) *ais.Message {
	bits := make([]byte, 168)
	for i := 0; i < 6; i++ {
		bits[i] = byte((typ >> (5 - i)) & 1)
	}
	return ais.NewMessage(bits, nil, channel, rxTime, 0)
}

func TestBucketAddCountsByTypeAndChannel(t *testing.T) {
	b := stats.NewBucket()
	m := posReport(123, 1000, 'A', 1)
	tag := &stream.TAG{Validated: true, Distance: 10, Bearing: 45}
	b.Add(m, tag, true)

	snap := b.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, 1, snap.Vessels)
	assert.Equal(t, 1, snap.Msg[0])
	assert.Equal(t, 1, snap.Channel[0])
}

func TestBucketRadarBucketingByType(t *testing.T) {
	b := stats.NewBucket()
	m := posReport(123, 1000, 'A', 1)
	tag := &stream.TAG{Validated: true, Distance: 100, Bearing: 10}
	b.Add(m, tag, false)

	snap := b.Snapshot()
	assert.Equal(t, 100.0, snap.RadarA[0])
	assert.Equal(t, 0.0, snap.RadarB[0])
}

func TestBucketIgnoresAidToNavigationForRange(t *testing.T) {
	b := stats.NewBucket()
	m := posReport(123, 1000, 'A', 21)
	tag := &stream.TAG{Validated: true, Distance: 500, Bearing: 10}
	b.Add(m, tag, false)

	snap := b.Snapshot()
	assert.Equal(t, 0.0, snap.Dist)
}

func TestBucketCutoffExcludesFarFixes(t *testing.T) {
	b := stats.NewBucket()
	b.SetCutoff(50)
	m := posReport(123, 1000, 'A', 1)
	tag := &stream.TAG{Validated: true, Distance: 500, Bearing: 10}
	b.Add(m, tag, false)

	snap := b.Snapshot()
	assert.Equal(t, 0.0, snap.Dist)
}

func TestTrackerAddFansOutToAllRings(t *testing.T) {
	tr := stats.NewTracker()
	m := posReport(123, 1000, 'A', 1)
	tr.Add(m, &stream.TAG{}, true)

	snap := tr.JSON()
	assert.Equal(t, 1, snap.Total.Count)
	assert.Equal(t, 1, snap.Session.Count)
}

func TestTrackerSaveLoadRoundTrip(t *testing.T) {
	tr := stats.NewTracker()
	m := posReport(123, 1000, 'A', 1)
	tr.Add(m, &stream.TAG{Validated: true, Distance: 5, Bearing: 1}, true)

	var buf bytes.Buffer
	require.NoError(t, tr.Save(&buf))

	loaded := stats.NewTracker()
	require.NoError(t, loaded.Load(&buf))

	snap := loaded.JSON()
	assert.Equal(t, 1, snap.Total.Count)
	assert.Equal(t, 1, snap.Total.Vessels)
}
