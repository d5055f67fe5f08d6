// Package stats implements the message-rate and radar-range counters
// the HTTP API surfaces at /stats.json (spec §4.8, grounded on
// _examples/original_source/Ships/Statistics.h's MessageStatistics).
package stats

import (
	"math"
	"sync"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
)

// radarBuckets is the number of equal-angle sectors the radar range
// tracker splits a full circle into, ported from Statistics.h's
// _RADAR_BUCKETS.
const radarBuckets = 18

// DefaultLongRangeCutoff bounds which validated fixes are allowed to
// extend the radar range (spec §4.8 "within a configurable cutoff
// (default 2500 nmi)"), ported from _LONG_RANGE_CUTOFF.
const DefaultLongRangeCutoff = 2500

// Bucket accumulates message counters and radar-range maxima for one
// time slot, ported field-for-field from MessageStatistics.
type Bucket struct {
	mu sync.Mutex

	count, vessels, exclude int
	msg                     [27]int
	channel                 [4]int

	levelMin, levelMax, ppmSum, distance float64
	radarA, radarB                       [radarBuckets]float64

	cutoff int
}

// NewBucket returns a cleared Bucket with the default long-range cutoff.
func NewBucket() *Bucket {
	b := &Bucket{cutoff: DefaultLongRangeCutoff}
	b.Clear()
	return b
}

// SetCutoff overrides the long-range radar cutoff (nmi).
func (b *Bucket) SetCutoff(nmi int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cutoff = nmi
}

// Clear resets every counter, ported from MessageStatistics::Clear.
func (b *Bucket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
}

func (b *Bucket) clearLocked() {
	b.msg = [27]int{}
	b.channel = [4]int{}
	b.radarA = [radarBuckets]float64{}
	b.radarB = [radarBuckets]float64{}
	b.count, b.vessels, b.exclude = 0, 0, 0
	b.distance, b.ppmSum = 0, 0
	b.levelMin = math.MaxFloat64
	b.levelMax = -math.MaxFloat64
}

// ClearVessels resets only the new-vessel counter, ported from
// MessageStatistics::clearVessels (used to take a "distinct vessels
// this interval" snapshot without losing message counts).
func (b *Bucket) ClearVessels() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vessels = 0
}

// Add folds one message's tag into the bucket, ported statement-for-
// statement from MessageStatistics::Add.
func (b *Bucket) Add(m *ais.Message, tag *stream.TAG, newVessel bool) {
	if m.Type > 27 || m.Type < 1 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	if newVessel {
		b.vessels++
	}
	b.msg[m.Type-1]++
	if ch := m.Channel; ch >= 'A' && ch <= 'D' {
		b.channel[ch-'A']++
	}

	if tag == nil {
		b.exclude++
		return
	}

	const levelUndefined, ppmUndefined = float32(-1e6), float32(1e6)
	if tag.Level == levelUndefined || tag.PPM == ppmUndefined {
		b.exclude++
	} else {
		b.levelMin = math.Min(b.levelMin, float64(tag.Level))
		b.levelMax = math.Max(b.levelMax, float64(tag.Level))
		b.ppmSum += float64(tag.PPM)
	}

	// Aids to navigation don't carry a meaningful range reading.
	if m.Type == 21 {
		return
	}
	if !tag.Validated || tag.Distance > float64(b.cutoff) || m.Repeat > 0 {
		return
	}
	if tag.Distance > b.distance {
		b.distance = tag.Distance
	}

	if tag.Bearing < 0 || tag.Bearing >= 360 {
		return
	}
	bucket := int(tag.Bearing) / (360 / radarBuckets)
	switch {
	case m.Type == 18 || m.Type == 19 || m.Type == 24:
		if tag.Distance > b.radarB[bucket] {
			b.radarB[bucket] = tag.Distance
		}
	case m.Type <= 3 || m.Type == 5 || m.Type == 27:
		if tag.Distance > b.radarA[bucket] {
			b.radarA[bucket] = tag.Distance
		}
	}
}

// Snapshot is the JSON-serializable view of a Bucket returned by
// /stats.json, mirroring MessageStatistics::toJSON's field set.
type Snapshot struct {
	Count    int        `json:"count"`
	Vessels  int        `json:"vessels"`
	LevelMin *float64   `json:"level_min"`
	LevelMax *float64   `json:"level_max"`
	PPM      *float64   `json:"ppm"`
	Dist     float64    `json:"dist"`
	Channel  [4]int     `json:"channel"`
	RadarA   [18]float64 `json:"radar_a"`
	RadarB   [18]float64 `json:"radar_b"`
	Msg      [27]int    `json:"msg"`
}

// Snapshot renders the bucket's current state, ported from
// MessageStatistics::toJSON(empty=false).
func (b *Bucket) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Snapshot{
		Count:   b.count,
		Vessels: b.vessels,
		Dist:    b.distance,
		Channel: b.channel,
		RadarA:  b.radarA,
		RadarB:  b.radarB,
		Msg:     b.msg,
	}
	if c := b.count - b.exclude; c > 0 {
		levelMin, levelMax, ppm := b.levelMin, b.levelMax, b.ppmSum/float64(c)
		s.LevelMin, s.LevelMax, s.PPM = &levelMin, &levelMax, &ppm
	}
	return s
}
