package stats

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Persisted magic/version for the lifetime Bucket snapshot, ported
// from Statistics.h's _MAGIC (0x4f82b) / _VERSION.
const (
	bucketMagic   uint32 = 0x4f82b
	bucketVersion uint32 = 2
)

// Save writes the lifetime total bucket in MessageStatistics::Save's
// binary layout.
func (t *Tracker) Save(w io.Writer) error {
	b := t.Total
	b.mu.Lock()
	defer b.mu.Unlock()

	fields := []any{
		bucketMagic, bucketVersion,
		int32(b.count), int32(b.vessels),
		toInt32Array27(b.msg), toInt32Array4(b.channel),
		float32(b.levelMin), float32(b.levelMax),
		float32(b.ppmSum), float32(b.distance),
		toFloat32Array18(b.radarA), toFloat32Array18(b.radarB),
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// Load restores the lifetime total bucket from a snapshot written by
// Save, ported from MessageStatistics::Load (version 1 snapshots omit
// the vessel count, matching the original's backward-compat check).
func (t *Tracker) Load(r io.Reader) error {
	var magic, version uint32
	var count, vessels int32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return err
	}
	if version == bucketVersion {
		if err := binary.Read(r, binary.BigEndian, &vessels); err != nil {
			return err
		}
	}

	var msg [27]int32
	var channel [4]int32
	var levelMin, levelMax, ppmSum, distance float32
	var radarA, radarB [radarBuckets]float32
	for _, f := range []any{&msg, &channel, &levelMin, &levelMax, &ppmSum, &distance, &radarA, &radarB} {
		if err := binary.Read(r, binary.BigEndian, f); err != nil {
			return err
		}
	}
	if magic != bucketMagic || (version != bucketVersion && version != 1) {
		return fmt.Errorf("stats: bad snapshot magic/version %#x/%d", magic, version)
	}

	b := t.Total
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count, b.vessels = int(count), int(vessels)
	for i := range msg {
		b.msg[i] = int(msg[i])
	}
	for i := range channel {
		b.channel[i] = int(channel[i])
	}
	b.levelMin, b.levelMax = float64(levelMin), float64(levelMax)
	b.ppmSum, b.distance = float64(ppmSum), float64(distance)
	for i := range radarA {
		b.radarA[i] = float64(radarA[i])
		b.radarB[i] = float64(radarB[i])
	}
	return nil
}

func toInt32Array27(a [27]int) (out [27]int32) {
	for i, v := range a {
		out[i] = int32(v)
	}
	return out
}

func toInt32Array4(a [4]int) (out [4]int32) {
	for i, v := range a {
		out[i] = int32(v)
	}
	return out
}

func toFloat32Array18(a [radarBuckets]float64) (out [radarBuckets]float32) {
	for i, v := range a {
		out[i] = float32(v)
	}
	return out
}
