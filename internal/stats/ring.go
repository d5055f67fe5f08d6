package stats

// Ring is a fixed-size array of Buckets indexed by
// floor(rxtime/interval) mod len(buckets), giving a sliding window of
// recent history without unbounded growth (spec §4.8 "Ring of
// MessageStatistics buckets indexed by floor(rxtime/interval)").
type Ring struct {
	interval int64 // seconds per bucket
	buckets  []*Bucket
	slot     []int64 // which interval index each slot currently represents, -1 if never written
}

// NewRing allocates a ring of n buckets, each covering interval
// seconds.
func NewRing(n int, interval int64) *Ring {
	r := &Ring{interval: interval, buckets: make([]*Bucket, n), slot: make([]int64, n)}
	for i := range r.buckets {
		r.buckets[i] = NewBucket()
		r.slot[i] = -1
	}
	return r
}

// bucketFor returns the Bucket for rxTimeUnix, clearing it first if
// the ring has wrapped around to a slot representing a stale interval.
func (r *Ring) bucketFor(rxTimeUnix int64) *Bucket {
	idx := rxTimeUnix / r.interval
	slot := int(((idx % int64(len(r.buckets))) + int64(len(r.buckets))) % int64(len(r.buckets)))
	if r.slot[slot] != idx {
		r.buckets[slot].Clear()
		r.slot[slot] = idx
	}
	return r.buckets[slot]
}

// Snapshots returns every bucket's rendered state in slot order as
// currently laid out in the ring (callers needing chronological
// order should rotate by the most recently written slot).
func (r *Ring) Snapshots() []Snapshot {
	out := make([]Snapshot, len(r.buckets))
	for i, b := range r.buckets {
		out[i] = b.Snapshot()
	}
	return out
}
