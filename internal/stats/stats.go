package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
)

// Tracker owns the four rings the spec names ("two ring pairs
// (60×60s/60×1s, 24×3600s/90×86400s)") plus a lifetime/session total,
// and a gocron scheduler that ages buckets out, replacing the
// teacher's hand-rolled ticker loop with its scheduled-job idiom
// (ported in spirit from cmd/root.go's setupScheduler/
// scheduleDailyUpdate; grounded on Statistics.h's MessageStatistics
// ring of buckets).
type Tracker struct {
	Seconds *Ring // 60 buckets, 1s each
	Minutes *Ring // 60 buckets, 60s each
	Hours   *Ring // 24 buckets, 3600s each
	Days    *Ring // 90 buckets, 86400s each

	Session *Bucket // since process start, never rotated
	Total   *Bucket // lifetime, persisted across restarts via Save/Load

	scheduler gocron.Scheduler
}

// NewTracker allocates a Tracker with the spec's default ring sizes.
func NewTracker() *Tracker {
	return &Tracker{
		Seconds: NewRing(60, 1),
		Minutes: NewRing(60, 60),
		Hours:   NewRing(24, 3600),
		Days:    NewRing(90, 86400),
		Session: NewBucket(),
		Total:   NewBucket(),
	}
}

// SetCutoff applies the long-range radar cutoff to every bucket this
// Tracker owns.
func (t *Tracker) SetCutoff(nmi int) {
	for _, r := range []*Ring{t.Seconds, t.Minutes, t.Hours, t.Days} {
		for _, b := range r.buckets {
			b.SetCutoff(nmi)
		}
	}
	t.Session.SetCutoff(nmi)
	t.Total.SetCutoff(nmi)
}

// Add folds one message into every ring, the session bucket and the
// lifetime total, ported from Counter::Receive's single call into
// MessageStatistics::Add fanned out across the ring set this core
// adds on top.
func (t *Tracker) Add(m *ais.Message, tag *stream.TAG, newVessel bool) {
	t.Seconds.bucketFor(m.RxTimeUnix).Add(m, tag, newVessel)
	t.Minutes.bucketFor(m.RxTimeUnix).Add(m, tag, newVessel)
	t.Hours.bucketFor(m.RxTimeUnix).Add(m, tag, newVessel)
	t.Days.bucketFor(m.RxTimeUnix).Add(m, tag, newVessel)
	t.Session.Add(m, tag, newVessel)
	t.Total.Add(m, tag, newVessel)
}

// StartAging schedules the periodic bucket-roll job: every second it
// touches the current slot of each ring so a quiet receiver's rings
// age out stale buckets even without fresh traffic to trigger the
// lazy clear in bucketFor.
func (t *Tracker) StartAging(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("stats: create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Second),
		gocron.NewTask(func() {
			now := time.Now().Unix()
			t.Seconds.bucketFor(now)
			t.Minutes.bucketFor(now)
			t.Hours.bucketFor(now)
			t.Days.bucketFor(now)
		}),
	)
	if err != nil {
		return fmt.Errorf("stats: schedule aging job: %w", err)
	}
	t.scheduler = scheduler
	t.scheduler.Start()
	go func() {
		<-ctx.Done()
		_ = t.scheduler.Shutdown()
	}()
	return nil
}

// JSON renders the full /stats.json payload.
func (t *Tracker) JSON() TrackerSnapshot {
	return TrackerSnapshot{
		Total:   t.Total.Snapshot(),
		Session: t.Session.Snapshot(),
		Seconds: t.Seconds.Snapshots(),
		Minutes: t.Minutes.Snapshots(),
		Hours:   t.Hours.Snapshots(),
		Days:    t.Days.Snapshots(),
	}
}

// TrackerSnapshot is the /stats.json response body.
type TrackerSnapshot struct {
	Total   Snapshot   `json:"total"`
	Session Snapshot   `json:"session"`
	Seconds []Snapshot `json:"seconds"`
	Minutes []Snapshot `json:"minutes"`
	Hours   []Snapshot `json:"hours"`
	Days    []Snapshot `json:"days"`
}
