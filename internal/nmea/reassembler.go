package nmea

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/AIS-Hub/AISHub/internal/hdlc"
)

// reassemblyTTL bounds how long a stalled multipart sequence survives
// before being evicted (spec §4.5 "a partial is discarded" if the next
// fragment doesn't follow; supplemented per SPEC_FULL.md §9 with an
// explicit TTL so reassembly memory is bounded even if no further
// fragment — matching or not — ever arrives).
const reassemblyTTL = 10 * time.Second

// partial is the in-progress state for one (talker, channel, group id)
// reassembly key.
type partial struct {
	sentences []*Sentence
	nextIndex int
}

// Reassembled is a fully reassembled multipart (or single-fragment)
// AIVDM/AIVDO group: concatenated payload bits with the trailing
// fillbits dropped, plus the source sentences and shared metadata.
type Reassembled struct {
	Bits    []byte
	Raw     []string
	Channel byte
	Own     bool
}

// Reassembler implements spec §4.5's reassembly queue: fragments are
// appended to a FIFO keyed by (talker, channel, group id); a fragment
// must follow the previous fragment for the same key (index =
// previous+1) or the partial is discarded.
type Reassembler struct {
	cache *cache.Cache
}

// NewReassembler builds a Reassembler whose partial sequences expire
// after reassemblyTTL of inactivity.
func NewReassembler() *Reassembler {
	return &Reassembler{cache: cache.New(reassemblyTTL, reassemblyTTL/2)}
}

func key(s *Sentence) string {
	return fmt.Sprintf("%s|%c|%s", s.TalkerID, s.Channel, s.GroupID)
}

// Feed appends one parsed sentence to its reassembly group. It returns
// a non-nil Reassembled once the group's final fragment arrives.
func (r *Reassembler) Feed(s *Sentence) (*Reassembled, error) {
	if s.FragCount == 1 {
		bits, err := hdlc.DecodeNMEAPayload(s.Payload, s.FillBits)
		if err != nil {
			return nil, err
		}
		return &Reassembled{Bits: bits, Raw: []string{s.Raw}, Channel: s.Channel, Own: s.Own}, nil
	}

	k := key(s)
	var p *partial
	if v, ok := r.cache.Get(k); ok {
		p = v.(*partial)
	}

	if s.FragIndex == 1 {
		p = &partial{sentences: []*Sentence{s}, nextIndex: 2}
		r.cache.Set(k, p, cache.DefaultExpiration)
		return nil, nil
	}

	if p == nil || s.FragIndex != p.nextIndex {
		// Fragment k must arrive exactly after fragment k-1, spec
		// §4.5; anything else discards the partial.
		r.cache.Delete(k)
		return nil, fmt.Errorf("nmea: fragment %d/%d arrived out of sequence for key %s", s.FragIndex, s.FragCount, k)
	}

	p.sentences = append(p.sentences, s)
	p.nextIndex++

	if s.FragIndex != s.FragCount {
		r.cache.Set(k, p, cache.DefaultExpiration)
		return nil, nil
	}

	r.cache.Delete(k)
	var payload string
	raw := make([]string, 0, len(p.sentences))
	for _, frag := range p.sentences {
		payload += frag.Payload
		raw = append(raw, frag.Raw)
	}
	bits, err := hdlc.DecodeNMEAPayload(payload, s.FillBits)
	if err != nil {
		return nil, err
	}
	return &Reassembled{Bits: bits, Raw: raw, Channel: s.Channel, Own: s.Own}, nil
}

// Pending reports how many reassembly groups are currently in flight.
func (r *Reassembler) Pending() int {
	return r.cache.ItemCount()
}
