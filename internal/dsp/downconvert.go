package dsp

import "math"

// DownConverter mixes an incoming IQ stream down by a fixed frequency
// offset from the tuner centre, using a precomputed table of unit-modulus
// complex exponentials (spec §4.3 stage 2). Two independent instances
// make up a dual-channel {A,B} or arbitrary-offset {X} down-converter.
type DownConverter struct {
	table   []Sample
	phase   int
	offset  float64 // Hz, relative to tuner centre
	sampleR float64
}

// NewDownConverter builds the LO table for the given channel offset (Hz)
// and sample rate (Hz). Typical AIS channels A/B sit at +-25kHz from a
// 162MHz tuner centre; X-mode uses two arbitrary offsets.
func NewDownConverter(offsetHz, sampleRateHz float64) *DownConverter {
	const tableLen = 4096
	table := make([]Sample, tableLen)
	for n := 0; n < tableLen; n++ {
		theta := -2 * math.Pi * offsetHz * float64(n) / sampleRateHz
		table[n] = complex(math.Cos(theta), math.Sin(theta))
	}
	return &DownConverter{table: table, offset: offsetHz, sampleR: sampleRateHz}
}

// Mix multiplies in by the LO, advancing the internal phase accumulator
// so consecutive calls stay phase-continuous across block boundaries.
func (d *DownConverter) Mix(in []Sample) []Sample {
	out := make([]Sample, len(in))
	n := len(d.table)
	for i, s := range in {
		out[i] = s * d.table[d.phase]
		d.phase++
		if d.phase >= n {
			d.phase = 0
		}
	}
	return out
}

// Offset returns the channel offset this down-converter was built for.
func (d *DownConverter) Offset() float64 { return d.offset }
