package dsp

// FIRDecimator is one stage of the cascaded halfband/lowpass chain
// (spec §4.3 stage 3): it convolves a complex input stream against a
// real-valued tap set and emits every Nth output sample. Multiple
// FIRDecimators are chained to reach the 48kHz/96kHz per-channel target
// rate from whatever the tuner delivered.
type FIRDecimator struct {
	taps    []float64
	decim   int
	history []Sample // ring of len(taps), most recent last
	pos     int
	phase   int
}

// NewFIRDecimator builds a decimating FIR stage. decim must be >= 1; a
// decim of 1 is a plain filter with no rate change.
func NewFIRDecimator(taps []float64, decim int) *FIRDecimator {
	if decim < 1 {
		decim = 1
	}
	return &FIRDecimator{
		taps:    taps,
		decim:   decim,
		history: make([]Sample, len(taps)),
	}
}

// Process filters and decimates in, maintaining history across calls so
// block boundaries don't introduce filter transients.
func (d *FIRDecimator) Process(in []Sample) []Sample {
	n := len(d.taps)
	out := make([]Sample, 0, len(in)/d.decim+1)
	for _, s := range in {
		d.history[d.pos] = s
		d.pos = (d.pos + 1) % n

		if d.phase == 0 {
			var acc Sample
			idx := d.pos
			for k := 0; k < n; k++ {
				idx--
				if idx < 0 {
					idx = n - 1
				}
				acc += d.history[idx] * complex(d.taps[k], 0)
			}
			out = append(out, acc)
		}
		d.phase++
		if d.phase >= d.decim {
			d.phase = 0
		}
	}
	return out
}

// DecimationFactor returns the configured decimation ratio.
func (d *FIRDecimator) DecimationFactor() int { return d.decim }
