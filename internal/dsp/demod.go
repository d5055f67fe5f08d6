package dsp

import "math"

// Strategy is a demodulator: it consumes matched-filtered complex
// samples, one per symbol, and produces one soft-sliced bit per symbol.
// Spec §4.3 stage 5 names three interchangeable strategies.
type Strategy interface {
	// Demodulate returns at most one bit (0/1) per input sample; the
	// coherent strategies return none until their history has filled.
	Demodulate(in []Sample) []byte
}

// FMDiscriminator implements the simplest strategy: the sign of the
// instantaneous phase difference between consecutive samples.
type FMDiscriminator struct {
	prev    Sample
	hasPrev bool
}

// Demodulate computes phase_diff(sample[n], sample[n-1]) and slices on
// sign.
func (d *FMDiscriminator) Demodulate(in []Sample) []byte {
	out := make([]byte, len(in))
	for i, s := range in {
		if !d.hasPrev {
			d.prev = s
			d.hasPrev = true
			out[i] = 0
			continue
		}
		diff := s * complexConj(d.prev)
		d.prev = s
		if math.Atan2(imag(diff), real(diff)) >= 0 {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out
}

func complexConj(s Sample) Sample { return complex(real(s), -imag(s)) }

const numPhases = 16

// CoherentFixedHistory implements the fixed-window coherent phase search:
// for each of 16 candidate phase rotations it accumulates a correlator
// over the last nHistory symbols, slices each candidate stream by sign,
// and at every symbol picks the phase whose correlator has the largest
// absolute sum, emitting the bit that phase produced nDelay symbols back.
// Ties break toward the previously selected phase.
type CoherentFixedHistory struct {
	NHistory int
	NDelay   int

	history    []Sample // ring of raw samples, len NHistory+NDelay+1
	pos        int
	filled     int
	lastPhase  int
	haveLast   bool
}

// NewCoherentFixedHistory builds the fixed-history coherent demodulator.
func NewCoherentFixedHistory(nHistory, nDelay int) *CoherentFixedHistory {
	if nHistory < 1 {
		nHistory = 8
	}
	if nDelay < 0 {
		nDelay = nHistory / 2
	}
	return &CoherentFixedHistory{
		NHistory: nHistory,
		NDelay:   nDelay,
		history:  make([]Sample, nHistory+nDelay+1),
	}
}

func phaseRotation(k int) Sample {
	theta := 2 * math.Pi * float64(k) / numPhases
	return complex(math.Cos(theta), math.Sin(theta))
}

// Demodulate runs the fixed-history coherent search over in.
func (c *CoherentFixedHistory) Demodulate(in []Sample) []byte {
	n := len(c.history)
	out := make([]byte, 0, len(in))
	for _, s := range in {
		c.history[c.pos] = s
		c.pos = (c.pos + 1) % n
		if c.filled < n {
			c.filled++
		}
		if c.filled < n {
			continue
		}

		bestPhase := 0
		bestScore := -1.0
		var bestSign float64
		for k := 0; k < numPhases; k++ {
			rot := phaseRotation(k)
			var sum float64
			idx := c.pos
			for h := 0; h < c.NHistory; h++ {
				idx--
				if idx < 0 {
					idx = n - 1
				}
				rotated := c.history[idx] * rot
				sum += real(rotated)
			}
			score := math.Abs(sum)
			better := score > bestScore
			if score == bestScore && c.haveLast && k == c.lastPhase {
				better = true // tie breaks toward previously selected phase
			}
			if better {
				bestScore = score
				bestPhase = k
				bestSign = sum
			}
		}
		c.lastPhase = bestPhase
		c.haveLast = true

		delayIdx := c.pos - 1 - c.NDelay
		for delayIdx < 0 {
			delayIdx += n
		}
		rotated := c.history[delayIdx] * phaseRotation(bestPhase)
		bit := byte(0)
		if real(rotated) >= 0 {
			bit = 1
		}
		_ = bestSign
		out = append(out, bit)
	}
	return out
}

// CoherentEMA implements the exponential-moving-average variant of the
// coherent phase search: instead of a fixed-window sum, each phase's
// correlator is a weighted EMA with weight w (spec default ~0.85).
type CoherentEMA struct {
	Weight   float64
	NDelay   int
	ema      [numPhases]float64
	delay    []Sample
	pos      int
	filled   int
	lastPhase int
	haveLast bool
}

// NewCoherentEMA builds the EMA-based coherent demodulator.
func NewCoherentEMA(weight float64, nDelay int) *CoherentEMA {
	if weight <= 0 || weight >= 1 {
		weight = 0.85
	}
	if nDelay < 0 {
		nDelay = 4
	}
	return &CoherentEMA{
		Weight: weight,
		NDelay: nDelay,
		delay:  make([]Sample, nDelay+1),
	}
}

// Demodulate runs the EMA coherent search over in.
func (c *CoherentEMA) Demodulate(in []Sample) []byte {
	n := len(c.delay)
	out := make([]byte, 0, len(in))
	for _, s := range in {
		c.delay[c.pos] = s
		c.pos = (c.pos + 1) % n
		if c.filled < n {
			c.filled++
		}

		bestPhase := 0
		bestScore := -1.0
		for k := 0; k < numPhases; k++ {
			rotated := s * phaseRotation(k)
			c.ema[k] = c.Weight*c.ema[k] + (1-c.Weight)*real(rotated)
			score := math.Abs(c.ema[k])
			better := score > bestScore
			if score == bestScore && c.haveLast && k == c.lastPhase {
				better = true
			}
			if better {
				bestScore = score
				bestPhase = k
			}
		}
		c.lastPhase = bestPhase
		c.haveLast = true

		if c.filled < n {
			continue
		}
		delayIdx := c.pos
		rotated := c.delay[delayIdx] * phaseRotation(bestPhase)
		bit := byte(0)
		if real(rotated) >= 0 {
			bit = 1
		}
		out = append(out, bit)
	}
	return out
}
