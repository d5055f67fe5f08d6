package dsp

import "math"

// GMSKPulse returns a Gaussian-shaped matched-filter pulse for AIS's
// GMSK modulation (BT=0.4, one sample per symbol-width tap), spec §4.3
// stage 4. samplesPerSymbol is how many input samples make up one AIS
// symbol after decimation.
func GMSKPulse(samplesPerSymbol int) []float64 {
	if samplesPerSymbol < 1 {
		samplesPerSymbol = 1
	}
	const bt = 0.4
	span := 3 * samplesPerSymbol
	taps := make([]float64, 2*span+1)
	alpha := math.Sqrt(math.Log(2) / 2) / (bt)
	for i := range taps {
		t := float64(i-span) / float64(samplesPerSymbol)
		taps[i] = math.Exp(-0.5 * math.Pow(t*alpha, 2))
	}
	return normalize(taps)
}

// MatchedFilter correlates the down-converted, decimated stream against
// the GMSK pulse shape to maximise per-symbol SNR ahead of demodulation.
type MatchedFilter struct {
	fir *FIRDecimator
}

// NewMatchedFilter builds a matched filter for the given
// samples-per-symbol rate.
func NewMatchedFilter(samplesPerSymbol int) *MatchedFilter {
	return &MatchedFilter{fir: NewFIRDecimator(GMSKPulse(samplesPerSymbol), 1)}
}

// Process applies the matched filter, sample for sample (no rate change).
func (m *MatchedFilter) Process(in []Sample) []Sample {
	return m.fir.Process(in)
}
