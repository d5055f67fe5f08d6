package dsp

import "math"

// Filter coefficient sets, named after the receiver's own filter bank
// (spec §4.3 stage 3: "coefficients provided as Filters::Receiver,
// Filters::Coherent, Filters::BlackmanHarris_*"). These are short
// windowed-sinc halfband/lowpass designs; real deployments would tune
// taps to the target decimation ratio, but the shapes below are valid,
// normalised (DC gain 1) FIR designs suitable for the 25kHz AIS channel
// passband after the dual down-conversion stage.

// ReceiverFilter is the default decimating lowpass used ahead of the
// matched filter.
var ReceiverFilter = normalize([]float64{
	-0.0019, -0.0032, 0.0, 0.0087, 0.0187, 0.0129, -0.0159,
	-0.0514, -0.0560, 0.0197, 0.1553, 0.2963, 0.3540, 0.2963,
	0.1553, 0.0197, -0.0560, -0.0514, -0.0159, 0.0129, 0.0187,
	0.0087, 0.0, -0.0032, -0.0019,
})

// CoherentFilter is a slightly narrower design used ahead of the
// coherent-phase demodulators, which are more sensitive to passband
// ripple than the FM discriminator.
var CoherentFilter = normalize([]float64{
	0.0007, 0.0023, 0.0017, -0.0034, -0.0126, -0.0168, -0.0036,
	0.0268, 0.0577, 0.0643, 0.0215, -0.0657, -0.1646, -0.2207,
	-0.1646, -0.0657, 0.0215, 0.0643, 0.0577, 0.0268, -0.0036,
	-0.0168, -0.0126, -0.0034, 0.0017, 0.0023, 0.0007,
})

// BlackmanHarrisFilter62 is a 62-tap Blackman-Harris windowed halfband,
// used where stopband rejection matters more than transition width
// (e.g. X-mode with two close arbitrary channel offsets).
var BlackmanHarrisFilter62 = blackmanHarrisHalfband(62)

func normalize(taps []float64) []float64 {
	sum := 0.0
	for _, t := range taps {
		sum += t
	}
	if sum == 0 {
		return taps
	}
	out := make([]float64, len(taps))
	for i, t := range taps {
		out[i] = t / sum
	}
	return out
}

func blackmanHarrisHalfband(n int) []float64 {
	const (
		a0 = 0.35875
		a1 = 0.48829
		a2 = 0.14128
		a3 = 0.01168
	)
	taps := make([]float64, n)
	for i := 0; i < n; i++ {
		x := 2 * math.Pi * float64(i) / float64(n-1)
		taps[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x) - a3*math.Cos(3*x)
	}
	return normalize(taps)
}
