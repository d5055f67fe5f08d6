package model

import (
	"fmt"

	"github.com/AIS-Hub/AISHub/internal/dsp"
)

// Config describes one receive chain: which variant, which wire
// format it reads, and (for DSP variants) the sample rate and channel
// plan. Build validates the variant/format pairing before wiring
// anything, per spec §4.3's edge case: "on format mismatch..., the
// configurator refuses the build and reports 'decoding model and
// input format not consistent.'"
type Config struct {
	Variant      Variant
	Format       dsp.Format
	SampleRateHz float64
	Channels     []dsp.ChannelConfig

	// DecimationStages/Taps configure each dsp.Chain's FIR decimator
	// cascade; both must have equal length when the variant requires
	// DSP.
	DecimationStages []int
	Taps             [][]float64

	StationID uint32
}

// Validate checks the variant/format pairing and, for DSP variants,
// that a channel plan was supplied.
func (c Config) Validate() error {
	if c.Variant.RequiresDSP() {
		if !c.Format.IsDSPCompatible() {
			return fmt.Errorf("model: decoding model and input format not consistent: variant %s requires a DSP-compatible format, got %s", c.Variant, c.Format)
		}
		if len(c.Channels) == 0 {
			return fmt.Errorf("model: variant %s requires at least one channel", c.Variant)
		}
		if len(c.DecimationStages) != len(c.Taps) {
			return fmt.Errorf("model: %d decimation stages but %d tap sets", len(c.DecimationStages), len(c.Taps))
		}
		return nil
	}
	if c.Format != dsp.FormatTXT && c.Format != dsp.FormatBinary {
		return fmt.Errorf("model: decoding model and input format not consistent: variant %s requires TXT or BINARY input, got %s", c.Variant, c.Format)
	}
	return nil
}

// strategyFor returns the per-channel demodulator constructor implied
// by the variant, overriding whatever the caller set on
// dsp.ChannelConfig.Strategy (spec §4.10: "selectable per model").
func strategyFor(v Variant) func() dsp.Strategy {
	switch v {
	case VariantBase, VariantDiscriminator:
		return func() dsp.Strategy { return &dsp.FMDiscriminator{} }
	case VariantChallenger:
		return func() dsp.Strategy { return dsp.NewCoherentEMA(0.5, 1) }
	default: // standard, default
		return func() dsp.Strategy { return dsp.NewCoherentFixedHistory(8, 1) }
	}
}
