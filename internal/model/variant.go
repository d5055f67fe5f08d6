// Package model selects and wires the DSP + decoder topology the spec
// calls a "model" (§4.10): given an input sample format and a variant
// name, it validates the combination and builds the receive chain that
// feeds internal/vessel, internal/stats and internal/sinks, mirroring
// the way internal/stream.Pipeline lets the teacher's serverManager
// bring components up/down uniformly.
package model

import "fmt"

// Variant is one of the pre-built DSP + decoder topologies named in
// spec §4.10.
type Variant int

const (
	// VariantStandard runs the full DSP chain with the
	// CoherentFixedHistory demodulator, the default for a live SDR
	// source.
	VariantStandard Variant = iota
	// VariantBase runs the full DSP chain with the simplest
	// FMDiscriminator demodulator (lowest CPU, lower sensitivity).
	VariantBase
	// VariantDefault is an alias kept distinct from VariantStandard
	// per spec.md's variant list, wired identically to VariantStandard.
	VariantDefault
	// VariantDiscriminator forces the FM discriminator strategy
	// regardless of channel count (named after dsp.FMDiscriminator).
	VariantDiscriminator
	// VariantChallenger runs the CoherentEMA demodulator, the
	// original's experimental higher-sensitivity strategy.
	VariantChallenger
	// VariantNMEAOnly skips DSP entirely: input is already
	// reassembled AIVDM/AIVDO text.
	VariantNMEAOnly
	// VariantN2K skips DSP and reads AIVDM/AIVDO text exactly like
	// VariantNMEAOnly; NMEA-2000 CAN frames are not decoded.
	VariantN2K
	// VariantBaseStation accepts pre-decoded AIS sentences from a
	// shore base station feed, bypassing both DSP and channel framing.
	VariantBaseStation
)

func (v Variant) String() string {
	switch v {
	case VariantStandard:
		return "standard"
	case VariantBase:
		return "base"
	case VariantDefault:
		return "default"
	case VariantDiscriminator:
		return "discriminator"
	case VariantChallenger:
		return "challenger"
	case VariantNMEAOnly:
		return "nmeaonly"
	case VariantN2K:
		return "n2k"
	case VariantBaseStation:
		return "basestation"
	default:
		return "unknown"
	}
}

// ParseVariant maps a CLI/config name to a Variant.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "standard":
		return VariantStandard, nil
	case "base":
		return VariantBase, nil
	case "default":
		return VariantDefault, nil
	case "discriminator":
		return VariantDiscriminator, nil
	case "challenger":
		return VariantChallenger, nil
	case "nmeaonly":
		return VariantNMEAOnly, nil
	case "n2k":
		return VariantN2K, nil
	case "basestation":
		return VariantBaseStation, nil
	default:
		return 0, fmt.Errorf("model: unknown variant %q", name)
	}
}

// RequiresDSP reports whether this variant consumes raw IQ samples
// through internal/dsp, as opposed to already-framed text/CAN input.
func (v Variant) RequiresDSP() bool {
	switch v {
	case VariantNMEAOnly, VariantN2K, VariantBaseStation:
		return false
	default:
		return true
	}
}
