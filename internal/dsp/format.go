// Package dsp implements the fixed IQ->bitstream receive chain described
// by the core spec: format conversion, dual-channel down-conversion,
// decimating FIR filtering, matched filtering, demodulation and NRZI
// decoding. Every stage is a plain one-input, one-output struct that
// Chain calls in sequence, one block at a time, single-threaded.
package dsp

import (
	"fmt"
	"math"
)

// Format identifies the wire representation of a sample block.
type Format int

// Supported sample block formats (spec §3 "Sample block").
const (
	FormatCU8 Format = iota
	FormatCS8
	FormatCS16
	FormatCF32
	FormatTXT
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatCU8:
		return "CU8"
	case FormatCS8:
		return "CS8"
	case FormatCS16:
		return "CS16"
	case FormatCF32:
		return "CF32"
	case FormatTXT:
		return "TXT"
	case FormatBinary:
		return "BINARY"
	default:
		return "UNKNOWN"
	}
}

// IsDSPCompatible reports whether the format can enter the DSP chain at
// all (TXT/BINARY bypass DSP entirely and feed the HDLC/NMEA stage
// directly, per spec §4.3 edge cases).
func (f Format) IsDSPCompatible() bool {
	return f == FormatCU8 || f == FormatCS8 || f == FormatCS16 || f == FormatCF32
}

// Sample is a single complex IQ sample normalised to roughly [-1,1].
type Sample = complex128

// Converter turns a raw sample block of the given Format into a slice of
// normalised complex128 samples, ready for down-conversion.
type Converter struct {
	Format Format
}

// Convert performs the format conversion to CF32 described in spec
// §4.3 stage 1.
func (c Converter) Convert(raw []byte) ([]Sample, error) {
	switch c.Format {
	case FormatCU8:
		return convertCU8(raw)
	case FormatCS8:
		return convertCS8(raw)
	case FormatCS16:
		return convertCS16(raw)
	case FormatCF32:
		return convertCF32(raw)
	default:
		return nil, fmt.Errorf("dsp: format %s is not DSP-compatible", c.Format)
	}
}

func convertCU8(raw []byte) ([]Sample, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("dsp: CU8 block length %d not a multiple of 2", len(raw))
	}
	out := make([]Sample, len(raw)/2)
	const scale = 1.0 / 127.5
	for i := 0; i < len(out); i++ {
		re := (float64(raw[2*i]) - 127.5) * scale
		im := (float64(raw[2*i+1]) - 127.5) * scale
		out[i] = complex(re, im)
	}
	return out, nil
}

func convertCS8(raw []byte) ([]Sample, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("dsp: CS8 block length %d not a multiple of 2", len(raw))
	}
	out := make([]Sample, len(raw)/2)
	const scale = 1.0 / 127.0
	for i := 0; i < len(out); i++ {
		re := float64(int8(raw[2*i])) * scale
		im := float64(int8(raw[2*i+1])) * scale
		out[i] = complex(re, im)
	}
	return out, nil
}

func convertCS16(raw []byte) ([]Sample, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("dsp: CS16 block length %d not a multiple of 4", len(raw))
	}
	out := make([]Sample, len(raw)/4)
	const scale = 1.0 / 32767.0
	for i := 0; i < len(out); i++ {
		reBits := int16(uint16(raw[4*i]) | uint16(raw[4*i+1])<<8)
		imBits := int16(uint16(raw[4*i+2]) | uint16(raw[4*i+3])<<8)
		out[i] = complex(float64(reBits)*scale, float64(imBits)*scale)
	}
	return out, nil
}

func convertCF32(raw []byte) ([]Sample, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("dsp: CF32 block length %d not a multiple of 8", len(raw))
	}
	out := make([]Sample, len(raw)/8)
	for i := range out {
		off := 8 * i
		reBits := uint32(raw[off]) | uint32(raw[off+1])<<8 | uint32(raw[off+2])<<16 | uint32(raw[off+3])<<24
		imBits := uint32(raw[off+4]) | uint32(raw[off+5])<<8 | uint32(raw[off+6])<<16 | uint32(raw[off+7])<<24
		out[i] = complex(float64(math.Float32frombits(reBits)), float64(math.Float32frombits(imBits)))
	}
	return out, nil
}
