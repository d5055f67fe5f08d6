package dsp_test

import (
	"testing"

	"github.com/AIS-Hub/AISHub/internal/dsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertCU8Midpoint(t *testing.T) {
	conv := dsp.Converter{Format: dsp.FormatCU8}
	samples, err := conv.Convert([]byte{127, 127, 255, 0})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.InDelta(t, 0, real(samples[0]), 0.01)
	assert.InDelta(t, 1, real(samples[1]), 0.01)
}

func TestConvertRejectsNonDSPFormat(t *testing.T) {
	conv := dsp.Converter{Format: dsp.FormatTXT}
	_, err := conv.Convert([]byte("hello"))
	assert.Error(t, err)
}

func TestNRZIDecodeNoTransitionIsOne(t *testing.T) {
	var d dsp.NRZIDecoder
	bits := d.Decode([]byte{1, 1, 1, 0, 0, 1})
	// first bit always 1 (no previous); then: no-transition -> 1, no-transition -> 1,
	// transition -> 0, no-transition -> 1, transition -> 0
	assert.Equal(t, []byte{1, 1, 1, 0, 1, 0}, bits)
}

func TestFIRDecimatorDecimatesByFactor(t *testing.T) {
	fir := dsp.NewFIRDecimator([]float64{1}, 4)
	in := make([]dsp.Sample, 16)
	for i := range in {
		in[i] = complex(1, 0)
	}
	out := fir.Process(in)
	assert.Equal(t, 4, len(out))
}

func TestNewChainRejectsTXTFormat(t *testing.T) {
	_, err := dsp.NewChain(dsp.FormatTXT, 48000, dsp.ChannelConfig{Name: 'A'}, nil, nil)
	assert.Error(t, err)
}

func TestChainProcessesCU8Block(t *testing.T) {
	ch := dsp.ChannelConfig{Name: 'A', OffsetHz: 25000, SamplesPerSymbol: 5}
	chain, err := dsp.NewChain(dsp.FormatCU8, 192000, ch,
		[]int{2, 2}, [][]float64{dsp.ReceiverFilter, dsp.ReceiverFilter})
	require.NoError(t, err)

	raw := make([]byte, 2*200)
	for i := range raw {
		raw[i] = byte(127 + (i % 5))
	}
	bits, err := chain.Process(raw)
	require.NoError(t, err)
	assert.NotNil(t, bits)
}
