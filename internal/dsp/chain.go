package dsp

import "fmt"

// ChannelConfig describes one demodulated output channel of the DSP
// chain: its offset from tuner centre and which demodulator strategy
// feeds it.
type ChannelConfig struct {
	Name             byte // 'A','B','C','D' or 'X'
	OffsetHz         float64
	SamplesPerSymbol int
	Strategy         func() Strategy
}

// Chain wires one complete per-channel DSP pipeline: down-convert,
// decimate, matched filter, demodulate, NRZI decode. It is not itself a
// stream.Stage — callers drive it block by block from the FIFO consumer
// goroutine (spec §4.2: the FIFO is the only cross-thread hop; the DSP
// chain runs single-threaded after that).
type Chain struct {
	conv     Converter
	down     *DownConverter
	decim    []*FIRDecimator
	matched  *MatchedFilter
	strategy Strategy
	nrzi     NRZIDecoder
}

// NewChain builds a DSP chain for one channel. sampleRateHz is the rate
// entering the chain (post format-conversion, pre down-conversion).
func NewChain(format Format, sampleRateHz float64, ch ChannelConfig, decimationStages []int, taps [][]float64) (*Chain, error) {
	if !format.IsDSPCompatible() {
		return nil, fmt.Errorf("dsp: decoding model and input format not consistent: %s cannot enter the DSP chain", format)
	}
	if len(decimationStages) != len(taps) {
		return nil, fmt.Errorf("dsp: %d decimation stages but %d tap sets", len(decimationStages), len(taps))
	}
	c := &Chain{
		conv: Converter{Format: format},
		down: NewDownConverter(ch.OffsetHz, sampleRateHz),
	}
	for i, decim := range decimationStages {
		c.decim = append(c.decim, NewFIRDecimator(taps[i], decim))
	}
	c.matched = NewMatchedFilter(ch.SamplesPerSymbol)
	if ch.Strategy != nil {
		c.strategy = ch.Strategy()
	} else {
		c.strategy = &FMDiscriminator{}
	}
	return c, nil
}

// Process runs one raw sample block through the full chain, returning
// NRZI-decoded bits ready for the HDLC decoder.
func (c *Chain) Process(raw []byte) ([]byte, error) {
	samples, err := c.conv.Convert(raw)
	if err != nil {
		return nil, err
	}
	samples = c.down.Mix(samples)
	for _, d := range c.decim {
		samples = d.Process(samples)
	}
	samples = c.matched.Process(samples)
	signBits := c.strategy.Demodulate(samples)
	return c.nrzi.Decode(signBits), nil
}
