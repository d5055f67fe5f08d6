package model

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/dsp"
	"github.com/AIS-Hub/AISHub/internal/fifo"
	"github.com/AIS-Hub/AISHub/internal/hdlc"
	"github.com/AIS-Hub/AISHub/internal/nmea"
	"github.com/AIS-Hub/AISHub/internal/sinks"
	"github.com/AIS-Hub/AISHub/internal/stats"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"github.com/AIS-Hub/AISHub/internal/tracing"
	"github.com/AIS-Hub/AISHub/internal/vessel"
	"go.opentelemetry.io/otel/attribute"
)

// MessageHandler is invoked once per decoded AIS message, after it has
// been folded into the vessel DB and statistics but before sinks see
// it, letting callers (cmd) log or otherwise observe traffic.
type MessageHandler func(*ais.Message, ais.Decoded, *stream.TAG)

// channelPath is one DSP channel's wired chain: convert -> down-convert
// -> decimate/matched-filter -> demodulate -> NRZI -> HDLC framing.
type channelPath struct {
	channel byte
	chain   *dsp.Chain
	decoder *hdlc.Decoder
}

// Receiver wires one model.Config into a running pipeline: it owns the
// per-channel DSP chains (if any), the NMEA reassembler, and fans every
// decoded ais.Message out to the vessel DB, the statistics tracker and
// every registered sink. It implements stream.Stage so internal/cmd can
// register it on a stream.Pipeline alongside the device and sinks.
type Receiver struct {
	cfg Config

	fifo  *fifo.SampleFIFO
	paths []*channelPath

	reassembler *nmea.Reassembler

	vdb     *vessel.DB
	tracker *stats.Tracker
	sinkset []sinks.Sink
	onMsg   MessageHandler

	stopCh chan struct{}
}

// NewReceiver validates cfg and builds a Receiver ready to Start.
func NewReceiver(cfg Config, vdb *vessel.DB, tracker *stats.Tracker, sinkset []sinks.Sink, onMsg MessageHandler) (*Receiver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Receiver{
		cfg:     cfg,
		vdb:     vdb,
		tracker: tracker,
		sinkset: sinkset,
		onMsg:   onMsg,
		stopCh:  make(chan struct{}),
	}

	if cfg.Variant.RequiresDSP() {
		r.fifo = fifo.New(fifo.DefaultBlocks, fifo.DefaultBlockSize)
		strategy := strategyFor(cfg.Variant)
		for _, ch := range cfg.Channels {
			ch.Strategy = strategy
			chain, err := dsp.NewChain(cfg.Format, cfg.SampleRateHz, ch, cfg.DecimationStages, cfg.Taps)
			if err != nil {
				return nil, err
			}
			cp := &channelPath{channel: ch.Name}
			cp.decoder = hdlc.NewDecoder(ch.Name, r.makeFrameHandler(ch.Name))
			cp.chain = chain
			r.paths = append(r.paths, cp)
		}
	} else {
		r.reassembler = nmea.NewReassembler()
	}

	return r, nil
}

// Start begins the FIFO-draining consumer goroutine for DSP variants;
// text variants have nothing to start (FeedLine is called directly by
// the device/ingest loop).
func (r *Receiver) Start() error {
	if r.fifo == nil {
		return nil
	}
	go r.drainLoop()
	return nil
}

// Stop halts the FIFO and signals the drain loop to exit; it returns
// without waiting for the loop to finish.
func (r *Receiver) Stop() {
	close(r.stopCh)
	if r.fifo != nil {
		r.fifo.Halt()
	}
}

func (r *Receiver) drainLoop() {
	for {
		select {
		case <-r.stopCh:
			return
		default:
		}
		if !r.fifo.Wait() {
			if r.fifo.Halted() {
				return
			}
			continue
		}
		block, ok := r.fifo.Front()
		if !ok {
			continue
		}
		r.processBlock(block.Data)
		r.fifo.Pop(1)
	}
}

// PushSamples enqueues one raw sample block from a device callback,
// the only cross-goroutine hop in the DSP path (spec §4.2).
func (r *Receiver) PushSamples(raw []byte, sampleIndex int64) bool {
	if r.fifo == nil {
		return false
	}
	return r.fifo.Push(raw, sampleIndex, time.Now(), true)
}

func (r *Receiver) processBlock(raw []byte) {
	for _, cp := range r.paths {
		bits, err := cp.chain.Process(raw)
		if err != nil {
			klog.Warningf("model: channel %c: %v", cp.channel, err)
			continue
		}
		cp.decoder.FeedBits(bits)
	}
}

// makeFrameHandler returns the hdlc.Decoder onFrame callback for one
// channel: it renders the NMEA wire sentences for the frame and hands
// the decoded bits to the common message path.
func (r *Receiver) makeFrameHandler(channel byte) func(hdlc.Frame) {
	return func(f hdlc.Frame) {
		sentences, err := hdlc.AssembleSentences("AI", channel, "", f.Bits)
		if err != nil {
			klog.Warningf("model: channel %c: assemble NMEA: %v", channel, err)
			return
		}
		m := ais.NewMessage(f.Bits, sentences, channel, time.Now().Unix(), r.cfg.StationID)
		r.dispatch(m)
	}
}

// FeedLine accepts one line of already-framed input: an AIVDM/AIVDO
// NMEA sentence for VariantNMEAOnly/VariantBaseStation, used directly
// by cmd's file/stdin ingest loop for those variants.
func (r *Receiver) FeedLine(line string) {
	if r.reassembler == nil {
		return
	}
	s, err := nmea.Parse(line)
	if err != nil {
		klog.V(4).Infof("model: skipping unparsable line: %v", err)
		return
	}
	reassembled, err := r.reassembler.Feed(s)
	if err != nil {
		klog.V(4).Infof("model: reassembly: %v", err)
		return
	}
	if reassembled == nil {
		return
	}
	m := ais.NewMessage(reassembled.Bits, reassembled.Raw, reassembled.Channel, time.Now().Unix(), r.cfg.StationID)
	r.dispatch(m)
}

// dispatch decodes m, folds it into the vessel DB and statistics, runs
// the caller's observer and finally fans it out to every sink whose
// group mask and filter allow it. The whole call is wrapped in a span
// so a configured exporter sees one trace per decoded message, the
// per-source worker loop's unit of work (SPEC_FULL.md's tracing
// section).
func (r *Receiver) dispatch(m *ais.Message) {
	ctx, span := tracing.StartSpan(context.Background(), "model.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("ais.mmsi", int64(m.MMSI)),
		attribute.Int("ais.type", m.Type),
	)

	decoded := ais.Decode(m)
	tag := &stream.TAG{}

	_, existed := r.vdb.Get(m.MMSI)
	r.vdb.Update(m, decoded, tag)
	r.tracker.Add(m, tag, !existed)

	if r.onMsg != nil {
		r.onMsg(m, decoded, tag)
	}

	for _, sink := range r.sinkset {
		if sink.GroupMask() != stream.AllGroups && tag.Group&sink.GroupMask() == 0 {
			continue
		}
		if err := sink.Send(ctx, m, decoded, tag); err != nil {
			klog.Warningf("model: sink send failed: %v", err)
		}
	}
}
