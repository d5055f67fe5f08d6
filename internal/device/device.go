// Package device models the SDR/file sample source as a tagged variant
// over a shared capability interface, replacing the original's
// polymorphic Device base class per DESIGN NOTES: "model devices as a
// tagged variant Device = RTL|AirspyHF|Airspy|HackRF|SDRPlay|
// File(Wav|Raw)|UDP|TCP|ZMQ|Null with a shared capability interface
// {open, setRate, setFreq, play, pause, stop, isStreaming, format}."
// Concrete hardware bindings (rtl-sdr, airspy, hackrf, sdrplay, soapy)
// are out of scope per spec.md §1 (REDESIGN FLAGS: bring-your-own
// driver bindings); only FileDevice and NullDevice are implemented
// here, enough to drive internal/fifo and internal/dsp end to end in
// tests without real hardware.
package device

import "github.com/AIS-Hub/AISHub/internal/dsp"

// Kind tags which concrete device a Device value is, mirroring the
// DESIGN NOTES tagged-variant list. Only Kind{File,Null} have a
// constructor in this package; the rest are named so Inventory and
// callers can reason about the full variant set even though this core
// doesn't drive real hardware.
type Kind int

const (
	KindRTL Kind = iota
	KindAirspyHF
	KindAirspy
	KindHackRF
	KindSDRPlay
	KindFileWav
	KindFileRaw
	KindUDP
	KindTCP
	KindZMQ
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindRTL:
		return "rtlsdr"
	case KindAirspyHF:
		return "airspyhf"
	case KindAirspy:
		return "airspy"
	case KindHackRF:
		return "hackrf"
	case KindSDRPlay:
		return "sdrplay"
	case KindFileWav:
		return "file:wav"
	case KindFileRaw:
		return "file:raw"
	case KindUDP:
		return "udp"
	case KindTCP:
		return "tcp"
	case KindZMQ:
		return "zmq"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// SampleSink receives one raw sample block and its monotonic sample
// index; it returns false to ask the device to stop streaming (e.g.
// because the consumer's FIFO is closed).
type SampleSink func(block []byte, sampleIndex int64) bool

// Device is the shared capability interface every device kind
// implements, ported field-for-field from the DESIGN NOTES capability
// list.
type Device interface {
	Kind() Kind
	Open() error
	SetRate(hz float64) error
	SetFreq(hz float64) error
	Play(sink SampleSink) error
	Pause() error
	Stop() error
	IsStreaming() bool
	Format() dsp.Format
}
