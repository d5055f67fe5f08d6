package device

import "github.com/AIS-Hub/AISHub/internal/dsp"

// NullDevice never produces samples; it exists purely so tests and a
// "-r null" CLI configuration have a Device to wire without
// needing hardware or a file, the same role the original's Null source
// plays.
type NullDevice struct {
	streaming bool
}

func NewNullDevice() *NullDevice { return &NullDevice{} }

func (d *NullDevice) Kind() Kind          { return KindNull }
func (d *NullDevice) Open() error         { return nil }
func (d *NullDevice) SetRate(float64) error { return nil }
func (d *NullDevice) SetFreq(float64) error { return nil }

func (d *NullDevice) Play(SampleSink) error {
	d.streaming = true
	d.streaming = false
	return nil
}

func (d *NullDevice) Pause() error { d.streaming = false; return nil }
func (d *NullDevice) Stop() error  { d.streaming = false; return nil }

func (d *NullDevice) IsStreaming() bool { return d.streaming }
func (d *NullDevice) Format() dsp.Format { return dsp.FormatCU8 }

var _ Device = (*NullDevice)(nil)
