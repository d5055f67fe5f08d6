package device

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/AIS-Hub/AISHub/internal/dsp"
	"github.com/AIS-Hub/AISHub/internal/fifo"
)

// FileDevice replays a WAV or headerless raw IQ file as a sample
// source, the "File(Wav|Raw)" tagged-variant member from the DESIGN
// NOTES list. A minimal RIFF/WAVE header reader is implemented
// directly on encoding/binary: no WAV-decoding library appears
// anywhere in the example pack, and the format is a small, fixed
// binary layout, so hand-parsing it here doesn't violate the
// no-stdlib-fallback rule the way reimplementing a protocol the
// ecosystem already has a library for would.
type FileDevice struct {
	path      string
	raw       bool
	format    dsp.Format
	blockSize int

	f         *os.File
	r         *bufio.Reader
	dataBytes int64
	streaming bool
}

// NewFileDevice opens path as a Wav container (raw=false) or a
// headerless stream of format-encoded samples (raw=true).
func NewFileDevice(path string, raw bool, format dsp.Format) *FileDevice {
	return &FileDevice{path: path, raw: raw, format: format, blockSize: fifo.DefaultBlockSize}
}

func (d *FileDevice) Kind() Kind {
	if d.raw {
		return KindFileRaw
	}
	return KindFileWav
}

// Open opens the file and, for WAV input, parses the RIFF/fmt /data
// chunks to discover the sample format and data extent.
func (d *FileDevice) Open() error {
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("device: open %s: %w", d.path, err)
	}
	d.f = f
	d.r = bufio.NewReader(f)

	if d.raw {
		return nil
	}
	fmtChunk, dataLen, err := readWavHeader(d.r)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("device: parse wav header: %w", err)
	}
	d.format = wavFormat(fmtChunk)
	d.dataBytes = dataLen
	return nil
}

// wavFmtChunk is the subset of the WAV "fmt " chunk this core reads.
type wavFmtChunk struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// readWavHeader walks RIFF chunks until it has both "fmt " and "data",
// returning the parsed format chunk and the data chunk's byte length.
// It assumes little-endian canonical WAV, the only variant the
// original's file source reads.
func readWavHeader(r *bufio.Reader) (wavFmtChunk, int64, error) {
	var riffHeader [12]byte
	if _, err := io.ReadFull(r, riffHeader[:]); err != nil {
		return wavFmtChunk{}, 0, err
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return wavFmtChunk{}, 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var fc wavFmtChunk
	var haveFmt bool
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			return wavFmtChunk{}, 0, err
		}
		id := string(chunkHeader[0:4])
		size := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return wavFmtChunk{}, 0, err
			}
			fc.AudioFormat = binary.LittleEndian.Uint16(body[0:2])
			fc.NumChannels = binary.LittleEndian.Uint16(body[2:4])
			fc.SampleRate = binary.LittleEndian.Uint32(body[4:8])
			fc.ByteRate = binary.LittleEndian.Uint32(body[8:12])
			fc.BlockAlign = binary.LittleEndian.Uint16(body[12:14])
			fc.BitsPerSample = binary.LittleEndian.Uint16(body[14:16])
			haveFmt = true
		case "data":
			if !haveFmt {
				return wavFmtChunk{}, 0, fmt.Errorf("data chunk before fmt chunk")
			}
			return fc, int64(size), nil
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return wavFmtChunk{}, 0, err
			}
		}
		if size%2 == 1 {
			_, _ = r.Discard(1) // chunks are word-aligned
		}
	}
}

// wavFormat maps a WAV fmt chunk to the closest dsp.Format: 8-bit PCM
// is treated as CU8 (unsigned, matching rtl_sdr's native format), and
// 16-bit PCM as CS16.
func wavFormat(fc wavFmtChunk) dsp.Format {
	if fc.BitsPerSample == 16 {
		return dsp.FormatCS16
	}
	return dsp.FormatCU8
}

func (d *FileDevice) SetRate(float64) error { return nil }
func (d *FileDevice) SetFreq(float64) error { return nil }

// Play streams blockSize-byte blocks from the open file to sink until
// EOF, Stop is called, or sink returns false.
func (d *FileDevice) Play(sink SampleSink) error {
	if d.r == nil {
		return fmt.Errorf("device: Play called before Open")
	}
	d.streaming = true
	defer func() { d.streaming = false }()

	var sampleIndex int64
	buf := make([]byte, d.blockSize)
	for d.streaming {
		n, err := io.ReadFull(d.r, buf)
		if n > 0 {
			if !sink(append([]byte(nil), buf[:n]...), sampleIndex) {
				return nil
			}
			sampleIndex += int64(n)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("device: read %s: %w", d.path, err)
		}
	}
	return nil
}

func (d *FileDevice) Pause() error { d.streaming = false; return nil }

func (d *FileDevice) Stop() error {
	d.streaming = false
	if d.f != nil {
		return d.f.Close()
	}
	return nil
}

func (d *FileDevice) IsStreaming() bool  { return d.streaming }
func (d *FileDevice) Format() dsp.Format { return d.format }

var _ Device = (*FileDevice)(nil)
