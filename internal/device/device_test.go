package device_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIS-Hub/AISHub/internal/device"
	"github.com/AIS-Hub/AISHub/internal/dsp"
)

func TestNullDeviceNeverStreams(t *testing.T) {
	d := device.NewNullDevice()
	require.NoError(t, d.Open())
	require.NoError(t, d.Play(func([]byte, int64) bool { return true }))
	assert.False(t, d.IsStreaming())
	assert.Equal(t, device.KindNull, d.Kind())
}

func writeTestWav(t *testing.T, path string, samples []byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	dataLen := uint32(len(samples))
	riffLen := 36 + dataLen

	_, _ = f.WriteString("RIFF")
	_ = binary.Write(f, binary.LittleEndian, riffLen)
	_, _ = f.WriteString("WAVE")

	_, _ = f.WriteString("fmt ")
	_ = binary.Write(f, binary.LittleEndian, uint32(16))
	_ = binary.Write(f, binary.LittleEndian, uint16(1))  // PCM
	_ = binary.Write(f, binary.LittleEndian, uint16(2))  // channels (I/Q)
	_ = binary.Write(f, binary.LittleEndian, uint32(2048000))
	_ = binary.Write(f, binary.LittleEndian, uint32(2048000*2))
	_ = binary.Write(f, binary.LittleEndian, uint16(2))
	_ = binary.Write(f, binary.LittleEndian, uint16(8)) // bits per sample

	_, _ = f.WriteString("data")
	_ = binary.Write(f, binary.LittleEndian, dataLen)
	_, _ = f.Write(samples)
}

func TestFileDeviceParsesWavHeaderAndStreams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wav")
	samples := make([]byte, 256)
	for i := range samples {
		samples[i] = byte(128 + i%16)
	}
	writeTestWav(t, path, samples)

	d := device.NewFileDevice(path, false, dsp.FormatCU8)
	require.NoError(t, d.Open())
	defer d.Stop()

	assert.Equal(t, dsp.FormatCU8, d.Format())

	var received []byte
	require.NoError(t, d.Play(func(block []byte, _ int64) bool {
		received = append(received, block...)
		return true
	}))
	assert.Equal(t, samples, received)
}

func TestFileDeviceRawStreamsWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.raw")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4, 5, 6}, 0o600))

	d := device.NewFileDevice(path, true, dsp.FormatCS8)
	require.NoError(t, d.Open())
	defer d.Stop()

	var total int
	require.NoError(t, d.Play(func(block []byte, _ int64) bool {
		total += len(block)
		return true
	}))
	assert.Equal(t, 6, total)
}

func TestInventoryRegisterAndFilter(t *testing.T) {
	inv := device.NewInventory()
	inv.Register(device.Descriptor{Kind: device.KindFileRaw, ID: "/tmp/a.raw"})
	inv.Register(device.Descriptor{Kind: device.KindNull, ID: "null"})

	assert.Len(t, inv.List(), 2)
	assert.Len(t, inv.ByKind(device.KindFileRaw), 1)
	assert.Len(t, inv.ByKind(device.KindUDP), 0)
}
