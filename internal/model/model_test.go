package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/dsp"
	"github.com/AIS-Hub/AISHub/internal/model"
	"github.com/AIS-Hub/AISHub/internal/stats"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"github.com/AIS-Hub/AISHub/internal/vessel"
)

func TestParseVariantRoundTrip(t *testing.T) {
	for _, name := range []string{"standard", "base", "default", "discriminator", "challenger", "nmeaonly", "n2k", "basestation"} {
		v, err := model.ParseVariant(name)
		require.NoError(t, err)
		assert.Equal(t, name, v.String())
	}
}

func TestParseVariantRejectsUnknown(t *testing.T) {
	_, err := model.ParseVariant("bogus")
	assert.Error(t, err)
}

func TestConfigValidateRejectsFormatMismatch(t *testing.T) {
	cfg := model.Config{Variant: model.VariantStandard, Format: dsp.FormatTXT}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding model and input format not consistent")
}

func TestConfigValidateRejectsTextVariantWithDSPFormat(t *testing.T) {
	cfg := model.Config{Variant: model.VariantNMEAOnly, Format: dsp.FormatCU8}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestConfigValidateAcceptsNMEAOnly(t *testing.T) {
	cfg := model.Config{Variant: model.VariantNMEAOnly, Format: dsp.FormatTXT}
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidateRequiresChannelsForDSP(t *testing.T) {
	cfg := model.Config{Variant: model.VariantStandard, Format: dsp.FormatCU8}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one channel")
}

func TestReceiverFeedLineUpdatesVesselDB(t *testing.T) {
	cfg := model.Config{Variant: model.VariantNMEAOnly, Format: dsp.FormatTXT}
	vdb := vessel.NewDB(16, 64)
	tracker := stats.NewTracker()

	var seen int
	recv, err := model.NewReceiver(cfg, vdb, tracker, nil, func(m *ais.Message, d ais.Decoded, tag *stream.TAG) {
		seen++
	})
	require.NoError(t, err)

	recv.FeedLine("!AIVDM,1,1,,A,15M67FC000G?ufbE`FepT@3n00Sa,0*5F")

	assert.Equal(t, 1, vdb.Count())
	assert.Equal(t, 1, seen)
}

func TestReceiverFeedLineIgnoresGarbage(t *testing.T) {
	cfg := model.Config{Variant: model.VariantNMEAOnly, Format: dsp.FormatTXT}
	vdb := vessel.NewDB(16, 64)
	tracker := stats.NewTracker()

	recv, err := model.NewReceiver(cfg, vdb, tracker, nil, nil)
	require.NoError(t, err)

	recv.FeedLine("not a sentence")
	assert.Equal(t, 0, vdb.Count())
}
