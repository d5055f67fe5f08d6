// SPDX-License-Identifier: AGPL-3.0-or-later
// AISHub - A VHF AIS receiver and decoder core in a single binary
// Copyright (C) 2026 The AISHub Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/AIS-Hub/AISHub>

package cmd

import (
	"testing"

	"github.com/AIS-Hub/AISHub/internal/sinks"
)

func TestSplitReceiverSpec(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in       string
		wantType string
		wantPath string
		wantRaw  bool
	}{
		{"null", "null", "", false},
		{"file:/tmp/sample.wav", "file", "/tmp/sample.wav", false},
		{"file-raw:/tmp/sample.raw", "file-raw", "/tmp/sample.raw", true},
		{"rtlsdr", "rtlsdr", "", false},
	}
	for _, c := range cases {
		gotType, gotPath, gotRaw := splitReceiverSpec(c.in)
		if gotType != c.wantType || gotPath != c.wantPath || gotRaw != c.wantRaw {
			t.Errorf("splitReceiverSpec(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.in, gotType, gotPath, gotRaw, c.wantType, c.wantPath, c.wantRaw)
		}
	}
}

func TestChannelPlan(t *testing.T) {
	t.Parallel()
	cases := map[string]struct {
		count int
		names []byte
	}{
		"AB": {2, []byte{'A', 'B'}},
		"CD": {2, []byte{'C', 'D'}},
		"X":  {1, []byte{'X'}},
	}
	for plan, want := range cases {
		got := channelPlan(plan)
		if len(got) != want.count {
			t.Fatalf("channelPlan(%q) returned %d channels, want %d", plan, len(got), want.count)
		}
		for i, ch := range got {
			if ch.Name != want.names[i] {
				t.Errorf("channelPlan(%q)[%d].Name = %q, want %q", plan, i, ch.Name, want.names[i])
			}
			if ch.SamplesPerSymbol <= 0 {
				t.Errorf("channelPlan(%q)[%d].SamplesPerSymbol = %d, want > 0", plan, i, ch.SamplesPerSymbol)
			}
		}
	}
}

func TestOutputFormat(t *testing.T) {
	t.Parallel()
	if _, ok := outputFormat("none"); ok {
		t.Fatal("expected \"none\" to report ok=false")
	}
	if f, ok := outputFormat("nmea"); !ok || f != sinks.FormatNMEA {
		t.Fatalf("outputFormat(nmea) = (%v, %v), want (FormatNMEA, true)", f, ok)
	}
	if f, ok := outputFormat("jsonfull"); !ok || f != sinks.FormatJSONFull {
		t.Fatalf("outputFormat(jsonfull) = (%v, %v), want (FormatJSONFull, true)", f, ok)
	}
}

func TestBuildConfigDefaultsValidate(t *testing.T) {
	t.Parallel()
	cfg, err := buildConfig(buildConfigArgs{
		receiverSpec: "null",
		channel:      "AB",
		modelIdx:     0,
		output:       "nmea",
		httpAddr:     "0.0.0.0",
		httpPort:     8100,
		metricsAddr:  "127.0.0.1",
		metricsPort:  9100,
		logLevel:     "info",
	})
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected built config to validate, got: %v", err)
	}
}

func TestBuildConfigSplitsFileReceiver(t *testing.T) {
	t.Parallel()
	cfg, err := buildConfig(buildConfigArgs{
		receiverSpec: "file:/tmp/sample.wav",
		channel:      "AB",
		modelIdx:     0,
		output:       "none",
		httpAddr:     "0.0.0.0",
		httpPort:     8100,
		metricsAddr:  "127.0.0.1",
		metricsPort:  9100,
		logLevel:     "info",
	})
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Receiver.Type != "file" || cfg.Receiver.Path != "/tmp/sample.wav" {
		t.Fatalf("unexpected receiver: %+v", cfg.Receiver)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected built config to validate, got: %v", err)
	}
}

func TestBuildConfigRedisDisabledByDefault(t *testing.T) {
	t.Parallel()
	cfg, err := buildConfig(buildConfigArgs{
		receiverSpec: "null",
		channel:      "AB",
		output:       "nmea",
		httpAddr:     "0.0.0.0",
		httpPort:     8100,
		metricsAddr:  "127.0.0.1",
		metricsPort:  9100,
		logLevel:     "info",
	})
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Redis.Enabled {
		t.Fatalf("expected redis disabled when no address was given")
	}
}

func TestBuildConfigRedisEnabledWithAddr(t *testing.T) {
	t.Parallel()
	cfg, err := buildConfig(buildConfigArgs{
		receiverSpec: "null",
		channel:      "AB",
		output:       "nmea",
		httpAddr:     "0.0.0.0",
		httpPort:     8100,
		metricsAddr:  "127.0.0.1",
		metricsPort:  9100,
		logLevel:     "info",
		redisAddr:    "localhost:6379",
	})
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("expected redis enabled with addr localhost:6379, got %+v", cfg.Redis)
	}
}

func TestNewCommandRegistersExpectedFlags(t *testing.T) {
	t.Parallel()
	c := NewCommand("test", "deadbeef")
	for _, name := range []string{"receiver", "channel", "model", "udp", "tcp-listen", "http-sink", "output", "station-id"} {
		if c.Flags().Lookup(name) == nil {
			t.Errorf("expected flag %q to be registered", name)
		}
	}
}
