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

package config_test

import (
	"errors"
	"testing"

	"github.com/AIS-Hub/AISHub/internal/config"
)

func TestDefaultConfigValidates(t *testing.T) {
	t.Parallel()
	if err := config.Default().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got: %v", err)
	}
}

func TestValidateRejectsBadChannel(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Channel = "ZZ"
	if !errors.Is(cfg.Validate(), config.ErrInvalidChannel) {
		t.Fatalf("expected ErrInvalidChannel, got: %v", cfg.Validate())
	}
}

func TestValidateRejectsBadModel(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Model = 8
	if !errors.Is(cfg.Validate(), config.ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got: %v", cfg.Validate())
	}
}

func TestValidateRejectsUnknownReceiver(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Receiver.Type = "bogus"
	if err := cfg.Validate(); !errors.Is(err, config.ErrUnknownReceiver) {
		t.Fatalf("expected ErrUnknownReceiver, got: %v", err)
	}
}

func TestValidateRejectsHardwareReceiver(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Receiver.Type = "rtlsdr"
	if err := cfg.Validate(); !errors.Is(err, config.ErrHardwareReceiverNotBuilt) {
		t.Fatalf("expected ErrHardwareReceiverNotBuilt, got: %v", err)
	}
}

func TestValidateRejectsFileReceiverWithoutPath(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Receiver.Type = "file"
	if !errors.Is(cfg.Validate(), config.ErrFileReceiverRequiresPath) {
		t.Fatalf("expected ErrFileReceiverRequiresPath, got: %v", cfg.Validate())
	}
}

func TestValidateAcceptsFileReceiverWithPath(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Receiver.Type = "file"
	cfg.Receiver.Path = "/tmp/sample.wav"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected file receiver with path to validate, got: %v", err)
	}
}

func TestValidateRejectsRedisEnabledWithoutAddr(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Redis.Enabled = true
	if !errors.Is(cfg.Validate(), config.ErrRedisRequiresAddr) {
		t.Fatalf("expected ErrRedisRequiresAddr, got: %v", cfg.Validate())
	}
}

func TestValidateAcceptsRedisEnabledWithAddr(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "localhost:6379"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected redis config with addr to validate, got: %v", err)
	}
}

func TestGetConfigReturnsDefaultWhenUnset(t *testing.T) {
	got := config.GetConfig()
	if got.Channel == "" {
		t.Fatal("expected GetConfig to return a populated default, got zero value")
	}
}

func TestSetConfigRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.StationID = 42
	config.SetConfig(cfg)
	if got := config.GetConfig().StationID; got != 42 {
		t.Fatalf("expected StationID 42, got %d", got)
	}
}
