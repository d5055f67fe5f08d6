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

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLogLevel indicates that the provided log level is not valid.
	ErrInvalidLogLevel = errors.New("invalid log level provided")
	// ErrInvalidChannel indicates the -c value isn't one of AB, CD, X.
	ErrInvalidChannel = errors.New("invalid channel plan provided, must be one of AB, CD, or X")
	// ErrInvalidModel indicates the -m value is outside 0..7.
	ErrInvalidModel = errors.New("invalid model index provided, must be 0..7")
	// ErrUnknownReceiver indicates the -r type isn't recognized at all.
	ErrUnknownReceiver = errors.New("unknown receiver type provided")
	// ErrHardwareReceiverNotBuilt indicates a recognized but unimplemented
	// hardware receiver type was requested.
	ErrHardwareReceiverNotBuilt = errors.New("receiver type recognized but not built in this core; only file and null receivers are implemented")
	// ErrFileReceiverRequiresPath indicates "-r file" was given without a path.
	ErrFileReceiverRequiresPath = errors.New("file receiver requires a path")
	// ErrInvalidHTTPPort indicates the HTTP server port is out of range.
	ErrInvalidHTTPPort = errors.New("invalid HTTP port provided")
	// ErrInvalidMetricsPort indicates the metrics server port is out of range.
	ErrInvalidMetricsPort = errors.New("invalid metrics port provided")
	// ErrRedisRequiresAddr indicates Redis was enabled without an address.
	ErrRedisRequiresAddr = errors.New("redis enabled but no address provided")
)

func validPort(p int) bool {
	return p > 0 && p <= 65535
}

// Validate checks the receiver selection per spec.md's "model and
// input format not consistent" family of configuration errors,
// reporting every field-level problem a configurator refuses to start
// with.
func (r Receiver) Validate() error {
	t := ReceiverType(r.Type)
	switch t {
	case ReceiverNull:
		return nil
	case ReceiverFile, ReceiverType("file-raw"):
		if r.Path == "" {
			return ErrFileReceiverRequiresPath
		}
		return nil
	case ReceiverUDP, ReceiverTCP, ReceiverZMQ:
		return nil
	default:
		if hardwareReceivers[t] {
			return fmt.Errorf("%w: %s", ErrHardwareReceiverNotBuilt, r.Type)
		}
		return fmt.Errorf("%w: %s", ErrUnknownReceiver, r.Type)
	}
}

// Validate validates the HTTP server configuration.
func (h HTTP) Validate() error {
	if !h.Enabled {
		return nil
	}
	if !validPort(h.Port) {
		return ErrInvalidHTTPPort
	}
	return nil
}

// Validate validates the metrics server configuration.
func (m Metrics) Validate() error {
	if !m.Enabled {
		return nil
	}
	if !validPort(m.Port) {
		return ErrInvalidMetricsPort
	}
	return nil
}

// Validate validates the optional Redis broadcast bridge.
func (r Redis) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Addr == "" {
		return ErrRedisRequiresAddr
	}
	return nil
}

// Validate checks the whole configuration before the pipeline is
// wired, the same "refuse the build and report" role as
// model.Config.Validate and dsp.NewChain's format check.
func (c Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return ErrInvalidLogLevel
	}

	switch c.Channel {
	case "AB", "CD", "X":
	default:
		return ErrInvalidChannel
	}

	if c.Model < 0 || c.Model > 7 {
		return ErrInvalidModel
	}

	if err := c.Receiver.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}

	return nil
}
