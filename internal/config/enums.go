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

// LogLevel represents the logging level for the application.
type LogLevel string

const (
	// LogLevelDebug is the debug logging level, providing detailed information.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the informational logging level, providing general information.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is the warning logging level, indicating potential issues.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is the error logging level, indicating serious issues.
	LogLevelError LogLevel = "error"
)

// ReceiverType enumerates the "-r<type>" values the CLI accepts. Only
// file and null are backed by a concrete internal/device.Device in
// this core; the hardware types are recognized here so Config.Validate
// reports a clear "not built" error instead of silently falling
// through to the null device.
type ReceiverType string

const (
	ReceiverRTLSDR  ReceiverType = "rtlsdr"
	ReceiverAirspy  ReceiverType = "airspy"
	ReceiverHackRF  ReceiverType = "hackrf"
	ReceiverSDRPlay ReceiverType = "sdrplay"
	ReceiverFile    ReceiverType = "file"
	ReceiverUDP     ReceiverType = "udp"
	ReceiverTCP     ReceiverType = "tcp"
	ReceiverZMQ     ReceiverType = "zmq"
	ReceiverNull    ReceiverType = "null"
)

// hardwareReceivers lists the -r types this build recognizes but does
// not implement (spec.md §1: "device driver bindings ... are thin shims
// onto the raw sample producer interface" and out of scope).
var hardwareReceivers = map[ReceiverType]bool{ //nolint:golint,gochecknoglobals
	ReceiverRTLSDR:  true,
	ReceiverAirspy:  true,
	ReceiverHackRF:  true,
	ReceiverSDRPlay: true,
}
