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

// Package config holds the receiver's CLI/env-driven settings: which
// receiver to open, which channel plan and model to run, and which
// output sinks to wire (spec §6's CLI surface: -r, -c, -m, -u, -N, -H,
// -o). It keeps the teacher's atomic-singleton GetConfig()/SetConfig()
// idiom from internal/config/config.go (lazy init, read from any
// goroutine without a lock) but the fields and flag-binding are AIS
// specific: cmd/root.go populates a Config from cobra flags alone and
// calls SetConfig once at startup. The envOr/envOrInt/envOrCSV helpers
// below are not called by that path; no environment variable is read.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// Receiver describes one input source: a device kind plus its
// driver-specific locator (file path, network address, serial number),
// selected on the CLI via "-r <type>[:path]".
type Receiver struct {
	Type        string // "rtlsdr", "airspy", "hackrf", "sdrplay", "file", "udp", "tcp", "zmq", "null"
	Path        string // file path or network address, driver dependent
	Raw         bool   // headerless raw IQ instead of a WAV container (file receivers only)
	SampleRate  float64
	FrequencyHz float64
}

// Sink describes one output collaborator requested on the CLI.
type Sink struct {
	Kind string // "udp", "tcp-listen", "http"
	Addr string
}

// Config is the full set of settings a receiver process needs, built
// once from CLI flags before the pipeline is wired.
type Config struct {
	LogLevel LogLevel

	Receiver Receiver
	Channel  string // "AB", "CD", or "X", per spec's "-c AB|CD|X"
	Model    int    // 0..7, selects a model.Variant (spec "-m 0..7")

	StationID uint32
	OwnLat    float64
	OwnLon    float64
	HasOwnPos bool

	UDPSinks  []Sink // "-u host:port" (repeatable)
	TCPSinks  []Sink // "-N host:port" (repeatable, listener mode)
	HTTPSinks []Sink // "-H url" (repeatable)
	Output    string // "-o": "nmea", "json", "jsonfull", "none"

	VesselDBPath     string
	StatsDBPath      string
	VesselCapacity   int
	PathCapacity     int
	RangeCutoffNMI   int

	HTTP    HTTP
	Metrics Metrics
	Redis   Redis

	Debug bool
}

// Redis optionally bridges internal/httpserver's broadcast hubs across
// processes (internal/pubsub), for deployments that split the receiver
// and the HTTP/UI server, or run more than one receiver against a
// shared dashboard. Disabled by default: the hubs stay process-local.
type Redis struct {
	Enabled  bool
	Addr     string // "host:port"
	Password string
}

// HTTP controls the embedded UI/API server (spec §6).
type HTTP struct {
	Enabled    bool
	ListenAddr string
	Port       int
	CORSHosts  []string
}

// Metrics controls the standalone Prometheus listener.
type Metrics struct {
	Enabled bool
	Bind    string
	Port    int
}

var currentConfig atomic.Pointer[Config] //nolint:golint,gochecknoglobals

// SetConfig installs the process-wide configuration, built once by
// cmd.NewCommand's RunE after cobra has parsed flags.
func SetConfig(cfg Config) {
	currentConfig.Store(&cfg)
}

// GetConfig returns the process-wide configuration. Any package that
// needs a setting at runtime (rather than having it passed in
// explicitly at construction) reads it here, matching the teacher's
// config.GetConfig() call sites throughout internal/*.
func GetConfig() *Config {
	cfg := currentConfig.Load()
	if cfg == nil {
		def := Default()
		return &def
	}
	return cfg
}

// Default returns the built-in configuration used when no flags or
// environment variables override it: a null receiver, standard model,
// HTTP UI on :8100, no output sinks. Mirrors the teacher's loadConfig()
// hardcoded fallbacks (ListenAddr "0.0.0.0", HTTPPort 3005, ...).
func Default() Config {
	return Config{
		LogLevel: LogLevelInfo,
		Receiver: Receiver{
			Type:       "null",
			SampleRate: 2048000,
		},
		Channel:        "AB",
		Model:          0,
		VesselCapacity: 4096,
		PathCapacity:   16,
		RangeCutoffNMI: 2500,
		HTTP: HTTP{
			Enabled:    true,
			ListenAddr: "0.0.0.0",
			Port:       8100,
		},
		Metrics: Metrics{
			Enabled: false,
			Bind:    "127.0.0.1",
			Port:    9100,
		},
	}
}

// envOr returns the environment variable's value, or def if unset.
func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// envOrInt parses an integer environment variable, falling back to def
// on absence or a parse error (the teacher's loadConfig() does the
// same silent fallback for *_PORT variables).
func envOrInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// envOrCSV splits a comma-separated environment variable, falling back
// to def when unset (teacher's CORS_HOSTS/TRUSTED_PROXIES handling).
func envOrCSV(name string, def []string) []string {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	return strings.Split(v, ",")
}
