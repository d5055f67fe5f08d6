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

package metrics

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readTimeout = 3 * time.Second

// Config controls the standalone Prometheus listener, passed explicitly
// by cmd (from the CLI-bound config.Config) rather than read from a
// global, so this package stays independent of internal/config.
type Config struct {
	Enabled bool
	Bind    string
	Port    int
}

// CreateMetricsServer starts the /metrics listener in the background
// and returns once the listen succeeds (or fails), mirroring the
// teacher's bind-then-serve split so a port conflict is reported to
// the caller instead of panicking deep in a goroutine.
func CreateMetricsServer(cfg Config) error {
	if !cfg.Enabled {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics: listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readTimeout,
	}

	go func() {
		_ = server.Serve(ln)
	}()

	return nil
}
