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

// Package tracing installs the process-wide OpenTelemetry TracerProvider,
// mirroring the teacher's internal/cmd/root.go initTracer: an
// sdktrace.TracerProvider registered globally via otel.SetTracerProvider,
// torn down on shutdown. Unlike the teacher, no OTLP exporter is wired
// here (no OTLP-endpoint configuration is part of this receiver's CLI
// surface) — the provider still samples and records every span, so
// internal/model and internal/httpserver's Start calls behave
// identically whether or not something is draining them; adding an
// exporter later only touches this file.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Tracer is the name every span in this repo is created under, the
// AISHub equivalent of the teacher's otel.Tracer("DMRHub") call sites.
const Tracer = "aishub"

// Setup installs a sampling TracerProvider as the global default and
// returns its Shutdown func for callers to defer.
func Setup() func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// StartSpan is a thin helper around otel.Tracer(Tracer).Start, used by
// internal/model's per-message dispatch loop and internal/httpserver's
// request middleware so both read the same tracer name.
func StartSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	return otel.Tracer(Tracer).Start(ctx, name)
}
