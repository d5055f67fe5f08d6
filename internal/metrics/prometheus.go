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

// Package metrics exposes AISHub's Prometheus gauges/counters/histograms,
// generalized from the teacher's internal/metrics/prometheus.go KV-store
// metrics (same NewMetrics/register/MustRegister shape) to the pipeline
// throughput, decode and sink counters SPEC_FULL.md's ambient stack names.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every gauge/counter/histogram the receiver publishes.
type Metrics struct {
	SamplesProcessedTotal prometheus.Counter
	FramesDecodedTotal    *prometheus.CounterVec // label: channel
	FramesCRCFailedTotal  *prometheus.CounterVec // label: channel
	MessagesDecodedTotal  *prometheus.CounterVec // label: msgtype
	VesselCount           prometheus.Gauge
	SinkSendTotal         *prometheus.CounterVec // labels: sink, status
	SinkSendDuration      *prometheus.HistogramVec
}

// NewMetrics builds and registers the default metric set.
func NewMetrics() *Metrics {
	m := &Metrics{
		SamplesProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aishub_samples_processed_total",
			Help: "The total number of raw IQ/audio samples processed by the DSP chain",
		}),
		FramesDecodedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aishub_hdlc_frames_decoded_total",
			Help: "The total number of HDLC frames that passed CRC, per channel",
		}, []string{"channel"}),
		FramesCRCFailedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aishub_hdlc_frames_crc_failed_total",
			Help: "The total number of HDLC frames that failed CRC, per channel",
		}, []string{"channel"}),
		MessagesDecodedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aishub_messages_decoded_total",
			Help: "The total number of AIS messages decoded, per message type",
		}, []string{"msgtype"}),
		VesselCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aishub_vessels_tracked",
			Help: "The current number of vessels held in the vessel database",
		}),
		SinkSendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aishub_sink_send_total",
			Help: "The total number of messages handed to an output sink, per sink and status",
		}, []string{"sink", "status"}),
		SinkSendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aishub_sink_send_duration_seconds",
			Help:    "Duration of Sink.Send calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"sink"}),
	}
	m.register()
	return m
}

func (m *Metrics) register() {
	prometheus.MustRegister(m.SamplesProcessedTotal)
	prometheus.MustRegister(m.FramesDecodedTotal)
	prometheus.MustRegister(m.FramesCRCFailedTotal)
	prometheus.MustRegister(m.MessagesDecodedTotal)
	prometheus.MustRegister(m.VesselCount)
	prometheus.MustRegister(m.SinkSendTotal)
	prometheus.MustRegister(m.SinkSendDuration)
}

// RecordSinkSend observes one Sink.Send call's outcome and duration.
func (m *Metrics) RecordSinkSend(sink, status string, seconds float64) {
	m.SinkSendTotal.WithLabelValues(sink, status).Inc()
	m.SinkSendDuration.WithLabelValues(sink).Observe(seconds)
}
