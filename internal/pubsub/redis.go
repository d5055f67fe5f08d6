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

// Package pubsub bridges internal/sinks.Broadcaster hubs across
// processes over Redis, for deployments that run the HTTP/UI server
// separately from the receiver process (or more than one receiver
// feeding the same dashboard). It is the AIS-domain reshaping of the
// teacher's internal/pubsub/redis.go: the same *redis.Client options
// (PoolFIFO, GOMAXPROCS-scaled pool/idle sizing) and Publish/Subscribe
// shape, but topics are the three broadcast feeds (spec's
// "ais_catcher"/"nmea"/"log") rather than DMR repeater-hub events, and
// the subscriber side feeds straight into a local
// internal/sinks.Broadcaster instead of a generic byte-slice channel.
package pubsub

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"k8s.io/klog/v2"

	"github.com/AIS-Hub/AISHub/internal/sinks"
)

const connsPerCPU = 10
const maxIdleTime = 5 * time.Minute

// Hub wraps a Redis client used to fan broadcaster lines out to (and
// pull them back in from) every other process sharing the same Redis
// instance and topic prefix.
type Hub struct {
	client *redis.Client
}

// Connect dials addr (host:port) and verifies connectivity with PING,
// matching the teacher's eager-connect-and-ping behavior in
// makePubSubFromRedis.
func Connect(ctx context.Context, addr, password string) (*Hub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		PoolFIFO:        true,
		PoolSize:        runtime.GOMAXPROCS(0) * connsPerCPU,
		MinIdleConns:    runtime.GOMAXPROCS(0),
		ConnMaxIdleTime: maxIdleTime,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("pubsub: connecting to redis at %s: %w", addr, err)
	}
	return &Hub{client: client}, nil
}

// Publish sends line on topic for every subscribed process to receive.
func (h *Hub) Publish(ctx context.Context, topic, line string) error {
	if err := h.client.Publish(ctx, topic, line).Err(); err != nil {
		return fmt.Errorf("pubsub: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscription is a raw Redis subscription to one topic, for callers
// that want the message stream directly rather than bridged into a
// Broadcaster (used by tests and by any future non-Broadcaster
// consumer).
type Subscription struct {
	sub *redis.PubSub
	ch  <-chan *redis.Message
}

// Subscribe opens a raw subscription to topic.
func (h *Hub) Subscribe(ctx context.Context, topic string) *Subscription {
	sub := h.client.Subscribe(ctx, topic)
	return &Subscription{sub: sub, ch: sub.Channel()}
}

// Channel returns the payload of every message published to the
// subscribed topic.
func (s *Subscription) Channel() <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range s.ch {
			out <- msg.Payload
		}
	}()
	return out
}

// Unsubscribe closes the underlying Redis subscription.
func (s *Subscription) Unsubscribe() error {
	if err := s.sub.Close(); err != nil {
		return fmt.Errorf("pubsub: unsubscribe: %w", err)
	}
	return nil
}

// Relay subscribes to topic and feeds every message it receives into
// local, the same process-local hub internal/httpserver's SSE/websocket
// handlers subscribe to, so remote publishers appear as if they were
// local. It runs until ctx is cancelled. Callers must not also Bridge
// the same local hub back onto topic, or every relayed message would
// echo straight back out to Redis.
func (h *Hub) Relay(ctx context.Context, topic string, local *sinks.Broadcaster) {
	sub := h.client.Subscribe(ctx, topic)
	defer sub.Close() //nolint:errcheck

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			local.PublishExternal(msg.Payload)
		}
	}
}

// Bridge subscribes local to the topic and republishes everything it
// emits onto the Redis topic, the write side of the cross-process
// fan-out; it runs until local's channel is closed or ctx is
// cancelled.
func (h *Hub) Bridge(ctx context.Context, topic string, local *sinks.Broadcaster) {
	ch := local.Subscribe(sinks.BroadcastBufferDefault)
	defer local.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-ch:
			if !ok {
				return
			}
			if err := h.Publish(ctx, topic, line); err != nil {
				klog.Warningf("pubsub: %v", err)
			}
		}
	}
}

// Close releases the underlying Redis client.
func (h *Hub) Close() error {
	if err := h.client.Close(); err != nil {
		return fmt.Errorf("pubsub: close: %w", err)
	}
	return nil
}
