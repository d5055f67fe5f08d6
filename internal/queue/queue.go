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

package queue

import "fmt"

// Queue is a simple in-memory queue implementation.
// It uses a map to store multiple byte slices under a single key.
//
// ByteCapacity, when non-zero, bounds the total size in bytes a single
// key's pending values may hold; Push rejects anything that would
// exceed it. This generalizes the original unbounded map so it can
// back a per-connection outbound buffer with a hard ceiling
// (tcplistenersink's "≤8 MiB per-client buffer, drop-on-full").
type Queue struct {
	data         map[string][][]byte // Key -> Array of byte slices
	size         map[string]int      // Key -> total bytes currently queued
	ByteCapacity int
}

func NewQueue() *Queue {
	return &Queue{
		data: make(map[string][][]byte),
		size: make(map[string]int),
	}
}

// NewBoundedQueue returns a Queue that rejects Push once a key's queued
// bytes would exceed capacity.
func NewBoundedQueue(capacity int) *Queue {
	q := NewQueue()
	q.ByteCapacity = capacity
	return q
}

func (q *Queue) Push(key string, value []byte) (int, error) {
	if q.ByteCapacity > 0 && q.size[key]+len(value) > q.ByteCapacity {
		return len(q.data[key]), fmt.Errorf("queue: key %q would exceed capacity of %d bytes", key, q.ByteCapacity)
	}
	q.data[key] = append(q.data[key], value)
	q.size[key] += len(value)
	return len(q.data[key]), nil
}

func (q *Queue) Drain(key string) [][]byte {
	values := q.data[key]
	delete(q.data, key)
	delete(q.size, key)
	return values
}

func (q *Queue) Delete(key string) error {
	delete(q.data, key)
	delete(q.size, key)
	return nil
}

// Size reports the bytes currently queued under key.
func (q *Queue) Size(key string) int {
	return q.size[key]
}
