// go-rig
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-rig.
//
// go-rig is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-rig is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-rig; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package testing

import (
	"errors"
	"sync"
	"time"

	rig "github.com/ZaparooProject/go-rig"
)

// MockPort is a scripted rig.Port. Reads return queued messages in order
// and time out once the queue is empty. OnWrite may queue replies for
// each written frame.
type MockPort struct {
	OnWrite  func(written []byte) [][]byte
	WriteErr error
	ReadErr  error
	name     string
	writes   [][]byte
	queue    []mockRead
	flushes  int
	mu       sync.Mutex
	closed   bool
}

type mockRead struct {
	err  error
	data []byte
}

// NewMockPort creates an empty mock port
func NewMockPort() *MockPort {
	return &MockPort{name: "mock"}
}

// QueueRead queues messages returned by subsequent reads
func (m *MockPort) QueueRead(msgs ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		m.queue = append(m.queue, mockRead{data: append([]byte(nil), msg...)})
	}
}

// QueueTimeout queues a read that times out
func (m *MockPort) QueueTimeout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockRead{err: rig.NewTimeoutError("read", m.name)})
}

// Write records p and queues the replies produced by OnWrite
func (m *MockPort) Write(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return rig.NewIOError("write", m.name, rig.ErrPortClosed)
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.writes = append(m.writes, append([]byte(nil), p...))
	if m.OnWrite != nil {
		for _, msg := range m.OnWrite(p) {
			m.queue = append(m.queue, mockRead{data: msg})
		}
	}
	return nil
}

// ReadUntil pops the next queued message. The timeout is not waited for.
func (m *MockPort) ReadUntil(_ time.Duration, terminators ...byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, rig.NewIOError("read", m.name, rig.ErrPortClosed)
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if len(m.queue) == 0 {
		return nil, rig.NewTimeoutError("read", m.name)
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	if next.err != nil {
		return nil, next.err
	}
	if len(terminators) == 0 {
		return nil, errors.New("no terminators")
	}
	return next.data, nil
}

// Flush counts flushes; queued replies are kept so tests can script them up front
func (m *MockPort) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return nil
}

// Close marks the port closed
func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockPort) String() string {
	return m.name
}

// Writes returns copies of everything written
func (m *MockPort) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// WriteCount returns the number of writes
func (m *MockPort) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// Pending returns the number of queued reads not consumed yet
func (m *MockPort) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// IsClosed reports whether Close was called
func (m *MockPort) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// BlockingPort is a port whose reads block until Unblock or Close.
// It is used for testing context cancellation around blocked calls.
type BlockingPort struct {
	blockChan chan struct{}
	Reply     []byte
	mu        sync.Mutex
	closed    bool
}

// NewBlockingPort creates a blocking port answering reply once unblocked
func NewBlockingPort(reply []byte) *BlockingPort {
	return &BlockingPort{blockChan: make(chan struct{}), Reply: reply}
}

// Write accepts anything
func (*BlockingPort) Write([]byte) error {
	return nil
}

// ReadUntil blocks until Unblock, Close or timeout
func (b *BlockingPort) ReadUntil(timeout time.Duration, _ ...byte) ([]byte, error) {
	b.mu.Lock()
	blockChan := b.blockChan
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, rig.NewIOError("read", "blocking", rig.ErrPortClosed)
	}

	select {
	case <-blockChan:
	case <-time.After(timeout):
		return nil, rig.NewTimeoutError("read", "blocking")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, rig.NewIOError("read", "blocking", rig.ErrPortClosed)
	}
	return append([]byte(nil), b.Reply...), nil
}

// Unblock releases one pending read
func (b *BlockingPort) Unblock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		close(b.blockChan)
		b.blockChan = make(chan struct{})
	}
}

// Flush does nothing
func (*BlockingPort) Flush() error {
	return nil
}

// Close unblocks all reads
func (b *BlockingPort) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.blockChan)
	}
	return nil
}

func (*BlockingPort) String() string {
	return "blocking"
}
