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

package transport

import (
	"fmt"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/smallnest/ringbuffer"
)

const (
	// DefaultBufferSize bounds the bytes held between reads.
	DefaultBufferSize = 1024
	// DefaultMaxMessage bounds a single message before it is given up as garbage.
	DefaultMaxMessage = 256
)

// ReadFunc reads whatever is available into p, waiting at most timeout.
// It returns 0 and a nil error when nothing arrived in time.
type ReadFunc func(p []byte, timeout time.Duration) (int, error)

// TerminatedReader splits a byte stream into terminator delimited messages.
// Bytes read past a terminator are kept for the next call.
type TerminatedReader struct {
	read       ReadFunc
	pending    *ringbuffer.RingBuffer
	name       string
	chunk      []byte
	maxMessage int
}

// NewTerminatedReader creates a reader over read. name is used in errors.
func NewTerminatedReader(name string, read ReadFunc) *TerminatedReader {
	return &TerminatedReader{
		read:       read,
		pending:    ringbuffer.New(DefaultBufferSize),
		name:       name,
		chunk:      make([]byte, 128),
		maxMessage: DefaultMaxMessage,
	}
}

// ReadUntil returns the next message including its terminator.
func (r *TerminatedReader) ReadUntil(timeout time.Duration, terminators ...byte) ([]byte, error) {
	if len(terminators) == 0 {
		return nil, fmt.Errorf("%w: no terminator given", rig.ErrInvalidArgument)
	}
	deadline := time.Now().Add(timeout)
	msg := make([]byte, 0, 32)

	for {
		for !r.pending.IsEmpty() {
			b, err := r.pending.ReadByte()
			if err != nil {
				break
			}
			msg = append(msg, b)
			if isTerminator(b, terminators) {
				return msg, nil
			}
			if len(msg) >= r.maxMessage {
				return msg, rig.NewError("read", r.name,
					fmt.Errorf("%w: no terminator within %d bytes", rig.ErrProtocol, r.maxMessage))
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return msg, rig.NewTimeoutError("read", r.name)
		}
		n, err := r.read(r.chunk, remaining)
		if err != nil {
			return msg, rig.NewIOError("read", r.name, err)
		}
		if n == 0 {
			continue
		}
		if _, err := r.pending.Write(r.chunk[:n]); err != nil {
			return msg, rig.NewError("read", r.name, fmt.Errorf("%w: receive buffer full: %w", rig.ErrProtocol, err))
		}
	}
}

// Reset drops any buffered bytes.
func (r *TerminatedReader) Reset() {
	r.pending.Reset()
}

// Buffered returns the number of bytes waiting to be consumed.
func (r *TerminatedReader) Buffered() int {
	return r.pending.Length()
}

func isTerminator(b byte, terminators []byte) bool {
	for _, t := range terminators {
		if b == t {
			return true
		}
	}
	return false
}
