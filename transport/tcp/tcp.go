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

// Package tcp implements rig.Port over a TCP byte stream, as exposed by
// CI-V network bridges and serial device servers.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/transport"
)

const (
	// DefaultDialTimeout bounds connection setup.
	DefaultDialTimeout = 5 * time.Second

	maxFlushReads = 64
)

// Port is a rig.Port over a TCP connection.
type Port struct {
	conn   net.Conn
	reader *transport.TerminatedReader
	addr   string
	mu     sync.Mutex
	closed bool
}

// Dial connects to addr ("host:port").
func Dial(ctx context.Context, addr string) (*Port, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: empty address", rig.ErrInvalidArgument)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return nil, fmt.Errorf("%w: %w", rig.ErrInvalidArgument, err)
	}

	dialer := net.Dialer{Timeout: DefaultDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, rig.NewIOError("dial", addr, err)
	}
	return NewPort(addr, conn), nil
}

// NewPort wraps an established connection.
func NewPort(name string, conn net.Conn) *Port {
	p := &Port{conn: conn, addr: name}
	p.reader = transport.NewTerminatedReader(name, p.readChunk)
	return p
}

func (p *Port) readChunk(buf []byte, timeout time.Duration) (int, error) {
	if err := p.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	n, err := p.conn.Read(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return n, nil
		}
		if errors.Is(err, net.ErrClosed) {
			return n, rig.ErrPortClosed
		}
		return n, err
	}
	return n, nil
}

// Write sends the whole buffer.
func (p *Port) Write(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return rig.NewIOError("write", p.addr, rig.ErrPortClosed)
	}
	if _, err := p.conn.Write(data); err != nil {
		return rig.NewIOError("write", p.addr, err)
	}
	return nil
}

// ReadUntil returns bytes up to and including the first terminator.
func (p *Port) ReadUntil(timeout time.Duration, terminators ...byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, rig.NewIOError("read", p.addr, rig.ErrPortClosed)
	}
	return p.reader.ReadUntil(timeout, terminators...)
}

// Flush discards buffered bytes and whatever is already waiting on the socket.
func (p *Port) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return rig.NewIOError("flush", p.addr, rig.ErrPortClosed)
	}
	p.reader.Reset()

	buf := make([]byte, 256)
	for range maxFlushReads {
		n, err := p.readChunk(buf, time.Millisecond)
		if err != nil {
			return rig.NewIOError("flush", p.addr, err)
		}
		if n == 0 {
			break
		}
	}
	return nil
}

// Close closes the connection.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.conn.Close(); err != nil {
		return rig.NewIOError("close", p.addr, err)
	}
	return nil
}

func (p *Port) String() string {
	return p.addr
}
