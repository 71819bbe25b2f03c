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

package dummy

import (
	"sync"
	"time"

	rig "github.com/ZaparooProject/go-rig"
)

// Port is a rig.Port connected to nothing. Writes are discarded and reads
// time out at once.
type Port struct {
	mu     sync.Mutex
	closed bool
}

// NewPort creates an unconnected port.
func NewPort() *Port {
	return &Port{}
}

// Write discards p.
func (p *Port) Write([]byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return rig.NewIOError("write", p.String(), rig.ErrPortClosed)
	}
	return nil
}

// ReadUntil always times out.
func (p *Port) ReadUntil(time.Duration, ...byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, rig.NewIOError("read", p.String(), rig.ErrPortClosed)
	}
	return nil, rig.NewTimeoutError("read", p.String())
}

// Flush does nothing.
func (*Port) Flush() error {
	return nil
}

// Close marks the port closed.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (*Port) String() string {
	return "dummy"
}
