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

package rig

import "time"

// Port is the byte stream a backend talks to the rig over. Implementations
// live in the transport packages; a Port is owned by exactly one Rig.
type Port interface {
	// Write sends the whole buffer.
	Write(p []byte) error

	// ReadUntil returns bytes up to and including the first terminator.
	// It fails with ErrTimeout when no terminator arrives within timeout.
	ReadUntil(timeout time.Duration, terminators ...byte) ([]byte, error)

	// Flush discards buffered input.
	Flush() error

	// Close releases the port.
	Close() error

	// String names the port for logs and errors.
	String() string
}

// PTTLine keys the transmitter through a hardware line instead of a command.
type PTTLine interface {
	SetPTT(on bool) error
	GetPTT() (bool, error)
	Close() error
}
