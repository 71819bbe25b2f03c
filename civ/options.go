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

package civ

import "time"

// Option configures a CI-V backend.
type Option func(*Engine)

// WithEcho makes the engine consume the echo of every frame it sends, as
// seen on single wire interfaces.
func WithEcho(echo bool) Option {
	return func(e *Engine) {
		e.echo = echo
	}
}

// WithPad prefixes every frame with a pad byte.
func WithPad(pad bool) Option {
	return func(e *Engine) {
		e.pad = pad
	}
}

// WithControllerAddress changes the address the computer uses on the bus.
func WithControllerAddress(addr byte) Option {
	return func(e *Engine) {
		e.controller = addr
	}
}

// WithCollisionBackoff sets the base delay before resending after a collision.
func WithCollisionBackoff(d time.Duration) Option {
	return func(e *Engine) {
		e.collisionBackoff = d
	}
}
