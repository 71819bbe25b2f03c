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

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a Rig
type Option func(*Rig) error

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Rig) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidArgument)
		}
		r.logger = logger
		return nil
	}
}

// WithTimeout overrides the per-attempt reply timeout of the model
func WithTimeout(timeout time.Duration) Option {
	return func(r *Rig) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: timeout must be positive", ErrInvalidArgument)
		}
		r.state.Timeout = timeout
		return nil
	}
}

// WithRetries overrides the retry count of the model
func WithRetries(retries int) Option {
	return func(r *Rig) error {
		if retries < 0 {
			return fmt.Errorf("%w: retries must not be negative", ErrInvalidArgument)
		}
		r.state.Retries = retries
		return nil
	}
}

// WithAddress overrides the default bus address of the rig
func WithAddress(addr byte) Option {
	return func(r *Rig) error {
		r.state.Address = addr
		return nil
	}
}

// WithPTTLine keys PTT through a hardware line instead of a command
func WithPTTLine(line PTTLine) Option {
	return func(r *Rig) error {
		r.pttLine = line
		return nil
	}
}
