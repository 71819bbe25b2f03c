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
	"context"
	"fmt"
)

// SetMem selects memory channel ch.
func (r *Rig) SetMem(ctx context.Context, vfo VFO, ch int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_mem"); err != nil {
		return err
	}
	mb, ok := r.backend.(MemoryBackend)
	if !ok || r.caps.MemChannels == 0 {
		return NewError("set_mem", r.port.String(), ErrNotAvailable)
	}
	if ch < 1 || ch > r.caps.MemChannels {
		return fmt.Errorf("%w: channel %d outside 1-%d", ErrInvalidArgument, ch, r.caps.MemChannels)
	}
	return r.dispatch(ctx, "set_mem", vfo, TargetableMem, func(v VFO) error {
		if err := mb.SetMem(ctx, v, ch); err != nil {
			return err
		}
		// the memory VFO shows another channel now
		delete(r.state.cache, VFOMem)
		return nil
	})
}

// GetMem returns the selected memory channel.
func (r *Rig) GetMem(ctx context.Context, vfo VFO) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_mem"); err != nil {
		return 0, err
	}
	mb, ok := r.backend.(MemoryBackend)
	if !ok || r.caps.MemChannels == 0 {
		return 0, NewError("get_mem", r.port.String(), ErrNotAvailable)
	}
	return dispatchGet(ctx, r, "get_mem", vfo, TargetableMem, func(v VFO) (int, error) {
		return mb.GetMem(ctx, v)
	})
}
