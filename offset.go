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

// SetRIT sets the RIT offset of vfo. Zero clears the offset.
func (r *Rig) SetRIT(ctx context.Context, vfo VFO, offset ShortFreq) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("set_rit"); err != nil {
		return err
	}
	rb, ok := r.backend.(RITBackend)
	if !ok || r.caps.MaxRIT == 0 {
		return NewError("set_rit", r.port.String(), ErrNotAvailable)
	}
	if offset > r.caps.MaxRIT || offset < -r.caps.MaxRIT {
		return fmt.Errorf("%w: RIT offset %d outside ±%d Hz", ErrInvalidArgument, offset, r.caps.MaxRIT)
	}
	return r.dispatch(ctx, "set_rit", vfo, TargetableRIT, func(v VFO) error {
		return rb.SetRIT(ctx, v, offset)
	})
}

// GetRIT reads the RIT offset of vfo.
func (r *Rig) GetRIT(ctx context.Context, vfo VFO) (ShortFreq, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen("get_rit"); err != nil {
		return 0, err
	}
	rb, ok := r.backend.(RITBackend)
	if !ok || r.caps.MaxRIT == 0 {
		return 0, NewError("get_rit", r.port.String(), ErrNotAvailable)
	}
	return dispatchGet(ctx, r, "get_rit", vfo, TargetableRIT, func(v VFO) (ShortFreq, error) {
		return rb.GetRIT(ctx, v)
	})
}

func (r *Rig) repeater(op string) (RepeaterBackend, error) {
	if err := r.checkOpen(op); err != nil {
		return nil, err
	}
	rb, ok := r.backend.(RepeaterBackend)
	if !ok || !r.caps.HasRepeater {
		return nil, NewError(op, r.port.String(), ErrNotAvailable)
	}
	return rb, nil
}

// SetRptrShift sets the repeater shift direction of vfo.
func (r *Rig) SetRptrShift(ctx context.Context, vfo VFO, shift RptrShift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rb, err := r.repeater("set_rptr_shift")
	if err != nil {
		return err
	}
	switch shift {
	case RptrShiftNone, RptrShiftMinus, RptrShiftPlus:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, shift)
	}
	return r.dispatch(ctx, "set_rptr_shift", vfo, TargetableRptr, func(v VFO) error {
		return rb.SetRptrShift(ctx, v, shift)
	})
}

// GetRptrShift reads the repeater shift direction of vfo.
func (r *Rig) GetRptrShift(ctx context.Context, vfo VFO) (RptrShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rb, err := r.repeater("get_rptr_shift")
	if err != nil {
		return RptrShiftNone, err
	}
	return dispatchGet(ctx, r, "get_rptr_shift", vfo, TargetableRptr, func(v VFO) (RptrShift, error) {
		return rb.GetRptrShift(ctx, v)
	})
}

// SetRptrOffs sets the repeater offset of vfo in Hz.
func (r *Rig) SetRptrOffs(ctx context.Context, vfo VFO, offset Freq) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rb, err := r.repeater("set_rptr_offs")
	if err != nil {
		return err
	}
	if offset == FreqNone {
		return fmt.Errorf("%w: blank repeater offset", ErrInvalidArgument)
	}
	return r.dispatch(ctx, "set_rptr_offs", vfo, TargetableRptr, func(v VFO) error {
		return rb.SetRptrOffs(ctx, v, offset)
	})
}

// GetRptrOffs reads the repeater offset of vfo.
func (r *Rig) GetRptrOffs(ctx context.Context, vfo VFO) (Freq, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rb, err := r.repeater("get_rptr_offs")
	if err != nil {
		return 0, err
	}
	return dispatchGet(ctx, r, "get_rptr_offs", vfo, TargetableRptr, func(v VFO) (Freq, error) {
		return rb.GetRptrOffs(ctx, v)
	})
}
