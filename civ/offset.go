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

import (
	"context"
	"fmt"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/frame"
)

const (
	ritDigits = 4
	// repeater offsets travel in units of 100 Hz
	offsetDigits = 6
	offsetUnit   = 100
)

// SetRIT writes the RIT offset as four BCD digits and a sign byte.
func (b *Backend) SetRIT(ctx context.Context, _ rig.VFO, offset rig.ShortFreq) error {
	data, err := frame.EncodeOffset(int64(offset), ritDigits)
	if err != nil {
		return rig.NewError("set_rit", b.port.String(), fmt.Errorf("%w: %w", rig.ErrInvalidArgument, err))
	}
	return b.engine.ack(ctx, "set_rit", subRequest(frame.CmdRIT, frame.SubRITOffset, data...))
}

// GetRIT reads the RIT offset.
func (b *Backend) GetRIT(ctx context.Context, _ rig.VFO) (rig.ShortFreq, error) {
	data, err := b.engine.query(ctx, "get_rit", subRequest(frame.CmdRIT, frame.SubRITOffset))
	if err != nil {
		return 0, err
	}
	offset, err := frame.DecodeOffset(data, ritDigits)
	if err != nil {
		return 0, rig.NewError("get_rit", b.port.String(), fmt.Errorf("%w: %w", rig.ErrProtocol, err))
	}
	return rig.ShortFreq(offset), nil
}

var shiftSubs = map[rig.RptrShift]byte{
	rig.RptrShiftNone:  frame.SubSimplex,
	rig.RptrShiftMinus: frame.SubDupMinus,
	rig.RptrShiftPlus:  frame.SubDupPlus,
}

// SetRptrShift selects simplex or a duplex direction. Duplex shares the
// command with split, so a shift turns split off on the rig.
func (b *Backend) SetRptrShift(ctx context.Context, _ rig.VFO, shift rig.RptrShift) error {
	sub, ok := shiftSubs[shift]
	if !ok {
		return rig.NewError("set_rptr_shift", b.port.String(), fmt.Errorf("%w: %s", rig.ErrInvalidArgument, shift))
	}
	if err := b.engine.ack(ctx, "set_rptr_shift", subRequest(frame.CmdSplit, sub)); err != nil {
		return err
	}
	b.state.SetSplit(b.caps.Topology(), false)
	return nil
}

// GetRptrShift reads the duplex direction. Split on or off reads as simplex.
func (b *Backend) GetRptrShift(ctx context.Context, _ rig.VFO) (rig.RptrShift, error) {
	data, err := b.engine.query(ctx, "get_rptr_shift", cmdRequest(frame.CmdSplit))
	if err != nil {
		return rig.RptrShiftNone, err
	}
	if len(data) < 1 {
		return rig.RptrShiftNone, rig.NewError("get_rptr_shift", b.port.String(),
			fmt.Errorf("%w: empty duplex reply", rig.ErrProtocol))
	}
	switch data[0] {
	case frame.SubSplitOff, frame.SubSplitOn, frame.SubSimplex:
		return rig.RptrShiftNone, nil
	case frame.SubDupMinus:
		return rig.RptrShiftMinus, nil
	case frame.SubDupPlus:
		return rig.RptrShiftPlus, nil
	default:
		return rig.RptrShiftNone, rig.NewError("get_rptr_shift", b.port.String(),
			fmt.Errorf("%w: unknown duplex state %02X", rig.ErrProtocol, data[0]))
	}
}

// SetRptrOffs writes the repeater offset. The rig stores it in 100 Hz steps.
func (b *Backend) SetRptrOffs(ctx context.Context, _ rig.VFO, offset rig.Freq) error {
	if offset%offsetUnit != 0 {
		return rig.NewError("set_rptr_offs", b.port.String(),
			fmt.Errorf("%w: offset %d is not a multiple of %d Hz", rig.ErrInvalidArgument, uint64(offset), offsetUnit))
	}
	data, err := frame.ToBCD(uint64(offset/offsetUnit), offsetDigits)
	if err != nil {
		return rig.NewError("set_rptr_offs", b.port.String(), fmt.Errorf("%w: %w", rig.ErrInvalidArgument, err))
	}
	return b.engine.ack(ctx, "set_rptr_offs", cmdRequest(frame.CmdSetOffset, data...))
}

// GetRptrOffs reads the repeater offset.
func (b *Backend) GetRptrOffs(ctx context.Context, _ rig.VFO) (rig.Freq, error) {
	data, err := b.engine.query(ctx, "get_rptr_offs", cmdRequest(frame.CmdReadOffset))
	if err != nil {
		return 0, err
	}
	v, err := frame.FromBCD(data, offsetDigits)
	if err != nil {
		return 0, rig.NewError("get_rptr_offs", b.port.String(), fmt.Errorf("%w: %w", rig.ErrProtocol, err))
	}
	return rig.Freq(v * offsetUnit), nil
}
