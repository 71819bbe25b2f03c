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

// memDigits is the width of a memory channel number. Unlike frequencies
// the channel number is sent most significant byte first.
const memDigits = 4

// SetMem selects memory channel ch.
func (b *Backend) SetMem(ctx context.Context, _ rig.VFO, ch int) error {
	if ch < 0 {
		return rig.NewError("set_mem", b.port.String(), fmt.Errorf("%w: channel %d", rig.ErrInvalidArgument, ch))
	}
	data, err := frame.ToBCDBigEndian(uint64(ch), memDigits)
	if err != nil {
		return rig.NewError("set_mem", b.port.String(), fmt.Errorf("%w: %w", rig.ErrInvalidArgument, err))
	}
	if err := b.engine.ack(ctx, "set_mem", cmdRequest(frame.CmdSetMem, data...)); err != nil {
		return err
	}
	b.memChannel = ch
	return nil
}

// GetMem returns the channel this session last selected. CI-V has no
// command reading the channel number back.
func (b *Backend) GetMem(context.Context, rig.VFO) (int, error) {
	if b.memChannel == 0 {
		return 0, rig.NewError("get_mem", b.port.String(),
			fmt.Errorf("%w: no channel selected in this session", rig.ErrNotAvailable))
	}
	return b.memChannel, nil
}
