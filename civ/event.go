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
	"errors"
	"fmt"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/frame"
)

// DecodeEvent decodes a transceive frame the rig sends on its own when
// the frequency or mode changes on the front panel.
func (b *Backend) DecodeEvent(raw []byte) (rig.Event, error) {
	f, err := frame.Decode(raw, false)
	if err != nil {
		if errors.Is(err, frame.ErrCollision) {
			return rig.Event{}, rig.NewError("decode_event", b.port.String(), rig.ErrCollision)
		}
		return rig.Event{}, rig.NewError("decode_event", b.port.String(), fmt.Errorf("%w: %w", rig.ErrProtocol, err))
	}
	if f.From != b.state.Address {
		return rig.Event{}, rig.NewError("decode_event", b.port.String(),
			fmt.Errorf("%w: frame from %02X, rig is %02X", rig.ErrProtocol, f.From, b.state.Address))
	}

	ev := rig.Event{VFO: rig.VFOCurr}
	switch f.Cmd {
	case frame.CmdTransceiveFreq, frame.CmdReadFreq:
		freq, err := b.decodeFreq("decode_event", f.Data)
		if err != nil {
			return rig.Event{}, err
		}
		ev.Freq = freq
		ev.HasFreq = true
	case frame.CmdTransceiveMode, frame.CmdReadMode:
		if len(f.Data) < 1 {
			return rig.Event{}, rig.NewError("decode_event", b.port.String(), fmt.Errorf("%w: empty mode event", rig.ErrProtocol))
		}
		filter := byte(frame.FilterNormal)
		if len(f.Data) >= 2 {
			filter = f.Data[1]
		}
		m, pb, err := b.decodeMode(f.Data[0], filter)
		if err != nil {
			return rig.Event{}, err
		}
		ev.Mode = m
		ev.Passband = pb
		ev.HasMode = true
	default:
		return rig.Event{}, rig.NewError("decode_event", b.port.String(),
			fmt.Errorf("%w: command %02X is not an event", rig.ErrNotAvailable, f.Cmd))
	}
	return ev, nil
}
