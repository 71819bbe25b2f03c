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
	"fmt"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/ZaparooProject/go-rig/internal/frame"
)

var modeCodes = map[rig.Mode]byte{
	rig.ModeLSB:   0x00,
	rig.ModeUSB:   0x01,
	rig.ModeAM:    0x02,
	rig.ModeCW:    0x03,
	rig.ModeRTTY:  0x04,
	rig.ModeFM:    0x05,
	rig.ModeWFM:   0x06,
	rig.ModeCWR:   0x07,
	rig.ModeRTTYR: 0x08,
}

// filterWidths holds the wide, normal and narrow passband of each mode.
type filterWidths struct {
	wide, normal, narrow rig.Passband
}

var modeWidths = map[rig.Mode]filterWidths{
	rig.ModeLSB:   {3000, 2400, 1800},
	rig.ModeUSB:   {3000, 2400, 1800},
	rig.ModeAM:    {9000, 6000, 3000},
	rig.ModeCW:    {1200, 500, 250},
	rig.ModeCWR:   {1200, 500, 250},
	rig.ModeRTTY:  {2400, 500, 250},
	rig.ModeRTTYR: {2400, 500, 250},
	rig.ModeFM:    {15000, 10000, 7000},
	rig.ModeWFM:   {230000, 230000, 230000},
}

// NormalPassband returns the default filter width of m.
func NormalPassband(m rig.Mode) rig.Passband {
	return modeWidths[m].normal
}

func modeToIcom(m rig.Mode, pb rig.Passband) (code, filter byte, err error) {
	code, ok := modeCodes[m]
	if !ok {
		return 0, 0, fmt.Errorf("%w: mode %s", rig.ErrNotAvailable, m)
	}
	widths := modeWidths[m]
	switch {
	case pb == rig.PassbandNormal || pb == widths.normal:
		filter = frame.FilterNormal
	case pb > widths.normal:
		filter = frame.FilterWide
	default:
		filter = frame.FilterNarrow
	}
	return code, filter, nil
}

func icomToMode(code, filter byte) (rig.Mode, rig.Passband, error) {
	for m, c := range modeCodes {
		if c != code {
			continue
		}
		widths := modeWidths[m]
		switch filter {
		case frame.FilterWide:
			return m, widths.wide, nil
		case frame.FilterNarrow:
			return m, widths.narrow, nil
		default:
			return m, widths.normal, nil
		}
	}
	return rig.ModeNone, 0, fmt.Errorf("%w: unknown mode code %02X", rig.ErrProtocol, code)
}
