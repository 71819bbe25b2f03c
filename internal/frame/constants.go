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

// Package frame encodes and decodes CI-V frames and their BCD fields.
package frame

// Frame markers and control bytes
const (
	Pad        = 0xFF // Leading filler some rigs need to flush their receiver
	Preamble   = 0xFE // Sent twice before every frame
	Terminator = 0xFD // End of message
	Collision  = 0xFC // End of a frame mangled by a bus collision
	Ack        = 0xFB // Command accepted
	Nak        = 0xFA // Command rejected
)

// Well known addresses
const (
	ControllerAddr = 0xE0 // Default address of the computer
	BroadcastAddr  = 0x00
)

// Frame size limits
const (
	MaxFrameLength = 64 // Longest frame the decoder accepts, preamble included
	MinFrameLength = 6  // FE FE to from cmd FD
)

// Command numbers
const (
	CmdTransceiveFreq = 0x00
	CmdTransceiveMode = 0x01
	CmdReadFreq       = 0x03
	CmdReadMode       = 0x04
	CmdSetFreq        = 0x05
	CmdSetMode        = 0x06
	CmdSetVFO         = 0x07
	CmdSetMem         = 0x08
	CmdMemToVFO       = 0x0A
	CmdReadOffset     = 0x0C
	CmdSetOffset      = 0x0D
	CmdSplit          = 0x0F
	CmdLevel          = 0x14
	CmdFunction       = 0x16
	CmdPower          = 0x18
	CmdReadID         = 0x19
	CmdPTT            = 0x1C
	CmdRIT            = 0x21
	CmdTargetFreq     = 0x25
	CmdTargetMode     = 0x26
)

// Sub-commands of CmdSetVFO
const (
	SubVFOA        = 0x00
	SubVFOB        = 0x01
	SubVFOEqualAB  = 0xA0
	SubVFOExchange = 0xB0
	SubVFOMain     = 0xD0
	SubVFOSub      = 0xD1
	SubVFOReadBand = 0xD2
)

// Sub-commands of CmdSplit
const (
	SubSplitOff = 0x00
	SubSplitOn  = 0x01
	SubSimplex  = 0x10
	SubDupMinus = 0x11
	SubDupPlus  = 0x12
)

// Sub-commands of CmdLevel
const (
	SubLevelAF      = 0x01
	SubLevelRF      = 0x02
	SubLevelSQL     = 0x03
	SubLevelNR      = 0x06
	SubLevelRFPower = 0x0A
	SubLevelMicGain = 0x0B
)

// Sub-commands of CmdFunction, CmdPower, CmdReadID, CmdPTT, CmdRIT and the
// selected/unselected VFO commands
const (
	SubFuncSatMode = 0x5A
	SubPowerOff    = 0x00
	SubPowerOn     = 0x01
	SubReadID      = 0x00
	SubPTT         = 0x00
	SubRITOffset   = 0x00
	SubTargetSel   = 0x00
	SubTargetUnsel = 0x01
	ModeDataOff    = 0x00
	FilterWide     = 0x01
	FilterNormal   = 0x02
	FilterNarrow   = 0x03
)

// IsReservedAddress reports whether b can never be a device address.
func IsReservedAddress(b byte) bool {
	return b >= Nak
}
