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

package testing

import (
	"github.com/ZaparooProject/go-rig/internal/frame"
)

// Controller is the address the tests talk from.
const Controller = frame.ControllerAddr

// BuildAck creates an acknowledgement from addr
func BuildAck(addr byte) []byte {
	return frame.Encode(frame.Frame{To: Controller, From: addr, Cmd: frame.Ack})
}

// BuildNak creates a rejection from addr
func BuildNak(addr byte) []byte {
	return frame.Encode(frame.Frame{To: Controller, From: addr, Cmd: frame.Nak})
}

// BuildReply creates a data reply from addr
func BuildReply(addr, cmd byte, data ...byte) []byte {
	return frame.Encode(frame.Frame{To: Controller, From: addr, Cmd: cmd, Data: data})
}

// BuildFreqReply creates a read frequency reply carrying hz in digits BCD digits
func BuildFreqReply(addr byte, hz uint64, digits int) []byte {
	data, err := frame.ToBCD(hz, digits)
	if err != nil {
		panic(err)
	}
	return BuildReply(addr, frame.CmdReadFreq, data...)
}

// BuildBlankFreqReply creates the reply of an unprogrammed memory channel
func BuildBlankFreqReply(addr byte, bytes int) []byte {
	data := make([]byte, bytes)
	for i := range data {
		data[i] = 0xFF
	}
	return BuildReply(addr, frame.CmdReadFreq, data...)
}

// BuildCollision creates a frame cut short by a bus collision
func BuildCollision(addr byte) []byte {
	return []byte{frame.Preamble, frame.Preamble, Controller, addr, frame.Collision}
}

// BuildGarbage creates bytes that end in a terminator but do not form a frame
func BuildGarbage() []byte {
	return []byte{0x12, 0x34, frame.Terminator}
}

// BuildRequest creates the frame a controller sends to addr
func BuildRequest(addr, cmd byte, data ...byte) []byte {
	return frame.Encode(frame.Frame{To: addr, From: Controller, Cmd: cmd, Data: data})
}
