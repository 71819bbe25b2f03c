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

package frame

import (
	"bytes"
	"errors"
	"fmt"
)

// Frame errors
var (
	ErrMalformed = errors.New("malformed frame")
	ErrCollision = errors.New("frame terminated by collision")
)

// Frame is one CI-V message. Sub is only meaningful when HasSub is set.
type Frame struct {
	Data   []byte
	To     byte
	From   byte
	Cmd    byte
	Sub    byte
	HasSub bool
}

// Encode builds FE FE to from cmd [sub] data FD.
func Encode(f Frame) []byte {
	buf := make([]byte, 0, MinFrameLength+1+len(f.Data))
	buf = append(buf, Preamble, Preamble, f.To, f.From, f.Cmd)
	if f.HasSub {
		buf = append(buf, f.Sub)
	}
	buf = append(buf, f.Data...)
	return append(buf, Terminator)
}

// EncodePadded is Encode with a leading pad byte.
func EncodePadded(f Frame) []byte {
	return append([]byte{Pad}, Encode(f)...)
}

// Decode parses one frame from b. Leading pad bytes and repeated preambles
// are skipped. When hasSub is set the first byte after the command is
// returned as Sub. A frame ending in the collision marker yields ErrCollision.
func Decode(b []byte, hasSub bool) (Frame, error) {
	start := bytes.IndexByte(b, Preamble)
	if start < 0 || start+1 >= len(b) || b[start+1] != Preamble {
		// a collision can clobber the preamble as well
		if len(b) > 0 && b[len(b)-1] == Collision {
			return Frame{}, ErrCollision
		}
		return Frame{}, fmt.Errorf("%w: missing preamble", ErrMalformed)
	}
	for start < len(b) && b[start] == Preamble {
		start++
	}

	end := -1
	for i := start; i < len(b) && i < MaxFrameLength; i++ {
		if b[i] == Terminator || b[i] == Collision {
			end = i
			break
		}
	}
	if end < 0 {
		return Frame{}, fmt.Errorf("%w: no terminator within %d bytes", ErrMalformed, MaxFrameLength)
	}
	if b[end] == Collision {
		return Frame{}, ErrCollision
	}

	body := b[start:end]
	if len(body) < 3 {
		return Frame{}, fmt.Errorf("%w: %d byte body", ErrMalformed, len(body))
	}
	f := Frame{To: body[0], From: body[1], Cmd: body[2]}
	if IsReservedAddress(f.To) || IsReservedAddress(f.From) {
		return Frame{}, fmt.Errorf("%w: reserved address %02X/%02X", ErrMalformed, f.To, f.From)
	}

	rest := body[3:]
	if hasSub {
		if len(rest) == 0 {
			return Frame{}, fmt.Errorf("%w: missing sub-command", ErrMalformed)
		}
		f.Sub = rest[0]
		f.HasSub = true
		rest = rest[1:]
	}
	if len(rest) > 0 {
		f.Data = append([]byte(nil), rest...)
	}
	return f, nil
}
