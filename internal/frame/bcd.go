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
	"errors"
	"fmt"
)

// ErrBlank is returned for a BCD field of all 0xFF bytes, the marking of
// an unprogrammed memory channel.
var ErrBlank = errors.New("blank BCD field")

func bcdLen(digits int) int {
	return (digits + 1) / 2
}

func maxForDigits(digits int) uint64 {
	limit := uint64(1)
	for i := 0; i < digits && i < 20; i++ {
		limit *= 10
	}
	return limit
}

// ToBCD encodes value in digits decimal digits, least significant pair
// first, zero padded.
func ToBCD(value uint64, digits int) ([]byte, error) {
	if digits <= 0 || digits > 19 {
		return nil, fmt.Errorf("invalid BCD digit count %d", digits)
	}
	if value >= maxForDigits(digits) {
		return nil, fmt.Errorf("value %d does not fit in %d BCD digits", value, digits)
	}
	out := make([]byte, bcdLen(digits))
	for i := range out {
		lo := byte(value % 10)
		value /= 10
		hi := byte(value % 10)
		value /= 10
		out[i] = hi<<4 | lo
	}
	return out, nil
}

// FromBCD decodes digits decimal digits written by ToBCD.
func FromBCD(b []byte, digits int) (uint64, error) {
	n := bcdLen(digits)
	if digits <= 0 || len(b) < n {
		return 0, fmt.Errorf("%w: need %d BCD bytes, have %d", ErrMalformed, n, len(b))
	}
	if isBlank(b[:n]) {
		return 0, ErrBlank
	}
	var value uint64
	for i := n - 1; i >= 0; i-- {
		hi, lo := b[i]>>4, b[i]&0x0F
		if hi > 9 || lo > 9 {
			return 0, fmt.Errorf("%w: invalid BCD byte %02X", ErrMalformed, b[i])
		}
		value = value*100 + uint64(hi)*10 + uint64(lo)
	}
	return value, nil
}

// ToBCDBigEndian encodes value most significant pair first, as used by
// level and channel fields.
func ToBCDBigEndian(value uint64, digits int) ([]byte, error) {
	out, err := ToBCD(value, digits)
	if err != nil {
		return nil, err
	}
	reverse(out)
	return out, nil
}

// FromBCDBigEndian decodes a field written by ToBCDBigEndian.
func FromBCDBigEndian(b []byte, digits int) (uint64, error) {
	n := bcdLen(digits)
	if digits <= 0 || len(b) < n {
		return 0, fmt.Errorf("%w: need %d BCD bytes, have %d", ErrMalformed, n, len(b))
	}
	le := append([]byte(nil), b[:n]...)
	reverse(le)
	return FromBCD(le, digits)
}

// EncodeOffset encodes a signed offset as BCD magnitude followed by a
// sign byte (0x00 positive, 0x01 negative).
func EncodeOffset(offset int64, digits int) ([]byte, error) {
	sign := byte(0x00)
	mag := offset
	if offset < 0 {
		sign = 0x01
		mag = -offset
	}
	out, err := ToBCD(uint64(mag), digits)
	if err != nil {
		return nil, err
	}
	return append(out, sign), nil
}

// DecodeOffset decodes a field written by EncodeOffset.
func DecodeOffset(b []byte, digits int) (int64, error) {
	n := bcdLen(digits)
	if len(b) < n+1 {
		return 0, fmt.Errorf("%w: need %d offset bytes, have %d", ErrMalformed, n+1, len(b))
	}
	mag, err := FromBCD(b[:n], digits)
	if err != nil {
		return 0, err
	}
	switch b[n] {
	case 0x00:
		return int64(mag), nil
	case 0x01:
		return -int64(mag), nil
	default:
		return 0, fmt.Errorf("%w: invalid sign byte %02X", ErrMalformed, b[n])
	}
}

func isBlank(b []byte) bool {
	for _, v := range b {
		if v != 0xFF {
			return false
		}
	}
	return true
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
